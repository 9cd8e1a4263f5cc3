package cli

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/servicelog/internal/files"
	"github.com/faizmokh/servicelog/internal/maintenance"
)

// entryFlags are the form fields shared by add and edit.
type entryFlags struct {
	serviceType string
	custom      string
	odometer    string
	interval    string
	notes       string
}

func (f *entryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.serviceType, "type", "", "Service type (a configured type, Custom, or any name)")
	cmd.Flags().StringVar(&f.custom, "custom", "", "Custom service type name")
	cmd.Flags().StringVar(&f.odometer, "odometer", "", "Odometer reading in km at the time of service")
	cmd.Flags().StringVar(&f.interval, "interval", "", "Kilometres until the next service")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
}

// apply overwrites form fields whose flags were set on the command line.
func (f *entryFlags) apply(cmd *cobra.Command, form maintenance.Form, types []string) maintenance.Form {
	flags := cmd.Flags()
	if flags.Changed("type") {
		form.ServiceType, form.CustomType = f.serviceType, ""
		if f.serviceType != maintenance.CustomType && !slices.Contains(types, f.serviceType) {
			form.ServiceType, form.CustomType = maintenance.CustomType, f.serviceType
		}
	}
	if flags.Changed("custom") {
		form.ServiceType, form.CustomType = maintenance.CustomType, f.custom
	}
	if flags.Changed("odometer") {
		form.Odometer = f.odometer
	}
	if flags.Changed("interval") {
		form.Interval = f.interval
	}
	if flags.Changed("notes") {
		form.Notes = f.notes
	}
	return form
}

// confirm asks question on out and reads a yes/no answer from in. Anything
// but y or yes, including end of input, counts as no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	fmt.Fprintln(out)
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// writeOutput prints content, or writes it atomically to path when set.
func writeOutput(cmd *cobra.Command, path, content string) error {
	if path == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if err := files.WriteAtomic(path, []byte(content)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
