package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/servicelog/internal/maintenance"
	"github.com/faizmokh/servicelog/internal/mcptools"
	"github.com/faizmokh/servicelog/internal/report"
	"github.com/faizmokh/servicelog/internal/version"
)

func newExportCommand(ctx context.Context, app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the stored record as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, found, err := app.Store.LoadRaw(ctx)
			if err != nil {
				return err
			}
			if !found {
				if blob, err = maintenance.Encode(maintenance.DefaultData()); err != nil {
					return err
				}
			}
			return writeOutput(cmd, out, blob+"\n")
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")

	return cmd
}

func newImportCommand(ctx context.Context, app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored record with an exported JSON blob.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			if err := app.Store.SaveRaw(ctx, strings.TrimSpace(string(raw))); err != nil {
				return err
			}

			data := app.Service.Refresh(ctx)
			app.Logger.WithField("file", args[0]).Info("record imported")
			pending := "no pending service"
			if data.HasPending() {
				pending = "pending " + data.Current.ServiceType
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d completed service(s), %s\n", len(data.History), pending)
			return nil
		},
	}
}

func newReportCommand(ctx context.Context, app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the maintenance log as Markdown.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd, out, report.Markdown(app.Service.Refresh(ctx), time.Local))
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")

	return cmd
}

func newMCPCommand(ctx context.Context, app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the service tools to MCP clients over stdio.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcptools.Serve(ctx, app.Service, app.Logger)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offline: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}
