package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/servicelog/internal/maintenance"
	"github.com/faizmokh/servicelog/internal/report"
)

func newStatusCommand(ctx context.Context, app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the next scheduled service.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := app.Service.Refresh(ctx)
			_, err := fmt.Fprint(cmd.OutOrStdout(), report.Status(data, time.Local))
			return err
		},
	}
}

func newAddCommand(ctx context.Context, app *App) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule the next service, replacing any pending one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			types := app.Config.ServiceTypes
			data, err := app.Service.ScheduleFrom(ctx, func(data maintenance.AppData) (maintenance.ServiceInput, error) {
				return flags.apply(cmd, maintenance.NewForm(data, nil, types), types).Input()
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s at %s, next due %s\n",
				data.Current.ServiceType, report.Distance(data.Current.Odometer), report.Distance(data.Current.NextDue))
			return nil
		},
	}

	flags.bind(cmd)
	_ = cmd.MarkFlagRequired("odometer")

	return cmd
}

func newEditCommand(ctx context.Context, app *App) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the pending service; unset flags keep their stored values.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Service.UpdateCurrent(ctx, func(form maintenance.Form) maintenance.Form {
				return flags.apply(cmd, form, app.Config.ServiceTypes)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s, next due %s\n",
				data.Current.ServiceType, report.Distance(data.Current.NextDue))
			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}

func newDoneCommand(ctx context.Context, app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "done",
		Short: "Mark the pending service as completed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := app.Service.Refresh(ctx).Current
			if current == nil {
				return maintenance.ErrNoCurrentService
			}

			if app.Config.ConfirmComplete && !yes {
				question := fmt.Sprintf("Mark %s at %s as done?", current.ServiceType, report.Distance(current.Odometer))
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			data, err := app.Service.Complete(ctx)
			if err != nil {
				return err
			}
			done := data.History[0]
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s at %s\n", done.ServiceType, report.Distance(done.Odometer))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Complete without asking for confirmation")

	return cmd
}

func newHistoryCommand(ctx context.Context, app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed services, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("invalid --limit %d (must be >= 0)", limit)
			}

			history := maintenance.SortedHistory(app.Service.Refresh(ctx).History)
			out := cmd.OutOrStdout()
			if len(history) == 0 {
				fmt.Fprintln(out, "No completed services yet.")
				return nil
			}
			if limit > 0 && len(history) > limit {
				history = history[:limit]
			}
			for i, entry := range history {
				fmt.Fprintf(out, "%d. %s %s\n", i+1, report.Day(entry, time.Local), report.Line(entry, time.Local))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many entries (0 for all)")

	return cmd
}
