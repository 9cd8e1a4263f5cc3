package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/servicelog/internal/maintenance"
	"github.com/faizmokh/servicelog/internal/report"
)

func newSettingsCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show stored preferences.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), report.Settings(app.Service.Refresh(ctx)))
			return err
		},
	}

	cmd.AddCommand(newSetIntervalCommand(ctx, app))

	return cmd
}

func newSetIntervalCommand(ctx context.Context, app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-interval <km>",
		Short: "Set the interval pre-filled for new services.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := maintenance.ParseNumber("defaultInterval", args[0])
			if err != nil {
				return err
			}
			data, err := app.Service.SetDefaultInterval(ctx, value)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), report.Settings(data))
			return err
		},
	}
}
