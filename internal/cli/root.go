package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/faizmokh/servicelog/internal/files"
	"github.com/faizmokh/servicelog/internal/storage"
	"github.com/faizmokh/servicelog/internal/ui"
)

const watchDelay = 250 * time.Millisecond

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
func NewRootCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servicelog",
		Short: "Track your vehicle's next service from the terminal.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsStore(cmd) {
				return nil
			}
			return app.Open(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(ctx, app)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newStatusCommand(ctx, app),
		newAddCommand(ctx, app),
		newEditCommand(ctx, app),
		newDoneCommand(ctx, app),
		newHistoryCommand(ctx, app),
		newSettingsCommand(ctx, app),
		newExportCommand(ctx, app),
		newImportCommand(ctx, app),
		newReportCommand(ctx, app),
		newMCPCommand(ctx, app),
		newVersionCommand(),
	)

	return cmd
}

// offline marks commands that run without config, logs, or the database.
const offline = "servicelog/offline"

func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[offline]; ok {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func runTUI(ctx context.Context, app *App) error {
	m := ui.NewModel(ctx, app.Service, ui.Options{
		ServiceTypes:    app.Config.ServiceTypes,
		ConfirmComplete: app.Config.ConfirmComplete,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ui.Follow(watchCtx, app.Service, program.Send)
	if err := storage.Watch(watchCtx, app.DBPath, watchDelay, func() {
		app.Service.Refresh(watchCtx)
	}); err != nil {
		app.Logger.WithError(err).Warn("external changes will not be picked up")
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	manager, err := files.NewManager("")
	if err != nil {
		return err
	}
	app := NewApp(manager)
	defer app.Close()

	return NewRootCommand(ctx, app).Execute()
}

// Main is a helper used by cmd/servicelog/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
