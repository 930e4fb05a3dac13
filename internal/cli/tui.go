package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/update"
	"github.com/spf13/cobra"
)

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive task list (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runTUI,
	}
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()

	ctx := cmd.Context()
	s, err := a.openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := update.Options{
		ExportDir:            cfg.ExportDir,
		DesktopNotifications: cfg.DesktopNotifications,
		Logger:               logger,
	}
	if cfg.DesktopNotifications {
		opts.Notifier = update.ExecDesktopNotifier{}
	}
	program := tea.NewProgram(update.NewModel(ctx, s.store, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tasklist failed: %w", err)
	}
	return nil
}
