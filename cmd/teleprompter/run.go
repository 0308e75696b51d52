package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/teleprompter/internal/config"
	"github.com/csheth/teleprompter/internal/notify"
	"github.com/csheth/teleprompter/internal/prompter"
	"github.com/csheth/teleprompter/internal/storage"
	"github.com/csheth/teleprompter/internal/tui"
)

func run(ctx context.Context, cmd *cobra.Command, opts Options, file string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(opts.LogFile, opts.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	statePath := resolveStatePath(opts, cfg)
	toast := notify.NewToast(cfg.GetNotificationDuration())
	notifier := notify.Func(func(message, category string) {
		logger.Info("notification", "category", category, "message", message)
		toast.Notify(message, category)
	})

	session, err := prompter.Open(prompter.Options{
		Store:     storage.NewFile(statePath, logger),
		Notifier:  notifier,
		Logger:    logger,
		TickUnit:  cfg.GetTickUnit(),
		ToggleKey: cfg.GetToggleKey(),
	})
	if err != nil {
		return err
	}
	defer session.Close()

	if cmd.Flags().Changed("speed") {
		session.SetSpeed(opts.Speed)
	}
	if cmd.Flags().Changed("text-size") {
		session.SetTextSize(opts.TextSize)
	}
	if file != "" {
		session.Drop(file)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !opts.NoAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if cfg.GetMouse() && !opts.NoMouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	program := tea.NewProgram(tui.New(tui.Config{
		Session:       session,
		Toast:         toast,
		Notifier:      notifier,
		Logger:        logger,
		ReleaseWindow: cfg.GetKeyReleaseWindow(),
		Watch:         opts.Watch || cfg.GetWatch(),
		StatePath:     statePath,
	}), programOpts...)

	logger.Debug("starting", "state", statePath, "file", file)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func loadConfig(opts Options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

func resolveStatePath(opts Options, cfg *config.Config) string {
	if opts.StatePath != "" {
		return opts.StatePath
	}
	return cfg.GetStatePath()
}

// newLogger writes to the named file. The terminal belongs to the TUI, so
// without a file records are dropped.
func newLogger(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newTextLogger(f, level), func() { _ = f.Close() }, nil
}

func newTextLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
