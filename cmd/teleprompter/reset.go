package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csheth/teleprompter/internal/notify"
	"github.com/csheth/teleprompter/internal/prompter"
	"github.com/csheth/teleprompter/internal/storage"
)

func newResetCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the saved speed, text size and script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*opts)
			if err != nil {
				return err
			}
			logger, closeLog, err := newLogger(opts.LogFile, opts.Debug)
			if err != nil {
				return err
			}
			defer closeLog()

			rec := &notify.Recorder{}
			session, err := prompter.Open(prompter.Options{
				Store:    storage.NewFile(resolveStatePath(*opts, cfg), logger),
				Notifier: rec,
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			defer session.Close()

			rec.Reset()
			session.ResetAll()
			last, _ := rec.Last()
			if last.Severity() == notify.SeverityError {
				return errors.New(last.Message)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), last.Message)
			return err
		},
	}
}
