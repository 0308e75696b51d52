package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var version = "dev"

// Options holds the command-line configuration.
type Options struct {
	ConfigPath  string
	StatePath   string
	Speed       int
	TextSize    float64
	Watch       bool
	NoAltScreen bool
	NoMouse     bool
	LogFile     string
	Debug       bool
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(version),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts Options

	rootCmd := &cobra.Command{
		Use:   "teleprompter [flags] [file]",
		Short: "Full-screen terminal teleprompter",
		Long: `Teleprompter scrolls a plain-text script through the terminal at an
adjustable speed. Space or a left click starts and stops scrolling, edit mode
turns the script into an editable text area.`,
		Example: `  # Open a script
  teleprompter keynote.txt

  # Start empty and paste or drag a file onto the terminal
  teleprompter

  # Follow edits made to the script in another editor
  teleprompter --watch keynote.txt

  # Forget saved speed, text size and script
  teleprompter reset`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			return run(cmd.Context(), cmd, opts, file)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "path to config.toml (default $XDG_CONFIG_HOME/teleprompter/config.toml)")
	flags.StringVar(&opts.StatePath, "state", "", "path to the state file (default $TELEPROMPTER_STATE or $XDG_CONFIG_HOME/teleprompter/state.json)")
	flags.StringVar(&opts.LogFile, "log-file", "", "write logs to this file")
	flags.BoolVarP(&opts.Debug, "debug", "d", false, "enable debug logging")

	rootCmd.Flags().IntVar(&opts.Speed, "speed", 0, "scroll speed from 1 to 100 (saved)")
	rootCmd.Flags().Float64Var(&opts.TextSize, "text-size", 0, "text size from 10 to 40 in steps of 0.5 (saved)")
	rootCmd.Flags().BoolVar(&opts.Watch, "watch", false, "reload the script when its file changes")
	rootCmd.Flags().BoolVar(&opts.NoAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	rootCmd.Flags().BoolVar(&opts.NoMouse, "no-mouse", false, "disable mouse input")

	rootCmd.AddCommand(newResetCmd(&opts))
	return rootCmd
}
