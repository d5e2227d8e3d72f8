package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/diptych/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "diptych: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	var (
		opts        app.Options
		pollSeconds int
	)

	cmd := &cobra.Command{
		Use:   "diptych [flags]",
		Short: "Browse two media collections side by side by date",
		Long: `diptych shows two media collections in a pair of scrolling grids.

Each pane keeps a month index, a density timeline and a visible-date banner
so both sides can be walked through time independently.

Examples:
  diptych                              # use ~/.config/diptych/config.toml
  diptych --config ./diptych.toml      # use a specific config file
  diptych --poll 10 --log-level debug  # slower refresh, verbose log file`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !hasTTY() {
				return errors.New("an interactive terminal is required")
			}
			if pollSeconds > 0 {
				opts.PollEvery = pollSeconds
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file path (optional)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences file path (optional)")
	flags.IntVar(&pollSeconds, "poll", 0, "list refresh interval in seconds (optional, defaults to 5s)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "override log level (trace, debug, info, warn, error, off)")

	return cmd
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
