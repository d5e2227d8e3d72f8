package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/diptych/internal/catalog"
	"github.com/five82/diptych/internal/config"
	"github.com/five82/diptych/internal/logging"
	"github.com/five82/diptych/internal/prefs"
	"github.com/five82/diptych/internal/state"
	"github.com/five82/diptych/internal/ui"
)

// Options configure the diptych application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/diptych/prefs.toml
	PollEvery  int    // seconds; zero uses default
	LogLevel   string // overrides the configured level when set
}

// Run boots the diptych TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.LogLevel != "" {
		if !logging.ValidLevel(opts.LogLevel) {
			return fmt.Errorf("invalid log level %q", opts.LogLevel)
		}
		cfg.LogLevel = opts.LogLevel
	}
	formatter, err := cfg.Formatter()
	if err != nil {
		return fmt.Errorf("date formatting: %w", err)
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console", Output: logFile})
	log := logging.Component("app")

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := catalog.NewClient(cfg.APIBind, cfg.EpochUnit)
	if err != nil {
		return fmt.Errorf("init media client: %w", err)
	}

	store := &state.Store{}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	poller := NewPoller(store, client, interval,
		catalog.ListQuery{Collection: cfg.Left.Collection, Filter: cfg.Left.Filter},
		catalog.ListQuery{Collection: cfg.Right.Collection, Filter: cfg.Right.Filter})

	// Do initial refresh to populate store before UI starts
	_ = poller.Refresh(ctx)

	// Start background poller
	poller.Start(ctx)

	var changes <-chan prefs.Prefs
	watcher, err := prefs.Watch(ctx, opts.PrefsPath)
	if err != nil {
		log.Warn().Err(err).Msg("prefs watcher disabled")
	} else {
		defer func() { _ = watcher.Close() }()
		changes = watcher.Changes()
	}

	log.Info().
		Str("api", cfg.APIBind).
		Dur("poll", interval).
		Str("left", cfg.Left.Collection).
		Str("right", cfg.Right.Collection).
		Msg("starting")

	uiOpts := ui.Options{
		Context:     ctx,
		Client:      client,
		Store:       store,
		Collections: poller,
		Config:      &cfg,
		Formatter:   formatter,
		PollTick:    time.Second,
		Prefs:       userPrefs,
		PrefsPath:   opts.PrefsPath,
		PrefChanges: changes,
	}
	return ui.Run(uiOpts)
}
