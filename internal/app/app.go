package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/margin/internal/config"
	"github.com/five82/margin/internal/logging"
	"github.com/five82/margin/internal/prefs"
	"github.com/five82/margin/internal/state"
	"github.com/five82/margin/internal/tracker"
	"github.com/five82/margin/internal/ui"
)

// Options configure the margin application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/margin/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the margin TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.LogFile, cfg.Level())
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	// Preferences fall back to defaults on any read error.
	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := tracker.NewClient(cfg.APIURL,
		tracker.WithTimeout(cfg.Timeout),
		tracker.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("init tracker client: %w", err)
	}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	store := &state.Store{}
	poller := NewPoller(client, store, logger, interval)

	logger.Info("margin starting",
		slog.String("api_url", cfg.APIURL),
		slog.Duration("poll_interval", interval),
	)

	// Populate the header before the first frame; failures are recorded in
	// the store and shown as the offline banner.
	poller.Refresh(ctx)
	poller.Start(ctx)

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Refresh:   poller.Wake,
		Logger:    logger,
		LogFile:   cfg.LogFile,
		Theme:     userPrefs.Theme,
		StartView: userPrefs.StartView,
		PrefsPath: opts.PrefsPath,
	})
}
