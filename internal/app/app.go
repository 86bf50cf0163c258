package app

import (
	"context"
	"fmt"
	"time"

	"github.com/roadwatch/roadwatch/internal/cleanup"
	"github.com/roadwatch/roadwatch/internal/config"
	"github.com/roadwatch/roadwatch/internal/detector"
	"github.com/roadwatch/roadwatch/internal/logging"
	"github.com/roadwatch/roadwatch/internal/playback"
	"github.com/roadwatch/roadwatch/internal/prefs"
	"github.com/roadwatch/roadwatch/internal/session"
	"github.com/roadwatch/roadwatch/internal/state"
	"github.com/roadwatch/roadwatch/internal/ui"
)

// Options configure the application.
type Options struct {
	ConfigPath string
	ServerURL  string // overrides the configured server URL when set
	PrefsPath  string // empty uses default ~/.config/roadwatch/prefs.toml
	PollEvery  int    // seconds; zero uses default
}

// Run boots the TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ServerURL != "" {
		cfg.ServerURL = opts.ServerURL
	}

	log, closer, err := logging.New(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	client, err := detector.NewClient(cfg.ServerURL, log)
	if err != nil {
		return fmt.Errorf("init detector client: %w", err)
	}

	store := &state.Store{}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Populate the store before the UI draws its first frame, then keep it
	// fresh in the background.
	refresh(ctx, store, client, log)
	StartPoller(ctx, store, client, interval, log)

	coordinator := cleanup.New(client, log)
	defer coordinator.Teardown()

	log.Info().Str("server", cfg.ServerURL).Msg("roadwatch starting")

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Session:   session.New(client, log),
		Cleanup:   coordinator,
		Player:    playback.NewController(log),
		LogPath:   cfg.LogFilePath(),
		PollTick:  interval,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Log:       log,
	}
	return ui.Run(uiOpts)
}
