package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roadwatch/roadwatch/internal/detector"
	"github.com/roadwatch/roadwatch/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence, backing off exponentially while the service is
// unreachable. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client *detector.Client, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			refresh(ctx, store, client, log)

			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}
	}()
}

// calculateBackoff doubles the base interval per consecutive failure,
// capped at maxBackoff. Zero failures poll at the base interval.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

func refresh(ctx context.Context, store *state.Store, client *detector.Client, log zerolog.Logger) {
	health, err := client.Health(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		log.Debug().Err(err).Msg("health poll failed")
		return
	}
	samples, err := client.ListSamples(ctx)
	if err != nil {
		// Health answered; record it and keep the previously fetched
		// catalog so the sample list does not flap on a transient failure.
		store.Update(health, nil, nil)
		log.Debug().Err(err).Msg("sample catalog poll failed")
		return
	}
	store.Update(health, samples, nil)
}
