package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/roadwatch/roadwatch/internal/detector"
)

// ServiceState summarizes what the detector service can do right now.
type ServiceState int

const (
	// StateUnavailable means the service is unreachable or unhealthy.
	StateUnavailable ServiceState = iota
	// StateWarming means the service answers but its models are loading.
	StateWarming
	// StateReady means uploads will be fully processed.
	StateReady
)

func (s ServiceState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateWarming:
		return "warming"
	default:
		return "unavailable"
	}
}

// Snapshot represents the latest service data available to the UI.
type Snapshot struct {
	Service             ServiceState
	Health              detector.HealthStatus
	HasHealth           bool
	Samples             []detector.SampleVideo
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility. A nil samples slice keeps the
// previously fetched catalog; callers pass nil when the catalog could not be
// refreshed, and an empty non-nil slice to clear it.
func (s *Store) Update(health *detector.HealthStatus, samples []detector.SampleVideo, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		if s.snapshot.IsOffline() {
			s.snapshot.Service = StateUnavailable
		}
		return
	}

	if samples != nil {
		s.snapshot.Samples = cloneSamples(samples)
	}
	if health != nil {
		s.snapshot.Health = *health
		s.snapshot.HasHealth = true
		s.snapshot.Service = deriveService(*health)
	} else {
		s.snapshot.HasHealth = false
		s.snapshot.Service = StateUnavailable
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Samples = cloneSamples(s.snapshot.Samples)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// deriveService maps a health reply onto the three-way service state. Any
// loading error counts as unavailable even when the endpoint answered.
func deriveService(h detector.HealthStatus) ServiceState {
	switch {
	case h.LoadingError != "":
		return StateUnavailable
	case h.ModelsLoaded:
		return StateReady
	default:
		return StateWarming
	}
}

func cloneSamples(items []detector.SampleVideo) []detector.SampleVideo {
	if len(items) == 0 {
		return nil
	}
	dup := make([]detector.SampleVideo, len(items))
	copy(dup, items)
	return dup
}
