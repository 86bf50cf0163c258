package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/roadwatch/roadwatch/internal/detector"
	"github.com/roadwatch/roadwatch/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestRefresh_PopulatesStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"healthy","models_loaded":true}`))
		case "/sample_videos":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"traffic","name":"Traffic"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client, err := detector.NewClient(server.URL, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	store := &state.Store{}
	refresh(context.Background(), store, client, zerolog.Nop())

	snap := store.Snapshot()
	if snap.Service != state.StateReady {
		t.Fatalf("service = %v, want ready", snap.Service)
	}
	if len(snap.Samples) != 1 || snap.Samples[0].ID != "traffic" {
		t.Fatalf("samples = %#v, want one traffic sample", snap.Samples)
	}
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", snap.ConsecutiveFailures)
	}
}

func TestRefresh_CatalogFailureKeepsSamples(t *testing.T) {
	var catalogCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"healthy","models_loaded":true}`))
		case "/sample_videos":
			catalogCalls++
			if catalogCalls > 1 {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"traffic","name":"Traffic"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client, err := detector.NewClient(server.URL, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	store := &state.Store{}
	refresh(context.Background(), store, client, zerolog.Nop())
	refresh(context.Background(), store, client, zerolog.Nop())

	snap := store.Snapshot()
	if len(snap.Samples) != 1 || snap.Samples[0].ID != "traffic" {
		t.Fatalf("samples = %#v after catalog failure, want previous catalog kept", snap.Samples)
	}
	if snap.Service != state.StateReady {
		t.Fatalf("service = %v, want ready while health still answers", snap.Service)
	}
}

func TestRefresh_UnreachableServerRecordsFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := detector.NewClient(server.URL, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	store := &state.Store{}
	refresh(context.Background(), store, client, zerolog.Nop())
	refresh(context.Background(), store, client, zerolog.Nop())

	snap := store.Snapshot()
	if snap.ConsecutiveFailures != 2 {
		t.Fatalf("ConsecutiveFailures = %d, want 2", snap.ConsecutiveFailures)
	}
	if !snap.IsOffline() {
		t.Fatalf("IsOffline() = false after two failed polls")
	}
}
