package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/roadwatch/roadwatch/internal/analysis"
	"github.com/roadwatch/roadwatch/internal/detector"
)

// fakeTransport scripts the transport layer for session tests.
type fakeTransport struct {
	mu       sync.Mutex
	calls    int
	chunks   []detector.UploadProgress
	response *detector.RawResponse
	err      error
	block    chan struct{} // when set, Upload waits until closed
}

func (f *fakeTransport) Upload(ctx context.Context, path string, onProgress func(detector.UploadProgress)) (*detector.RawResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	for _, p := range f.chunks {
		if onProgress != nil {
			onProgress(p)
		}
	}
	return f.response, f.err
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func videoFixture(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestSession_NonVideoFailsWithoutNetworkCall(t *testing.T) {
	transport := &fakeTransport{}
	s := New(transport, zerolog.Nop())

	var outcome analysis.Outcome
	err := s.Start(context.Background(), videoFixture(t, "notes.txt", 10), Observer{
		OnOutcome: func(o analysis.Outcome) { outcome = o },
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if outcome.Kind != analysis.OutcomeFailure {
		t.Fatalf("kind = %v, want failure", outcome.Kind)
	}
	if transport.callCount() != 0 {
		t.Fatalf("transport called %d times for invalid file, want 0", transport.callCount())
	}
	if s.State() != StateFailed {
		t.Fatalf("state = %q, want failed", s.State())
	}
}

func TestSession_OversizedFileFailsWithoutNetworkCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.mp4")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	// Sparse file just over the limit; no need to write 100MiB.
	if err := file.Truncate(MaxUploadBytes + 1); err != nil {
		t.Fatalf("truncate fixture: %v", err)
	}
	_ = file.Close()

	transport := &fakeTransport{}
	s := New(transport, zerolog.Nop())

	var outcome analysis.Outcome
	if err := s.Start(context.Background(), path, Observer{
		OnOutcome: func(o analysis.Outcome) { outcome = o },
	}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if outcome.Kind != analysis.OutcomeFailure {
		t.Fatalf("kind = %v, want failure", outcome.Kind)
	}
	if transport.callCount() != 0 {
		t.Fatalf("transport called %d times for oversized file, want 0", transport.callCount())
	}
}

func TestSession_SuccessDeliversProgressThenOutcome(t *testing.T) {
	transport := &fakeTransport{
		chunks: []detector.UploadProgress{
			{BytesLoaded: 10, BytesTotal: 50, Percentage: 20},
			{BytesLoaded: 30, BytesTotal: 50, Percentage: 60},
			{BytesLoaded: 50, BytesTotal: 50, Percentage: 100},
		},
		response: &detector.RawResponse{
			StatusCode: 200,
			Body:       []byte(`{"summary":{"total_unique_vehicles":2,"safe_vehicles":2},"video_id":"vid-9"}`),
		},
	}
	s := New(transport, zerolog.Nop())

	var events []string
	var outcome analysis.Outcome
	err := s.Start(context.Background(), videoFixture(t, "clip.mp4", 50), Observer{
		OnProgress: func(p detector.UploadProgress) {
			events = append(events, "progress")
		},
		OnOutcome: func(o analysis.Outcome) {
			events = append(events, "outcome")
			outcome = o
		},
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if outcome.Kind != analysis.OutcomeSuccess {
		t.Fatalf("kind = %v, want success (reason=%q)", outcome.Kind, outcome.Reason)
	}
	if outcome.Result.VideoID != "vid-9" {
		t.Fatalf("video id = %q, want vid-9", outcome.Result.VideoID)
	}
	if s.State() != StateSucceeded {
		t.Fatalf("state = %q, want succeeded", s.State())
	}

	// The terminal outcome always follows every progress event.
	if len(events) != 4 || events[3] != "outcome" {
		t.Fatalf("events = %v, want three progress then outcome", events)
	}
}

func TestSession_WarmingIsDistinctFromFailure(t *testing.T) {
	transport := &fakeTransport{
		response: &detector.RawResponse{
			StatusCode: 503,
			Body:       []byte(`{"error":"ML models are still loading. Please try again in a moment."}`),
		},
	}
	s := New(transport, zerolog.Nop())

	var outcome analysis.Outcome
	if err := s.Start(context.Background(), videoFixture(t, "clip.mp4", 10), Observer{
		OnOutcome: func(o analysis.Outcome) { outcome = o },
	}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if outcome.Kind != analysis.OutcomeWarming {
		t.Fatalf("kind = %v, want warming", outcome.Kind)
	}
	if s.State() != StateWarming {
		t.Fatalf("state = %q, want warming", s.State())
	}
}

func TestSession_TransportErrorFails(t *testing.T) {
	transport := &fakeTransport{err: context.DeadlineExceeded}
	s := New(transport, zerolog.Nop())

	var outcome analysis.Outcome
	if err := s.Start(context.Background(), videoFixture(t, "clip.mp4", 10), Observer{
		OnOutcome: func(o analysis.Outcome) { outcome = o },
	}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if outcome.Kind != analysis.OutcomeFailure {
		t.Fatalf("kind = %v, want failure", outcome.Kind)
	}
	if s.State() != StateFailed {
		t.Fatalf("state = %q, want failed", s.State())
	}
}

func TestSession_RejectsConcurrentStart(t *testing.T) {
	block := make(chan struct{})
	transport := &fakeTransport{
		block:    block,
		response: &detector.RawResponse{StatusCode: 200, Body: []byte(`{"summary":{}}`)},
	}
	s := New(transport, zerolog.Nop())
	path := videoFixture(t, "clip.mp4", 10)

	done := make(chan error, 1)
	go func() {
		done <- s.Start(context.Background(), path, Observer{})
	}()

	// Wait for the first attempt to reach the transport.
	deadline := time.After(2 * time.Second)
	for transport.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("first upload never reached transport")
		case <-time.After(time.Millisecond):
		}
	}

	if err := s.Start(context.Background(), path, Observer{}); err != ErrUploadInFlight {
		t.Fatalf("concurrent Start error = %v, want ErrUploadInFlight", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first Start returned error: %v", err)
	}

	// A fresh attempt after the terminal state is allowed again.
	if err := s.Start(context.Background(), path, Observer{}); err != nil {
		t.Fatalf("Start after terminal state returned error: %v", err)
	}
	if transport.callCount() != 2 {
		t.Fatalf("transport calls = %d, want 2", transport.callCount())
	}
}

func TestMediaType_KnownExtensions(t *testing.T) {
	tests := []struct {
		path  string
		video bool
	}{
		{"a.mp4", true},
		{"a.MOV", true},
		{"a.webm", true},
		{"a.wmv", true},
		{"a.flv", true},
		{"a.txt", false},
		{"a.jpg", false},
		{"noext", false},
	}
	for _, tt := range tests {
		got := strings.HasPrefix(mediaType(tt.path), "video/")
		if got != tt.video {
			t.Errorf("mediaType(%q) video = %v, want %v", tt.path, got, tt.video)
		}
	}
}
