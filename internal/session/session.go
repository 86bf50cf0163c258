package session

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/rs/zerolog"

	"github.com/roadwatch/roadwatch/internal/analysis"
	"github.com/roadwatch/roadwatch/internal/detector"
)

// States of one upload attempt. Succeeded, Warming, and Failed are terminal
// per attempt; a new attempt restarts from Idle.
const (
	StateIdle       = "idle"
	StateValidating = "validating"
	StateUploading  = "uploading"
	StateFinalizing = "finalizing"
	StateSucceeded  = "succeeded"
	StateWarming    = "warming"
	StateFailed     = "failed"
)

const (
	eventSelect   = "select"
	eventReject   = "reject"
	eventBegin    = "begin_upload"
	eventResolve  = "resolve"
	eventSucceed  = "succeed"
	eventWarm     = "warm"
	eventFail     = "fail"
	eventNewRound = "new_round"
)

// MaxUploadBytes is the largest file the service accepts (100 MiB).
const MaxUploadBytes = 100 << 20

// ErrUploadInFlight is returned when Start is called while a previous attempt
// has not reached a terminal state. The presentation layer disables the
// trigger, but the session guards against re-entrancy itself.
var ErrUploadInFlight = fmt.Errorf("an upload is already in progress")

// ValidationError reports a file rejected before any network call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Observer receives the observable side effects of an attempt: zero or more
// progress events followed by exactly one terminal outcome. Callbacks run on
// the goroutine driving Start.
type Observer struct {
	OnProgress func(detector.UploadProgress)
	OnOutcome  func(analysis.Outcome)
}

// Session drives a single file through validation, transmission, and
// response normalization. One upload may be in flight per Session instance.
type Session struct {
	mu        sync.Mutex
	machine   *fsm.FSM
	transport detector.Uploader
	log       zerolog.Logger

	attemptID string
}

// New builds an idle Session over the given transport.
func New(transport detector.Uploader, log zerolog.Logger) *Session {
	s := &Session{
		transport: transport,
		log:       log,
	}
	s.machine = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventSelect, Src: []string{StateIdle}, Dst: StateValidating},
			{Name: eventReject, Src: []string{StateValidating}, Dst: StateFailed},
			{Name: eventBegin, Src: []string{StateValidating}, Dst: StateUploading},
			{Name: eventResolve, Src: []string{StateUploading}, Dst: StateFinalizing},
			{Name: eventSucceed, Src: []string{StateFinalizing}, Dst: StateSucceeded},
			{Name: eventWarm, Src: []string{StateFinalizing}, Dst: StateWarming},
			{Name: eventFail, Src: []string{StateFinalizing}, Dst: StateFailed},
			{Name: eventNewRound, Src: []string{StateSucceeded, StateWarming, StateFailed}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.log.Debug().
					Str("attempt", s.attemptID).
					Str("from", e.Src).
					Str("to", e.Dst).
					Msg("session transition")
			},
		},
	)
	return s
}

// State returns the current attempt state.
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Current()
}

// Start runs one complete attempt for the file at path, blocking until the
// terminal outcome has been delivered to the observer. It returns
// ErrUploadInFlight when a previous attempt is still running; every other
// resolution, including validation failures, is reported through the
// observer as exactly one outcome.
func (s *Session) Start(ctx context.Context, path string, obs Observer) error {
	if err := s.arm(ctx); err != nil {
		return err
	}
	s.run(ctx, path, obs)
	return nil
}

// arm claims the session for a new attempt, rejecting concurrent starts.
func (s *Session) arm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.machine.Current() {
	case StateValidating, StateUploading, StateFinalizing:
		return ErrUploadInFlight
	case StateSucceeded, StateWarming, StateFailed:
		if err := s.machine.Event(ctx, eventNewRound); err != nil {
			return fmt.Errorf("reset session: %w", err)
		}
	}

	s.attemptID = uuid.New().String()
	if err := s.machine.Event(ctx, eventSelect); err != nil {
		return ErrUploadInFlight
	}
	return nil
}

func (s *Session) run(ctx context.Context, path string, obs Observer) {
	if err := validate(path); err != nil {
		s.step(ctx, eventReject)
		s.log.Info().Str("attempt", s.attemptID).Str("file", path).Err(err).Msg("upload rejected before transmit")
		s.deliver(obs, analysis.Outcome{Kind: analysis.OutcomeFailure, Reason: err.Error()})
		return
	}

	s.step(ctx, eventBegin)
	raw, err := s.transport.Upload(ctx, path, func(p detector.UploadProgress) {
		if obs.OnProgress != nil {
			obs.OnProgress(p)
		}
	})
	s.step(ctx, eventResolve)

	if err != nil {
		s.step(ctx, eventFail)
		s.log.Warn().Str("attempt", s.attemptID).Err(err).Msg("upload transport failed")
		s.deliver(obs, analysis.Outcome{
			Kind:   analysis.OutcomeFailure,
			Reason: "could not reach the analysis service, please try again",
		})
		return
	}

	outcome := analysis.Normalize(raw)
	switch outcome.Kind {
	case analysis.OutcomeSuccess:
		s.step(ctx, eventSucceed)
		s.log.Info().
			Str("attempt", s.attemptID).
			Int("vehicles", outcome.Result.Summary.TotalUniqueVehicles).
			Str("artifact", outcome.Result.VideoID).
			Msg("analysis complete")
	case analysis.OutcomeWarming:
		s.step(ctx, eventWarm)
		s.log.Info().Str("attempt", s.attemptID).Msg("service still warming up")
	default:
		s.step(ctx, eventFail)
		s.log.Warn().Str("attempt", s.attemptID).Str("reason", outcome.Reason).Msg("response failed normalization")
	}
	s.deliver(obs, outcome)
}

func (s *Session) step(ctx context.Context, event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.machine.Event(ctx, event); err != nil {
		// Transitions are driven by the single goroutine that armed the
		// session, so a refusal here is a programming error worth a trace.
		s.log.Error().Str("event", event).Err(err).Msg("unexpected session transition failure")
	}
}

func (s *Session) deliver(obs Observer, outcome analysis.Outcome) {
	if obs.OnOutcome != nil {
		obs.OnOutcome(outcome)
	}
}

// validate applies the client-side checks that never reach the network: the
// declared media type must be video/* and the file must not exceed 100 MiB.
func validate(path string) error {
	if !strings.HasPrefix(mediaType(path), "video/") {
		return &ValidationError{Reason: "please choose a video file"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("cannot read %s", filepath.Base(path))}
	}
	if info.Size() > MaxUploadBytes {
		return &ValidationError{Reason: "file size must be less than 100MB"}
	}
	return nil
}

// videoTypes covers the formats the service advertises; extensions the
// platform MIME database may not know are listed explicitly.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
}

func mediaType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}
