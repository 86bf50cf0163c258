package playback

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Media is the minimal surface the controller drives. The mpv handle
// implements it for real playback; tests substitute a fake.
type Media interface {
	Play() error
	Pause() error
	SetMute(muted bool) error
	// Seek moves the playhead to an absolute offset from the start.
	Seek(offset time.Duration) error
	SetFullscreen(enabled bool) error
	Position() (time.Duration, error)
	Duration() (time.Duration, error)
	Close() error
}

// Controller wraps a Media handle and keeps the play/mute flags the
// presentation layer renders. Every command is a silent no-op until Attach
// has provided a handle; the controls render before media is loaded, and
// pressing them must never crash or queue stale commands.
type Controller struct {
	media Media
	log   zerolog.Logger

	playing bool
	muted   bool
}

// NewController returns a controller with no media attached.
func NewController(log zerolog.Logger) *Controller {
	return &Controller{log: log}
}

// Attach replaces the current media handle, closing any previous one. The
// new handle starts paused and unmuted.
func (c *Controller) Attach(m Media) {
	if c.media != nil {
		if err := c.media.Close(); err != nil {
			c.log.Warn().Err(err).Msg("closing previous media handle")
		}
	}
	c.media = m
	c.playing = false
	c.muted = false
}

// Detach closes and drops the current handle, returning the controller to
// its inert state.
func (c *Controller) Detach() {
	if c.media == nil {
		return
	}
	if err := c.media.Close(); err != nil {
		c.log.Warn().Err(err).Msg("closing media handle")
	}
	c.media = nil
	c.playing = false
	c.muted = false
}

// Attached reports whether a media handle is present.
func (c *Controller) Attached() bool { return c.media != nil }

// Playing reports the last commanded play state.
func (c *Controller) Playing() bool { return c.playing }

// Muted reports the last commanded mute state.
func (c *Controller) Muted() bool { return c.muted }

// TogglePlay flips between playing and paused.
func (c *Controller) TogglePlay() {
	if c.media == nil {
		return
	}
	var err error
	if c.playing {
		err = c.media.Pause()
	} else {
		err = c.media.Play()
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("toggle play")
		return
	}
	c.playing = !c.playing
}

// ToggleMute flips the mute flag.
func (c *Controller) ToggleMute() {
	if c.media == nil {
		return
	}
	if err := c.media.SetMute(!c.muted); err != nil {
		c.log.Warn().Err(err).Msg("toggle mute")
		return
	}
	c.muted = !c.muted
}

// SeekRatio moves the playhead to ratio (0..1) of the media duration.
// Out-of-range ratios are clamped.
func (c *Controller) SeekRatio(ratio float64) {
	if c.media == nil {
		return
	}
	total, err := c.media.Duration()
	if err != nil || total <= 0 {
		return
	}
	ratio = math.Min(math.Max(ratio, 0), 1)
	if err := c.media.Seek(time.Duration(ratio * float64(total))); err != nil {
		c.log.Warn().Err(err).Msg("seek")
	}
}

// SeekBy moves the playhead by a relative offset, clamped to the media.
func (c *Controller) SeekBy(delta time.Duration) {
	if c.media == nil {
		return
	}
	pos, err := c.media.Position()
	if err != nil {
		return
	}
	total, err := c.media.Duration()
	if err != nil {
		return
	}
	target := pos + delta
	if target < 0 {
		target = 0
	}
	if total > 0 && target > total {
		target = total
	}
	if err := c.media.Seek(target); err != nil {
		c.log.Warn().Err(err).Msg("seek")
	}
}

// Restart rewinds to the start and begins playing.
func (c *Controller) Restart() {
	if c.media == nil {
		return
	}
	if err := c.media.Seek(0); err != nil {
		c.log.Warn().Err(err).Msg("restart seek")
		return
	}
	if err := c.media.Play(); err != nil {
		c.log.Warn().Err(err).Msg("restart play")
		return
	}
	c.playing = true
}

// RequestFullscreen asks the media handle for fullscreen. Refusals are
// logged and otherwise ignored; playback continues windowed.
func (c *Controller) RequestFullscreen() {
	if c.media == nil {
		return
	}
	if err := c.media.SetFullscreen(true); err != nil {
		c.log.Debug().Err(err).Msg("fullscreen refused")
	}
}

// Ratio returns the playhead position as a fraction of the duration. A
// zero or unknown duration yields 0, never NaN.
func (c *Controller) Ratio() float64 {
	if c.media == nil {
		return 0
	}
	total, err := c.media.Duration()
	if err != nil || total <= 0 {
		return 0
	}
	pos, err := c.media.Position()
	if err != nil {
		return 0
	}
	return float64(pos) / float64(total)
}

// Clock returns the current position and duration for display, zero when
// unknown.
func (c *Controller) Clock() (pos, total time.Duration) {
	if c.media == nil {
		return 0, 0
	}
	if p, err := c.media.Position(); err == nil {
		pos = p
	}
	if d, err := c.media.Duration(); err == nil {
		total = d
	}
	return pos, total
}

// FormatTime renders a duration as m:ss with whole seconds floored, the
// shape seek bars and clocks expect. Negative durations render as 0:00.
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
