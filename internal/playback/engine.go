// Package playback drives synchronized replay of every loaded session
// along one shared clock.
package playback

import (
	"fmt"
	"time"

	"github.com/banshee-data/trackreplay/internal/config"
	"github.com/banshee-data/trackreplay/internal/geo"
	"github.com/banshee-data/trackreplay/internal/monitoring"
	"github.com/banshee-data/trackreplay/internal/session"
	"github.com/banshee-data/trackreplay/internal/telemetry"
)

var logf = monitoring.Tagged("playback")

// Options controls marker heading and the initial playback rate.
type Options struct {
	HeadingLookahead int
	DefaultSpeed     float64
}

// DefaultOptions returns the standard playback settings.
func DefaultOptions() Options {
	return OptionsFromConfig(config.EmptyReplayConfig())
}

// OptionsFromConfig builds Options from a loaded ReplayConfig.
func OptionsFromConfig(cfg *config.ReplayConfig) Options {
	return Options{
		HeadingLookahead: cfg.GetHeadingLookahead(),
		DefaultSpeed:     cfg.GetDefaultSpeed(),
	}
}

// State is a snapshot of the shared playback clock.
type State struct {
	Playing       bool
	CurrentTime   float64
	TotalDuration float64
	Speed         float64
	LastTick      time.Time
}

// Frame is one session's marker placement for a tick.
type Frame struct {
	SessionID  string
	Position   geo.Point
	Heading    float64 // degrees, valid only when HasHeading
	HasHeading bool

	// CurrentFrame is the nearer bracketing sample, used for readouts.
	CurrentFrame telemetry.TrackPoint
}

// Engine owns the playback clock and advances session cursors. It is not
// safe for concurrent use.
type Engine struct {
	store *session.Store
	opts  Options

	playing     bool
	currentTime float64
	speed       float64
	lastTick    time.Time
}

// NewEngine returns a paused engine at time 0 over store.
func NewEngine(store *session.Store, opts Options) *Engine {
	if opts.HeadingLookahead < 1 {
		opts.HeadingLookahead = 1
	}
	speed := opts.DefaultSpeed
	if speed <= 0 {
		speed = 1
	}
	return &Engine{store: store, opts: opts, speed: speed}
}

// Play starts the clock. The next TickAt only sets the wall-clock baseline.
func (e *Engine) Play() {
	e.playing = true
	e.lastTick = time.Time{}
}

// Pause stops the clock. Positions are left where they are.
func (e *Engine) Pause() {
	e.playing = false
}

// TogglePlay flips between playing and paused and reports the new state.
func (e *Engine) TogglePlay() bool {
	if e.playing {
		e.Pause()
	} else {
		e.Play()
	}
	return e.playing
}

// SetSpeed sets the playback rate multiplier.
func (e *Engine) SetSpeed(speed float64) error {
	if speed <= 0 {
		return fmt.Errorf("playback speed must be positive, got %g", speed)
	}
	e.speed = speed
	logf("speed %gx", speed)
	return nil
}

// Seek moves the clock to t seconds, clamped to [0, total duration], and
// rewinds every cursor so the next tick rescans from the start.
func (e *Engine) Seek(t float64) {
	total := e.store.TotalDuration()
	e.currentTime = min(max(t, 0), total)
	e.store.ResetCursors()
	logf("seek to %.2fs of %.2fs", e.currentTime, total)
}

// Reset returns the clock to time 0 and rewinds every cursor.
func (e *Engine) Reset() {
	e.currentTime = 0
	e.store.ResetCursors()
}

// State returns a snapshot of the clock.
func (e *Engine) State() State {
	return State{
		Playing:       e.playing,
		CurrentTime:   e.currentTime,
		TotalDuration: e.store.TotalDuration(),
		Speed:         e.speed,
		LastTick:      e.lastTick,
	}
}

// TickAt advances by the wall-clock time since the previous TickAt.
func (e *Engine) TickAt(now time.Time) []Frame {
	var dt float64
	if !e.lastTick.IsZero() {
		dt = now.Sub(e.lastTick).Seconds()
	}
	e.lastTick = now
	return e.Tick(dt)
}

// Tick advances the clock by dt seconds of wall time when playing, wraps
// to 0 past the longest session, and returns a frame for every visible,
// non-empty session. Frames are produced while paused too, so seeks show
// up immediately.
func (e *Engine) Tick(dt float64) []Frame {
	if e.store.Len() == 0 {
		e.currentTime = 0
		return nil
	}

	if e.playing && dt > 0 {
		e.currentTime += dt * e.speed
		if total := e.store.TotalDuration(); e.currentTime >= total {
			e.currentTime = 0
			e.store.ResetCursors()
		}
	}

	var frames []Frame
	for _, s := range e.store.List() {
		if !s.Visible || s.Empty() {
			continue
		}
		frames = append(frames, e.Interpolate(s, e.currentTime))
	}
	return frames
}

// Interpolate places s at playback time t, clamped to the session's own
// duration. It advances s.Cursor and s.CurrentFrame. s must not be empty.
func (e *Engine) Interpolate(s *session.Session, t float64) Frame {
	data := s.Data
	n := len(data)
	target := min(t, s.Duration)

	snap := func(i int) Frame {
		s.Cursor = i
		s.CurrentFrame = data[i]
		return Frame{SessionID: s.ID, Position: data[i].Position(), CurrentFrame: data[i]}
	}
	if target <= 0 {
		return snap(0)
	}

	cursor := min(max(s.Cursor, 0), n-1)
	if data[cursor].RelTime > target {
		cursor = 0
	}
	next := -1
	for i := cursor; i < n; i++ {
		if data[i].RelTime > target {
			next = i
			break
		}
	}
	switch {
	case next == 0:
		return snap(0)
	case next < 0:
		// Finished: park on the last sample until the clock wraps.
		return snap(n - 1)
	}

	prev, nxt := data[next-1], data[next]
	span := nxt.RelTime - prev.RelTime
	if span == 0 {
		span = 1
	}
	frac := min(max((target-prev.RelTime)/span, 0), 1)

	f := Frame{
		SessionID: s.ID,
		Position:  geo.Lerp(prev.Position(), nxt.Position(), frac),
	}
	if ahead := min(next+e.opts.HeadingLookahead, n-1); ahead > next {
		f.Heading = geo.BearingDegrees(prev.Position(), data[ahead].Position())
		f.HasHeading = true
	}

	s.Cursor = next - 1
	if frac > 0.5 {
		s.CurrentFrame = nxt
	} else {
		s.CurrentFrame = prev
	}
	f.CurrentFrame = s.CurrentFrame
	return f
}
