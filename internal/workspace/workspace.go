// Package workspace wires ingestion, alignment, validation, playback and
// drawing into one in-memory replay session.
//
// A Workspace serializes every mutation behind one mutex, so file loads
// running on their own goroutines and the frame loop never observe a
// half-updated session set.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/trackreplay/internal/config"
	"github.com/banshee-data/trackreplay/internal/fsutil"
	"github.com/banshee-data/trackreplay/internal/ingest"
	"github.com/banshee-data/trackreplay/internal/monitoring"
	"github.com/banshee-data/trackreplay/internal/playback"
	"github.com/banshee-data/trackreplay/internal/render"
	"github.com/banshee-data/trackreplay/internal/session"
	"github.com/banshee-data/trackreplay/internal/telemetry"
	"github.com/banshee-data/trackreplay/internal/timeutil"
	"github.com/banshee-data/trackreplay/internal/track"
)

var logf = monitoring.Tagged("workspace")

// MaxPathPoints caps the vertices handed to the renderer per session.
const MaxPathPoints = 4000

// Workspace is the replay state for one run.
type Workspace struct {
	mu sync.Mutex

	fs         fsutil.FileSystem
	cfg        *config.ReplayConfig
	ingestOpts ingest.Options
	trackOpts  track.Options

	store    *session.Store
	engine   *playback.Engine
	ref      *track.ReferenceTrack
	renderer render.Renderer
	corridor render.Handle
	handles  map[string]render.Handle
}

// New returns an empty workspace. A nil cfg uses defaults; a nil renderer
// discards all drawing.
func New(fsys fsutil.FileSystem, cfg *config.ReplayConfig, r render.Renderer) *Workspace {
	if cfg == nil {
		cfg = config.EmptyReplayConfig()
	}
	if r == nil {
		r = &render.LogRenderer{}
	}
	store := session.NewStore(cfg.GetPalette())
	return &Workspace{
		fs:         fsys,
		cfg:        cfg,
		ingestOpts: ingest.OptionsFromConfig(cfg),
		trackOpts:  track.OptionsFromConfig(cfg),
		store:      store,
		engine:     playback.NewEngine(store, playback.OptionsFromConfig(cfg)),
		renderer:   r,
		handles:    make(map[string]render.Handle),
	}
}

type loadResult struct {
	raw *telemetry.RawSession
	err error
}

// LoadTelemetry parses every path on its own goroutine and adds each
// session as its parse completes, so ordering and colour follow
// completion order. Files that fail do not affect the rest; their
// *ingest.ParseError values are joined into the returned error. If ctx is
// cancelled the sessions added so far are returned with ctx.Err().
func (w *Workspace) LoadTelemetry(ctx context.Context, paths ...string) ([]session.Session, error) {
	results := make(chan loadResult, len(paths))
	for _, p := range paths {
		go func(path string) {
			raw, err := ingest.LoadFile(w.fs, path, w.ingestOpts)
			results <- loadResult{raw: raw, err: err}
		}(p)
	}

	var (
		added []session.Session
		errs  []error
	)
	for range paths {
		select {
		case <-ctx.Done():
			return added, ctx.Err()
		case res := <-results:
			if res.err != nil {
				logf("%v", res.err)
				errs = append(errs, res.err)
				continue
			}
			added = append(added, w.addSession(res.raw))
		}
	}
	return added, errors.Join(errs...)
}

// AddSession adds an already ingested session.
func (w *Workspace) AddSession(raw *telemetry.RawSession) session.Session {
	return w.addSession(raw)
}

func (w *Workspace) addSession(raw *telemetry.RawSession) session.Session {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.store.Add(raw, telemetry.Smooth(raw.Points, w.trackOpts.SmoothingWindow))
	if w.ref != nil {
		w.alignLocked(s)
	}
	w.drawLocked(s)
	logf("added %s (%s): %d points, %.1fs", s.Name, s.Color, len(s.Data), s.Duration)
	return *s
}

// alignLocked re-derives s.Data from its raw points against the active
// reference track and rescores it. On alignment failure the session falls
// back to its full smoothed log.
func (w *Workspace) alignLocked(s *session.Session) {
	a, err := track.Align(s.Raw, w.ref, w.trackOpts)
	if err != nil {
		logf("%v", &track.AlignError{SessionID: s.ID, Err: err})
		if err := w.store.ReplaceData(s.ID, telemetry.Smooth(s.Raw.Points, w.trackOpts.SmoothingWindow), false); err != nil {
			logf("revert %s: %v", s.Name, err)
		}
	} else {
		if err := w.store.ReplaceData(s.ID, a.Data, true); err != nil {
			logf("crop %s: %v", s.Name, err)
			return
		}
		w.engine.Reset()
		logf("%s cropped to samples %d-%d, %.1fs", s.Name, a.Start, a.End, a.Duration())
	}

	v := track.Validate(s.Data, w.ref, w.trackOpts)
	if err := w.store.SetValidity(s.ID, v.Valid, v.OffTrackCount); err != nil {
		logf("validate %s: %v", s.Name, err)
	}
}

func (w *Workspace) drawLocked(s *session.Session) {
	if h, ok := w.handles[s.ID]; ok {
		h.Remove()
	}
	p := render.Path{
		SessionID: s.ID,
		Name:      s.Name,
		Color:     s.Color,
		Points:    telemetry.Decimate(s.Data, MaxPathPoints),
	}
	if !s.Empty() {
		p.Start = s.Data[0].Position()
	}
	w.handles[s.ID] = w.renderer.DrawPath(p)
}

// LoadReferenceTrack reads a reference track and makes it active.
func (w *Workspace) LoadReferenceTrack(path string) (*track.ReferenceTrack, error) {
	ref, err := track.LoadReferenceTrack(w.fs, path)
	if err != nil {
		return nil, err
	}
	w.SetReferenceTrack(ref)
	return ref, nil
}

// SetReferenceTrack replaces the active reference track, redraws the
// corridor and re-aligns and re-validates every session from its raw log.
// Playback restarts from 0.
func (w *Workspace) SetReferenceTrack(ref *track.ReferenceTrack) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ref = ref
	if w.corridor != nil {
		w.corridor.Remove()
	}
	w.corridor = w.renderer.DrawCorridor(render.Corridor{
		Name:   ref.Meta.Name,
		Path:   ref.Path,
		Radius: ref.RadiusOr(w.trackOpts.DefaultRadiusMeters),
		Start:  ref.Start(),
		End:    ref.End(),
	})

	for _, s := range w.store.List() {
		w.alignLocked(s)
		w.drawLocked(s)
	}
	w.engine.Reset()
	logf("reference track %q active, %d sessions re-aligned", ref.Meta.Name, w.store.Len())
}

// ReferenceTrack returns the active reference track, or nil.
func (w *Workspace) ReferenceTrack() *track.ReferenceTrack {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ref
}

// RemoveSession drops a session and its drawing. Removing the last
// session resets the clock.
func (w *Workspace) RemoveSession(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.store.Remove(id); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	if h, ok := w.handles[id]; ok {
		h.Remove()
		delete(w.handles, id)
	}
	if w.store.Len() == 0 {
		w.engine.Reset()
	}
	return nil
}

// SetVisible shows or hides a session's marker during playback.
func (w *Workspace) SetVisible(id string, visible bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.SetVisible(id, visible)
}

// Sessions returns a snapshot of every session in arrival order.
func (w *Workspace) Sessions() []session.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	list := w.store.List()
	out := make([]session.Session, len(list))
	for i, s := range list {
		out[i] = *s
	}
	return out
}

// Session returns a snapshot of one session.
func (w *Workspace) Session(id string) (session.Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.store.Get(id)
	if err != nil {
		return session.Session{}, err
	}
	return *s, nil
}

// Play starts playback.
func (w *Workspace) Play() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.engine.Play()
}

// Pause stops playback.
func (w *Workspace) Pause() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.engine.Pause()
}

// TogglePlay flips playback and reports whether it is now playing.
func (w *Workspace) TogglePlay() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.engine.TogglePlay()
}

// SetSpeed sets the playback rate multiplier.
func (w *Workspace) SetSpeed(speed float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.engine.SetSpeed(speed)
}

// Seek jumps to t seconds.
func (w *Workspace) Seek(t float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.engine.Seek(t)
}

// State returns the playback clock.
func (w *Workspace) State() playback.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.engine.State()
}

// Step advances playback by dt seconds and moves every marker.
func (w *Workspace) Step(dt float64) []playback.Frame {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moveLocked(w.engine.Tick(dt))
}

// StepAt advances playback to wall-clock time now and moves every marker.
func (w *Workspace) StepAt(now time.Time) []playback.Frame {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moveLocked(w.engine.TickAt(now))
}

func (w *Workspace) moveLocked(frames []playback.Frame) []playback.Frame {
	for _, f := range frames {
		if h, ok := w.handles[f.SessionID]; ok {
			h.Move(render.Marker{Position: f.Position, Heading: f.Heading, HasHeading: f.HasHeading})
		}
	}
	return frames
}

// Run drives playback from clock at the configured frame interval until
// ctx is done.
func (w *Workspace) Run(ctx context.Context, clock timeutil.Clock) error {
	return playback.Run(ctx, clock, w.cfg.GetFrameInterval(), func(now time.Time) {
		w.StepAt(now)
	})
}
