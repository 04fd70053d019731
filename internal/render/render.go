// Package render defines the drawing collaborator playback talks to, plus
// a logging implementation for headless runs and a recorder for tests.
package render

import (
	"sync"

	"github.com/banshee-data/trackreplay/internal/geo"
	"github.com/banshee-data/trackreplay/internal/monitoring"
)

var logf = monitoring.Tagged("render")

// Corridor is a reference track ready to draw.
type Corridor struct {
	Name   string
	Path   []geo.Point
	Radius float64 // metres either side of the centreline
	Start  geo.Point
	End    geo.Point
}

// Path is one session's drawn trace and the marker that follows it.
type Path struct {
	SessionID string
	Name      string
	Color     string
	Points    []geo.Point
	Start     geo.Point // initial marker position
}

// Marker places a session's marker for one frame.
type Marker struct {
	Position   geo.Point
	Heading    float64
	HasHeading bool
}

// Handle is a drawn object that can be updated or taken down.
type Handle interface {
	Move(m Marker)
	Remove()
}

// Renderer draws corridors and session paths.
type Renderer interface {
	DrawCorridor(c Corridor) Handle
	DrawPath(p Path) Handle
}

// LogRenderer writes draw calls to the diagnostic log. Marker moves are
// logged every MoveEvery calls per handle; zero disables move logging.
type LogRenderer struct {
	MoveEvery int
}

// DrawCorridor logs the corridor.
func (r *LogRenderer) DrawCorridor(c Corridor) Handle {
	logf("corridor %q: %d points, radius %.1fm", c.Name, len(c.Path), c.Radius)
	return &logHandle{label: "corridor " + c.Name, every: r.MoveEvery}
}

// DrawPath logs the session path.
func (r *LogRenderer) DrawPath(p Path) Handle {
	logf("path %s (%s, %s): %d points", p.Name, p.SessionID, p.Color, len(p.Points))
	return &logHandle{label: p.Name, every: r.MoveEvery}
}

type logHandle struct {
	label string
	every int
	moves int
}

func (h *logHandle) Move(m Marker) {
	h.moves++
	if h.every <= 0 || h.moves%h.every != 0 {
		return
	}
	if m.HasHeading {
		logf("%s at %.6f,%.6f heading %.0f", h.label, m.Position.Lat, m.Position.Lon, m.Heading)
	} else {
		logf("%s at %.6f,%.6f", h.label, m.Position.Lat, m.Position.Lon)
	}
}

func (h *logHandle) Remove() {
	logf("removed %s", h.label)
}

// RecordingRenderer keeps every draw call in memory. Safe for concurrent use.
type RecordingRenderer struct {
	mu        sync.Mutex
	corridors []Corridor
	paths     []Path
	moves     map[string][]Marker
	removed   []string
}

// NewRecordingRenderer returns an empty recorder.
func NewRecordingRenderer() *RecordingRenderer {
	return &RecordingRenderer{moves: make(map[string][]Marker)}
}

// DrawCorridor records c. Its handle is keyed "corridor".
func (r *RecordingRenderer) DrawCorridor(c Corridor) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.corridors = append(r.corridors, c)
	return &recordedHandle{r: r, key: "corridor"}
}

// DrawPath records p. Its handle is keyed by session id.
func (r *RecordingRenderer) DrawPath(p Path) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, p)
	return &recordedHandle{r: r, key: p.SessionID}
}

// Corridors returns the corridors drawn so far.
func (r *RecordingRenderer) Corridors() []Corridor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Corridor(nil), r.corridors...)
}

// Paths returns the paths drawn so far.
func (r *RecordingRenderer) Paths() []Path {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Path(nil), r.paths...)
}

// Moves returns the marker updates for key.
func (r *RecordingRenderer) Moves(key string) []Marker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Marker(nil), r.moves[key]...)
}

// Removed returns the keys of removed handles in order.
func (r *RecordingRenderer) Removed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.removed...)
}

type recordedHandle struct {
	r   *RecordingRenderer
	key string
}

func (h *recordedHandle) Move(m Marker) {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	h.r.moves[h.key] = append(h.r.moves[h.key], m)
}

func (h *recordedHandle) Remove() {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	h.r.removed = append(h.r.removed, h.key)
}
