package track

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/banshee-data/trackreplay/internal/fsutil"
	"github.com/banshee-data/trackreplay/internal/geo"
	"github.com/banshee-data/trackreplay/internal/monitoring"
)

// ErrInvalidTrack wraps every reference track parse or validation failure.
var ErrInvalidTrack = errors.New("invalid reference track")

const maxTrackFileSize = 16 * 1024 * 1024

var (
	validate  = validator.New()
	trackLogf = monitoring.Tagged("track")
)

// Meta is descriptive track information.
type Meta struct {
	Name string `json:"name"`
}

// Config holds the corridor geometry. Radius is in metres; zero means the
// caller's default applies.
type Config struct {
	Radius     float64    `json:"radius" validate:"gte=0"`
	StartPoint *geo.Point `json:"start_point" validate:"required"`
	EndPoint   *geo.Point `json:"end_point" validate:"required"`
}

// ReferenceTrack is the canonical corridor sessions are aligned and
// validated against. It is not modified after loading.
type ReferenceTrack struct {
	Meta   Meta        `json:"meta"`
	Config Config      `json:"config"`
	Path   []geo.Point `json:"path_data" validate:"min=2,dive"`
}

// Start returns the start anchor.
func (t *ReferenceTrack) Start() geo.Point { return *t.Config.StartPoint }

// End returns the end anchor.
func (t *ReferenceTrack) End() geo.Point { return *t.Config.EndPoint }

// RadiusOr returns the configured radius, or def when the track omits it.
func (t *ReferenceTrack) RadiusOr(def float64) float64 {
	if t.Config.Radius > 0 {
		return t.Config.Radius
	}
	return def
}

// ParseReferenceTrack decodes and checks a reference track document.
func ParseReferenceTrack(data []byte) (*ReferenceTrack, error) {
	var t ReferenceTrack
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTrack, err)
	}
	if err := validate.Struct(&t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTrack, err)
	}
	return &t, nil
}

// LoadReferenceTrack reads a reference track file through fsys.
func LoadReferenceTrack(fsys fsutil.FileSystem, path string) (*ReferenceTrack, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference track: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxTrackFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read reference track: %w", err)
	}
	if len(data) > maxTrackFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidTrack, maxTrackFileSize)
	}

	t, err := ParseReferenceTrack(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if t.Meta.Name == "" {
		t.Meta.Name = "unnamed"
	}
	trackLogf("loaded %q: %d path points, radius %.1fm", t.Meta.Name, len(t.Path), t.Config.Radius)
	return t, nil
}
