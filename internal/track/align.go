package track

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/trackreplay/internal/config"
	"github.com/banshee-data/trackreplay/internal/geo"
	"github.com/banshee-data/trackreplay/internal/monitoring"
	"github.com/banshee-data/trackreplay/internal/telemetry"
)

var logf = monitoring.Tagged("align")

var (
	// ErrStartNotFound means no point came within the anchor ceiling of
	// the start anchor.
	ErrStartNotFound = errors.New("start anchor not found")

	// ErrEndNotFound means no point after the start skip came within the
	// anchor ceiling of the end anchor.
	ErrEndNotFound = errors.New("end anchor not found")
)

// AlignError reports a session that could not be cropped to the reference
// track. The session keeps its uncropped data.
type AlignError struct {
	SessionID string
	Err       error
}

func (e *AlignError) Error() string {
	return fmt.Sprintf("align session %s: %v", e.SessionID, e.Err)
}

func (e *AlignError) Unwrap() error {
	return e.Err
}

// Options holds the alignment and validation tunables.
type Options struct {
	AnchorCeilingMeters float64
	EndSearchSkip       int
	SmoothingWindow     int

	SessionStride        int
	TrackStride          int
	CorridorMarginMeters float64
	DefaultRadiusMeters  float64
	MaxOffTrackFraction  float64
}

// DefaultOptions returns the standard alignment and validation settings.
func DefaultOptions() Options {
	return OptionsFromConfig(config.EmptyReplayConfig())
}

// OptionsFromConfig builds Options from a loaded ReplayConfig.
func OptionsFromConfig(cfg *config.ReplayConfig) Options {
	return Options{
		AnchorCeilingMeters:  cfg.GetAnchorCeilingMeters(),
		EndSearchSkip:        cfg.GetEndSearchSkip(),
		SmoothingWindow:      cfg.GetSmoothingWindow(),
		SessionStride:        cfg.GetValidationSessionStride(),
		TrackStride:          cfg.GetValidationTrackStride(),
		CorridorMarginMeters: cfg.GetCorridorMarginMeters(),
		DefaultRadiusMeters:  cfg.GetDefaultRadiusMeters(),
		MaxOffTrackFraction:  cfg.GetMaxOffTrackFraction(),
	}
}

// nearest returns the index in points[from:] closest to target, provided
// that distance is under ceiling. It scans the whole range and keeps the
// global minimum. Returns -1 when nothing is close enough.
func nearest(points []telemetry.TrackPoint, from int, target geo.Point, ceiling float64) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i := from; i < len(points); i++ {
		d := geo.DistanceMeters(points[i].Position(), target)
		if d < ceiling && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// FindAnchors locates the start and end anchor indices in points. The end
// search begins EndSearchSkip samples after the start, or at the last
// point for short sessions, so a track whose start and end coincide does
// not match its own start.
func FindAnchors(points []telemetry.TrackPoint, ref *ReferenceTrack, opts Options) (start, end int, err error) {
	start, startDist := nearest(points, 0, ref.Start(), opts.AnchorCeilingMeters)
	if start < 0 {
		return -1, -1, ErrStartNotFound
	}

	from := min(start+opts.EndSearchSkip, len(points)-1)
	end, endDist := nearest(points, from, ref.End(), opts.AnchorCeilingMeters)
	if end < 0 {
		return start, -1, ErrEndNotFound
	}

	logf("anchors start=%d (%.1fm) end=%d (%.1fm)", start, startDist, end, endDist)
	return start, end, nil
}

// Crop copies points[start:end+1] and shifts RelTime so the first kept
// point sits at zero.
func Crop(points []telemetry.TrackPoint, start, end int) []telemetry.TrackPoint {
	if start < 0 || end >= len(points) || start > end {
		return nil
	}
	origin := points[start].RelTime
	out := make([]telemetry.TrackPoint, end-start+1)
	copy(out, points[start:end+1])
	for i := range out {
		out[i].RelTime -= origin
	}
	return out
}

// Alignment is the result of cropping one raw session.
type Alignment struct {
	Start int
	End   int
	Data  []telemetry.TrackPoint // cropped, re-zeroed and smoothed
}

// Duration returns the aligned lap time in seconds.
func (a *Alignment) Duration() float64 {
	return telemetry.Duration(a.Data)
}

// Align crops raw to the lap between the reference anchors and smooths the
// result. raw is not modified.
func Align(raw *telemetry.RawSession, ref *ReferenceTrack, opts Options) (*Alignment, error) {
	start, end, err := FindAnchors(raw.Points, ref, opts)
	if err != nil {
		return nil, err
	}
	cropped := Crop(raw.Points, start, end)
	return &Alignment{
		Start: start,
		End:   end,
		Data:  telemetry.Smooth(cropped, opts.SmoothingWindow),
	}, nil
}
