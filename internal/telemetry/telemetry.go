// Package telemetry owns the point model produced by ingestion and the
// moving-average smoother applied before playback.
package telemetry

import "github.com/banshee-data/trackreplay/internal/geo"

// Telemetry is the normalised per-sample readout. Missing numeric channels
// are zero; FixQuality is empty when the log has no fix column.
type Telemetry struct {
	Speed             float64 `json:"speed"`
	LateralAccel      float64 `json:"lateral_accel"`
	LongitudinalAccel float64 `json:"longitudinal_accel"`
	FixQuality        string  `json:"fix_quality,omitempty"`
}

// TrackPoint is one GPS sample. RelTime is seconds from the start of the
// session and is non-decreasing across a session.
type TrackPoint struct {
	Lat       float64           `json:"lat"`
	Lon       float64           `json:"lon"`
	RelTime   float64           `json:"rel_time"`
	Telemetry Telemetry         `json:"telemetry"`
	RawFields map[string]string `json:"raw_fields,omitempty"`
}

// Position returns the sample's coordinate.
func (p TrackPoint) Position() geo.Point {
	return geo.Point{Lat: p.Lat, Lon: p.Lon}
}

// RawSession is a log exactly as ingested. It is never mutated after
// creation so alignment can always re-crop from unsmoothed data.
type RawSession struct {
	Name   string
	Source string
	Points []TrackPoint
}

// Duration returns the RelTime of the last point, or 0 when empty.
func Duration(points []TrackPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	return points[len(points)-1].RelTime
}

// Positions projects points onto their coordinates.
func Positions(points []TrackPoint) []geo.Point {
	out := make([]geo.Point, len(points))
	for i, p := range points {
		out[i] = p.Position()
	}
	return out
}

// Thin returns at most max evenly strided points, using a stride of
// ceil(n/max). The first point is always kept.
func Thin(points []TrackPoint, max int) []TrackPoint {
	if max <= 0 || len(points) <= max {
		return points
	}
	stride := (len(points) + max - 1) / max
	out := make([]TrackPoint, 0, len(points)/stride+1)
	for i := 0; i < len(points); i += stride {
		out = append(out, points[i])
	}
	return out
}

// Decimate returns the positions of Thin(points, max) for drawing.
func Decimate(points []TrackPoint, max int) []geo.Point {
	return Positions(Thin(points, max))
}
