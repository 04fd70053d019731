// Package testutil provides synthetic telemetry fixtures shared by package
// tests.
//
// Builders work in metres around a fixed origin so tests can reason about
// corridor distances without hand-computing coordinates.
package testutil

import (
	"math"

	"github.com/banshee-data/trackreplay/internal/geo"
	"github.com/banshee-data/trackreplay/internal/telemetry"
)

// Origin is the start/finish line used by fixtures.
var Origin = geo.Point{Lat: 31.3389, Lon: 121.2198}

// StraightPath returns n points heading due north from start, spacing
// metres apart and interval seconds apart.
func StraightPath(start geo.Point, n int, spacing, interval float64) []telemetry.TrackPoint {
	points := make([]telemetry.TrackPoint, n)
	for i := range points {
		p := geo.OffsetMeters(start, float64(i)*spacing, 0)
		points[i] = telemetry.TrackPoint{
			Lat:     p.Lat,
			Lon:     p.Lon,
			RelTime: float64(i) * interval,
		}
	}
	return points
}

// LoopPath returns n points evenly spaced around a circle of the given
// radius in metres, starting due south of centre and moving anticlockwise.
func LoopPath(center geo.Point, radius float64, n int) []geo.Point {
	path := make([]geo.Point, n)
	for i := range path {
		theta := 2 * math.Pi * float64(i) / float64(n)
		path[i] = geo.OffsetMeters(center, -radius*math.Cos(theta), radius*math.Sin(theta))
	}
	return path
}

// FromPositions turns coordinates into track points spaced interval
// seconds apart.
func FromPositions(path []geo.Point, interval float64) []telemetry.TrackPoint {
	points := make([]telemetry.TrackPoint, len(path))
	for i, p := range path {
		points[i] = telemetry.TrackPoint{Lat: p.Lat, Lon: p.Lon, RelTime: float64(i) * interval}
	}
	return points
}

// Shift returns a copy of points moved by the given north/east metres.
func Shift(points []telemetry.TrackPoint, north, east float64) []telemetry.TrackPoint {
	out := make([]telemetry.TrackPoint, len(points))
	for i, p := range points {
		moved := geo.OffsetMeters(p.Position(), north, east)
		p.Lat, p.Lon = moved.Lat, moved.Lon
		out[i] = p
	}
	return out
}

// WithSpeed sets a constant speed readout on every point.
func WithSpeed(points []telemetry.TrackPoint, speed float64) []telemetry.TrackPoint {
	for i := range points {
		points[i].Telemetry.Speed = speed
	}
	return points
}

// Raw wraps points in a RawSession.
func Raw(name string, points []telemetry.TrackPoint) *telemetry.RawSession {
	return &telemetry.RawSession{Name: name, Source: name + ".csv", Points: points}
}
