package telemetry

import "gonum.org/v1/gonum/stat"

// DefaultSmoothingWindow is the half-width used by the ingest pipeline.
const DefaultSmoothingWindow = 3

// Smooth low-pass filters lat/lon with a centred moving average over
// [i-window, i+window], truncated at the ends. All other fields are copied
// unchanged. The input slice is never modified. When len(points) < window
// the input is returned as is.
func Smooth(points []TrackPoint, window int) []TrackPoint {
	if len(points) < window || window < 1 {
		return points
	}

	n := len(points)
	lats := make([]float64, n)
	lons := make([]float64, n)
	for i, p := range points {
		lats[i] = p.Lat
		lons[i] = p.Lon
	}

	out := make([]TrackPoint, n)
	copy(out, points)
	for i := range out {
		lo := max(0, i-window)
		hi := min(n-1, i+window) + 1
		out[i].Lat = stat.Mean(lats[lo:hi], nil)
		out[i].Lon = stat.Mean(lons[lo:hi], nil)
	}
	return out
}
