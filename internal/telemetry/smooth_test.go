package telemetry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(n int) []TrackPoint {
	pts := make([]TrackPoint, n)
	for i := range pts {
		pts[i] = TrackPoint{
			Lat:       float64(i),
			Lon:       float64(i * 2),
			RelTime:   float64(i) * 0.1,
			Telemetry: Telemetry{Speed: float64(i)},
		}
	}
	return pts
}

func TestSmooth_PreservesLengthAndTimes(t *testing.T) {
	for _, w := range []int{1, 2, 3, 5, 10} {
		in := line(25)
		out := Smooth(in, w)
		require.Len(t, out, len(in), "window %d", w)
		for i := range out {
			assert.Equal(t, in[i].RelTime, out[i].RelTime)
			assert.Equal(t, in[i].Telemetry, out[i].Telemetry)
		}
	}
}

func TestSmooth_DoesNotMutateInput(t *testing.T) {
	in := []TrackPoint{{Lat: 0}, {Lat: 9}, {Lat: 0}, {Lat: 9}, {Lat: 0}}
	before := append([]TrackPoint(nil), in...)

	_ = Smooth(in, 1)

	if diff := cmp.Diff(before, in); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestSmooth_ShortInputUnchanged(t *testing.T) {
	in := line(2)
	out := Smooth(in, 3)
	assert.Equal(t, in, out)
}

func TestSmooth_BoundaryWindows(t *testing.T) {
	in := []TrackPoint{{Lat: 0}, {Lat: 3}, {Lat: 6}, {Lat: 9}, {Lat: 12}}
	out := Smooth(in, 1)

	// i=0 averages indices 0..1, i=2 averages 1..3, i=4 averages 3..4.
	assert.InDelta(t, 1.5, out[0].Lat, 1e-12)
	assert.InDelta(t, 6.0, out[2].Lat, 1e-12)
	assert.InDelta(t, 10.5, out[4].Lat, 1e-12)
}

func TestSmooth_FlattensSpike(t *testing.T) {
	in := make([]TrackPoint, 9)
	in[4].Lat = 7
	out := Smooth(in, DefaultSmoothingWindow)

	// The spike is spread over the 7-wide window.
	assert.InDelta(t, 1.0, out[4].Lat, 1e-12)
	assert.Less(t, out[4].Lat, in[4].Lat)

	// Re-smoothing keeps spreading the spike; a smoothed path is not a fixed point.
	again := Smooth(out, DefaultSmoothingWindow)
	assert.Greater(t, again[0].Lat, out[0].Lat)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 0.0, Duration(nil))
	assert.InDelta(t, 0.9, Duration(line(10)), 1e-12)
}

func TestDecimate(t *testing.T) {
	pts := line(10)
	assert.Len(t, Decimate(pts, 0), 10)
	assert.Len(t, Decimate(pts, 20), 10)

	got := Decimate(pts, 4)
	// stride ceil(10/4)=3 -> indices 0,3,6,9
	require.Len(t, got, 4)
	assert.Equal(t, 9.0, got[3].Lat)
}

func TestThin(t *testing.T) {
	pts := line(9)
	got := Thin(pts, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []float64{0, 3, 6}, []float64{got[0].Lat, got[1].Lat, got[2].Lat})
	assert.InDelta(t, 0.6, got[2].RelTime, 1e-12)

	assert.Len(t, Thin(pts, 9), 9)
	assert.Empty(t, Thin(nil, 5))
}
