package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_KnownLeg(t *testing.T) {
	// One degree of latitude on the mean sphere.
	d := DistanceMeters(Point{Lat: 0, Lon: 0}, Point{Lat: 1, Lon: 0})
	assert.InDelta(t, 111194.9, d, 1.0)

	// Jakarta to Bandung, roughly 115-120 km.
	d = DistanceMeters(Point{Lat: -6.2, Lon: 106.816}, Point{Lat: -6.9175, Lon: 107.6191})
	if d < 100e3 || d > 140e3 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestDistanceMeters_IdentityAndSymmetry(t *testing.T) {
	points := []Point{
		{Lat: 0, Lon: 0},
		{Lat: 31.2304, Lon: 121.4737},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 51.5074, Lon: -0.1278},
		{Lat: 89.9, Lon: 179.9},
	}
	for _, a := range points {
		assert.Equal(t, 0.0, DistanceMeters(a, a), "distance to self for %v", a)
		for _, b := range points {
			assert.InDelta(t, DistanceMeters(a, b), DistanceMeters(b, a), 1e-6, "symmetry %v %v", a, b)
			if a != b {
				assert.Greater(t, DistanceMeters(a, b), 0.0)
			}
		}
	}
}

func TestBearingDegrees_Planar(t *testing.T) {
	origin := Point{Lat: 10, Lon: 10}
	tests := []struct {
		name string
		to   Point
		want float64
	}{
		{"north", Point{Lat: 11, Lon: 10}, 0},
		{"east", Point{Lat: 10, Lon: 11}, 90},
		{"south", Point{Lat: 9, Lon: 10}, 180},
		{"west", Point{Lat: 10, Lon: 9}, -90},
		{"north-east", Point{Lat: 11, Lon: 11}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, BearingDegrees(origin, tt.to), 1e-9)
		})
	}
}

func TestBearingDegrees_IgnoresLatitudeScaling(t *testing.T) {
	// At 60°N a true bearing for equal degree steps would be far from 45°;
	// the planar formula must still return exactly 45.
	got := BearingDegrees(Point{Lat: 60, Lon: 10}, Point{Lat: 60.001, Lon: 10.001})
	assert.InDelta(t, 45.0, got, 1e-9)
}

func TestLerp(t *testing.T) {
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 10, Lon: 10}
	assert.Equal(t, Point{Lat: 5, Lon: 5}, Lerp(a, b, 0.5))
	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
}

func TestOffsetMeters(t *testing.T) {
	p := Point{Lat: 31.0, Lon: 121.0}
	north := OffsetMeters(p, 100, 0)
	assert.InDelta(t, 100, DistanceMeters(p, north), 0.01)

	east := OffsetMeters(p, 0, 100)
	assert.InDelta(t, 100, DistanceMeters(p, east), 0.1)
	assert.False(t, math.IsNaN(east.Lon))
}
