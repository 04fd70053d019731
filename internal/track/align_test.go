package track

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/trackreplay/internal/geo"
	"github.com/banshee-data/trackreplay/internal/telemetry"
	"github.com/banshee-data/trackreplay/internal/testutil"
)

func refWithAnchors(start, end geo.Point, path []geo.Point) *ReferenceTrack {
	return &ReferenceTrack{
		Meta:   Meta{Name: "test"},
		Config: Config{Radius: 10, StartPoint: &start, EndPoint: &end},
		Path:   path,
	}
}

// straightLap is 41 samples 10m apart; the start anchor sits 0.5m beside
// index 10 and the end anchor 0.5m beside index 40.
func straightLap() ([]telemetry.TrackPoint, *ReferenceTrack) {
	points := testutil.StraightPath(testutil.Origin, 41, 10, 0.1)
	start := geo.OffsetMeters(points[10].Position(), 0, 0.5)
	end := geo.OffsetMeters(points[40].Position(), 0, 0.5)
	return points, refWithAnchors(start, end, telemetry.Positions(points))
}

func TestFindAnchors(t *testing.T) {
	points, ref := straightLap()
	start, end, err := FindAnchors(points, ref, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 10, start)
	assert.Equal(t, 40, end)
}

func TestFindAnchors_ClosedLoopSkipsStart(t *testing.T) {
	loop := testutil.LoopPath(testutil.Origin, 100, 100)
	path := append(append([]geo.Point{}, loop...), loop...)
	points := testutil.FromPositions(path, 0.1)
	ref := refWithAnchors(loop[0], loop[0], loop)

	start, end, err := FindAnchors(points, ref, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, start, "first of equal minima wins")
	assert.Equal(t, 100, end, "end search starts after the skip")
}

func TestFindAnchors_GlobalMinimum(t *testing.T) {
	points := testutil.StraightPath(testutil.Origin, 100, 5, 0.1)
	// Many points are under the ceiling; the closest one must win, not the first.
	start := geo.OffsetMeters(points[30].Position(), 0, 1)
	end := geo.OffsetMeters(points[95].Position(), 0, 1)
	s, e, err := FindAnchors(points, refWithAnchors(start, end, nil), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 30, s)
	assert.Equal(t, 95, e)
}

func TestFindAnchors_NotFound(t *testing.T) {
	points := testutil.StraightPath(testutil.Origin, 80, 5, 0.1)
	far := geo.OffsetMeters(testutil.Origin, 0, 5000)

	_, _, err := FindAnchors(points, refWithAnchors(far, testutil.Origin, nil), DefaultOptions())
	assert.ErrorIs(t, err, ErrStartNotFound)

	_, _, err = FindAnchors(points, refWithAnchors(testutil.Origin, far, nil), DefaultOptions())
	assert.ErrorIs(t, err, ErrEndNotFound)

	_, _, err = FindAnchors(nil, refWithAnchors(testutil.Origin, testutil.Origin, nil), DefaultOptions())
	assert.ErrorIs(t, err, ErrStartNotFound)
}

func TestCrop(t *testing.T) {
	points := testutil.StraightPath(testutil.Origin, 20, 10, 0.5)
	out := Crop(points, 4, 9)
	require.Len(t, out, 6)
	assert.Equal(t, 0.0, out[0].RelTime)
	assert.Equal(t, 2.5, out[5].RelTime)
	assert.Equal(t, points[4].Lat, out[0].Lat)
	assert.Equal(t, 2.0, points[4].RelTime, "input untouched")

	assert.Nil(t, Crop(points, 5, 4))
	assert.Nil(t, Crop(points, 0, 20))
}

func TestAlign(t *testing.T) {
	points, ref := straightLap()
	raw := testutil.Raw("car", points)

	a, err := Align(raw, ref, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 10, a.Start)
	assert.Equal(t, 40, a.End)
	require.Len(t, a.Data, 40-10+1)
	assert.Equal(t, 0.0, a.Data[0].RelTime)
	assert.InDelta(t, 3.0, a.Duration(), 1e-9)

	// Smoothing only moves positions, and the raw session is untouched.
	assert.NotEqual(t, raw.Points[10].Lat, a.Data[0].Lat)
	assert.InDelta(t, 1.0, raw.Points[10].RelTime, 1e-9)
	assert.Len(t, raw.Points, 41)
}

func TestAlign_Failure(t *testing.T) {
	points := testutil.StraightPath(testutil.Origin, 10, 5, 0.1)
	far := geo.OffsetMeters(testutil.Origin, 2000, 0)
	_, err := Align(testutil.Raw("car", points), refWithAnchors(far, far, nil), DefaultOptions())
	require.Error(t, err)

	wrapped := &AlignError{SessionID: "abc", Err: err}
	assert.True(t, errors.Is(wrapped, ErrStartNotFound))
	assert.Contains(t, wrapped.Error(), "abc")
}
