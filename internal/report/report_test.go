package report

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/trackreplay/internal/fsutil"
	"github.com/banshee-data/trackreplay/internal/geo"
	"github.com/banshee-data/trackreplay/internal/session"
	"github.com/banshee-data/trackreplay/internal/telemetry"
	"github.com/banshee-data/trackreplay/internal/testutil"
	"github.com/banshee-data/trackreplay/internal/track"
	"github.com/banshee-data/trackreplay/internal/units"
)

func sessions() []session.Session {
	st := session.NewStore(nil)
	fast := testutil.StraightPath(testutil.Origin, 20, 10, 0.5)
	for i := range fast {
		fast[i].Telemetry.Speed = float64(60 + i)
	}
	slow := testutil.WithSpeed(testutil.Shift(testutil.StraightPath(testutil.Origin, 30, 5, 0.5), 0, 3), 36)
	st.Add(testutil.Raw("fast", fast), fast)
	st.Add(testutil.Raw("slow", slow), slow)
	st.Add(testutil.Raw("empty", nil), nil)

	var out []session.Session
	for _, s := range st.List() {
		out = append(out, *s)
	}
	return out
}

func reference() *track.ReferenceTrack {
	path := telemetry.Positions(testutil.StraightPath(testutil.Origin, 20, 10, 1))
	return &track.ReferenceTrack{
		Meta:   track.Meta{Name: "straight"},
		Config: track.Config{Radius: 8, StartPoint: &path[0], EndPoint: &path[19]},
		Path:   path,
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(sessions(), units.KMPH, units.MPS)
	require.Len(t, got, 3)

	assert.Equal(t, "fast", got[0].Name)
	assert.Equal(t, 20, got[0].Points)
	assert.InDelta(t, 9.5, got[0].Duration, 1e-9)
	assert.InDelta(t, 69.5/3.6, got[0].MeanSpeed, 1e-9)
	assert.InDelta(t, 79/3.6, got[0].MaxSpeed, 1e-9)
	assert.Greater(t, got[0].StdDevSpeed, 0.0)

	assert.InDelta(t, 10.0, got[1].MeanSpeed, 1e-9)
	assert.InDelta(t, 0.0, got[1].StdDevSpeed, 1e-9)
	assert.True(t, got[1].Valid)

	assert.Equal(t, 0, got[2].Points)
	assert.Equal(t, 0.0, got[2].MeanSpeed)
}

func TestWritePathPlot(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, WritePathPlot(mfs, "out/paths.png", reference(), sessions()))

	data, err := mfs.ReadFile("out/paths.png")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "png signature")

	require.NoError(t, WritePathPlot(mfs, "out/noref.png", nil, sessions()))
}

func TestPathPlot_Legend(t *testing.T) {
	p, err := PathPlot(reference(), sessions())
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "straight")
}

func TestWriteSpeedChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSpeedChart(&buf, sessions(), units.KMPH, units.MPH))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "fast")
	assert.Contains(t, html, "slow")
	assert.Contains(t, html, "Speed (mph)")
}

func TestParseHex(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0x00, G: 0xff, B: 0x9d, A: 255}, parseHex("#00ff9d"))
	assert.Equal(t, color.Gray{Y: 128}, parseHex("red"))
	assert.Equal(t, color.Gray{Y: 128}, parseHex("#zzzzzz"))
}

func TestXYs(t *testing.T) {
	got := xys([]geo.Point{{Lat: 1, Lon: 2}})
	assert.Equal(t, 2.0, got[0].X)
	assert.Equal(t, 1.0, got[0].Y)
}
