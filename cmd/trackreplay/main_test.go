package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/trackreplay/internal/fsutil"
	"github.com/banshee-data/trackreplay/internal/timeutil"
)

const lapCSV = `RaceBox export
time,lat,lon,speed
2026-03-01T10:00:00.0Z,31.3389,121.2198,80
2026-03-01T10:00:00.5Z,31.3390,121.2198,82
2026-03-01T10:00:01.0Z,31.3391,121.2198,84
2026-03-01T10:00:01.5Z,31.3392,121.2198,85
`

func TestFlagDefaults(t *testing.T) {
	assert.Equal(t, "", *configFile)
	assert.Equal(t, time.Duration(0), *playFor)
	assert.Equal(t, 60, *logEvery)
	assert.False(t, *showVersion)
}

func TestRun_ReportsOnly(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("logs/car.csv", []byte(lapCSV))
	mfs.WriteFile("logs/broken.csv", []byte("nothing,here\n"))

	err := run(context.Background(), mfs, timeutil.RealClock{}, options{reportDir: "out"}, []string{"logs/car.csv", "logs/broken.csv"})
	require.NoError(t, err)

	png, err := mfs.ReadFile("out/paths.png")
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	html, err := mfs.ReadFile("out/speed.html")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(html), "car"))
}

func TestRun_NoSessions(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	err := run(context.Background(), mfs, timeutil.RealClock{}, options{}, []string{"missing.csv"})
	assert.ErrorContains(t, err, "no telemetry sessions")
}

func TestRun_MissingTrackIsNotFatal(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("car.csv", []byte(lapCSV))
	err := run(context.Background(), mfs, timeutil.RealClock{}, options{trackFile: "nope.json"}, []string{"car.csv"})
	assert.NoError(t, err)
}

func TestRun_BadConfig(t *testing.T) {
	err := run(context.Background(), fsutil.NewMemoryFileSystem(), timeutil.RealClock{}, options{configFile: "replay.toml"}, []string{"car.csv"})
	assert.Error(t, err)
}

func TestRun_Playback(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("car.csv", []byte(lapCSV))
	o := options{speed: 2, playFor: 60 * time.Millisecond}
	err := run(context.Background(), mfs, timeutil.RealClock{}, o, []string{"car.csv"})
	assert.NoError(t, err)

	o.speed = -1
	err = run(context.Background(), mfs, timeutil.RealClock{}, o, []string{"car.csv"})
	assert.NoError(t, err, "non-positive speed keeps the default")
}

func TestRun_ConfigFromFileSystem(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("car.csv", []byte(lapCSV))
	mfs.WriteFile("replay.json", []byte(`{"smoothing_window": 1, "speed_units": "kph"}`))
	err := run(context.Background(), mfs, timeutil.RealClock{}, options{configFile: "replay.json"}, []string{"car.csv"})
	assert.NoError(t, err)

	mfs.WriteFile("bad.json", []byte(`{"smoothing_window": 0}`))
	err = run(context.Background(), mfs, timeutil.RealClock{}, options{configFile: "bad.json"}, []string{"car.csv"})
	assert.ErrorContains(t, err, "smoothing_window")
}
