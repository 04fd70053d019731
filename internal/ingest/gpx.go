package ingest

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/banshee-data/trackreplay/internal/geo"
	"github.com/banshee-data/trackreplay/internal/telemetry"
	"github.com/banshee-data/trackreplay/internal/units"
)

// ReadGPX reads every track point of every track and segment, in file
// order, as one RawSession. Speed is derived from consecutive fixes in
// opts.SpeedUnits; points without a timestamp fall back to the sample cadence.
func ReadGPX(name string, r io.Reader, opts Options) (*telemetry.RawSession, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gpx: %w", err)
	}
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX file: %w", err)
	}

	step := opts.SampleInterval.Seconds()
	var (
		points   []telemetry.TrackPoint
		origin   int64
		hasStart bool
		index    int
	)
	for _, track := range g.Tracks {
		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				i := index
				index++
				if p.Latitude == 0 {
					continue
				}

				relTime := float64(i) * step
				if !p.Timestamp.IsZero() {
					ns := p.Timestamp.UnixNano()
					if !hasStart {
						origin = ns
						hasStart = true
					}
					relTime = float64(ns-origin) / 1e9
				}

				tp := telemetry.TrackPoint{
					Lat:       p.Latitude,
					Lon:       p.Longitude,
					RelTime:   relTime,
					Telemetry: telemetry.Telemetry{FixQuality: p.TypeOfGpsFix},
					RawFields: map[string]string{
						"lat": strconv.FormatFloat(p.Latitude, 'f', -1, 64),
						"lon": strconv.FormatFloat(p.Longitude, 'f', -1, 64),
					},
				}
				if p.Elevation.NotNull() {
					tp.RawFields["ele"] = strconv.FormatFloat(p.Elevation.Value(), 'f', -1, 64)
				}
				if !p.Timestamp.IsZero() {
					tp.RawFields["time"] = p.Timestamp.Format("2006-01-02T15:04:05.999999999Z07:00")
				}

				if n := len(points); n > 0 {
					prev := points[n-1]
					if tp.RelTime < prev.RelTime {
						tp.RelTime = prev.RelTime
					}
					if dt := tp.RelTime - prev.RelTime; dt > 0 {
						mps := geo.DistanceMeters(prev.Position(), tp.Position()) / dt
						tp.Telemetry.Speed = units.Convert(mps, units.MPS, opts.SpeedUnits)
					}
				}
				points = append(points, tp)
			}
		}
	}

	if len(points) == 0 {
		logf("%s: GPX contains no track points", name)
	}
	return &telemetry.RawSession{Name: name, Points: points}, nil
}
