package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/trackreplay/internal/telemetry"
)

// timestampLayouts are tried in order for textual time columns.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006/01/02 15:04:05.999999999",
	"01/02/2006 15:04:05.999999999",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// Build maps a tokenized table onto a RawSession.
//
// Rows whose latitude is non-numeric or exactly zero are dropped, as are rows
// with a non-numeric longitude. Missing telemetry channels read as zero.
// RelTime comes from the time column when it parses, measured from the first
// parseable timestamp; otherwise it is the row index times the sample
// interval. RelTime never decreases.
func Build(name string, t *Table, opts Options) *telemetry.RawSession {
	latIdx := t.Index(t.Columns.Lat)
	lonIdx := t.Index(t.Columns.Lon)
	timeIdx := t.Index(t.Columns.Time)
	speedIdx := t.Index(t.Columns.Speed)
	gLatIdx := t.Index(t.Columns.GLat)
	gLonIdx := t.Index(t.Columns.GLon)
	fixIdx := t.Index(t.Columns.Fix)

	step := opts.SampleInterval.Seconds()
	var (
		points    []telemetry.TrackPoint
		origin    float64
		hasOrigin bool
		lastTime  float64
		dropped   int
		clamped   int
	)

	for i, row := range t.Rows {
		lat, ok := parseNumber(field(row, latIdx))
		if !ok || lat == 0 {
			dropped++
			continue
		}
		lon, ok := parseNumber(field(row, lonIdx))
		if !ok {
			dropped++
			continue
		}

		relTime := float64(i) * step
		if ts, ok := parseTimestamp(field(row, timeIdx)); ok {
			if !hasOrigin {
				origin = ts
				hasOrigin = true
			}
			relTime = ts - origin
		}
		if len(points) > 0 && relTime < lastTime {
			relTime = lastTime
			clamped++
		}
		lastTime = relTime

		points = append(points, telemetry.TrackPoint{
			Lat:     lat,
			Lon:     lon,
			RelTime: relTime,
			Telemetry: telemetry.Telemetry{
				Speed:             numberOrZero(field(row, speedIdx)),
				LateralAccel:      numberOrZero(field(row, gLatIdx)),
				LongitudinalAccel: numberOrZero(field(row, gLonIdx)),
				FixQuality:        field(row, fixIdx),
			},
			RawFields: rawFields(t.Header, row),
		})
	}

	if dropped > 0 {
		logf("%s: dropped %d rows without a usable position", name, dropped)
	}
	if clamped > 0 {
		logf("%s: clamped %d backwards timestamps", name, clamped)
	}
	if len(points) == 0 {
		logf("%s: no valid points, session will be empty", name)
	}
	return &telemetry.RawSession{Name: name, Points: points}
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func rawFields(header, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(row) {
			m[h] = row[i]
		}
	}
	return m
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func numberOrZero(s string) float64 {
	v, _ := parseNumber(s)
	return v
}

// parseTimestamp returns the timestamp in seconds on an axis that is only
// meaningful relative to other values of the same column. Numbers of at
// least 1e11 are epoch milliseconds; smaller numbers are seconds, either
// epoch or elapsed, so an elapsed column may start at 0. Empty and
// unparseable values count as missing.
func parseTimestamp(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if v, ok := parseNumber(s); ok {
		if math.Abs(v) >= 1e11 {
			return v / 1000, true
		}
		return v, true
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return float64(ts.UnixNano()) / 1e9, true
		}
	}
	return 0, false
}
