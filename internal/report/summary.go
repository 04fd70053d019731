// Package report produces offline comparison artefacts for a set of
// sessions: a path plot, a speed chart and per-session statistics.
package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/trackreplay/internal/session"
	"github.com/banshee-data/trackreplay/internal/units"
)

// Summary is the per-session comparison row.
type Summary struct {
	SessionID     string
	Name          string
	Points        int
	Duration      float64 // seconds
	MeanSpeed     float64 // in the display unit
	StdDevSpeed   float64
	MaxSpeed      float64
	Cropped       bool
	Valid         bool
	OffTrackCount int
}

// Summarize computes one Summary per session. Speeds are converted from
// the source unit to the display unit.
func Summarize(sessions []session.Session, from, to string) []Summary {
	out := make([]Summary, 0, len(sessions))
	for _, s := range sessions {
		sum := Summary{
			SessionID:     s.ID,
			Name:          s.Name,
			Points:        len(s.Data),
			Duration:      s.Duration,
			Cropped:       s.Cropped,
			Valid:         s.Valid,
			OffTrackCount: s.OffTrackCount,
		}
		if len(s.Data) > 0 {
			speeds := make([]float64, len(s.Data))
			for i, p := range s.Data {
				speeds[i] = units.Convert(p.Telemetry.Speed, from, to)
			}
			sum.MeanSpeed, sum.StdDevSpeed = stat.MeanStdDev(speeds, nil)
			sum.MaxSpeed = floats.Max(speeds)
			if len(speeds) == 1 {
				sum.StdDevSpeed = 0
			}
		}
		out = append(out, sum)
	}
	return out
}
