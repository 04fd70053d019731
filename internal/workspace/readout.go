package workspace

import (
	"github.com/banshee-data/trackreplay/internal/units"
)

// Readout is the telemetry display for one session at the current frame.
type Readout struct {
	SessionID         string
	Name              string
	RelTime           float64
	Speed             float64 // in the configured display unit
	SpeedText         string
	LateralAccel      float64
	LongitudinalAccel float64
	FixQuality        string
	Valid             bool
	OffTrackCount     int
}

// Readouts returns the current-frame telemetry of every visible session.
func (w *Workspace) Readouts() []Readout {
	w.mu.Lock()
	defer w.mu.Unlock()

	from := w.cfg.GetSourceSpeedUnits()
	to := w.cfg.GetSpeedUnits()
	var out []Readout
	for _, s := range w.store.List() {
		if !s.Visible {
			continue
		}
		f := s.CurrentFrame
		out = append(out, Readout{
			SessionID:         s.ID,
			Name:              s.Name,
			RelTime:           f.RelTime,
			Speed:             units.Convert(f.Telemetry.Speed, from, to),
			SpeedText:         units.Format(f.Telemetry.Speed, from, to),
			LateralAccel:      f.Telemetry.LateralAccel,
			LongitudinalAccel: f.Telemetry.LongitudinalAccel,
			FixQuality:        f.Telemetry.FixQuality,
			Valid:             s.Valid,
			OffTrackCount:     s.OffTrackCount,
		})
	}
	return out
}
