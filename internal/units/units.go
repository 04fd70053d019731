// Package units provides the speed units used for telemetry readouts.
package units

import (
	"fmt"
	"strings"
)

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// metresPerSecond is the factor that turns one unit of speed into m/s.
func metresPerSecond(unit string) float64 {
	switch unit {
	case MPH:
		return 0.44704
	case KMPH, KPH:
		return 1 / 3.6
	default:
		return 1
	}
}

// Convert converts a speed between any two valid units. Unknown units are
// treated as m/s.
func Convert(speed float64, from, to string) float64 {
	if from == to {
		return speed
	}
	return speed * metresPerSecond(from) / metresPerSecond(to)
}

// Label returns the display suffix for a unit, e.g. "km/h".
func Label(unit string) string {
	switch unit {
	case MPH:
		return "mph"
	case KMPH, KPH:
		return "km/h"
	default:
		return "m/s"
	}
}

// Format renders a speed readout in the target unit with one decimal.
func Format(speed float64, from, to string) string {
	return fmt.Sprintf("%.1f %s", Convert(speed, from, to), Label(to))
}
