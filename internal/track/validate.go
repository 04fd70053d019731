package track

import (
	"math"

	"github.com/banshee-data/trackreplay/internal/geo"
	"github.com/banshee-data/trackreplay/internal/monitoring"
	"github.com/banshee-data/trackreplay/internal/telemetry"
)

var validateLogf = monitoring.Tagged("validate")

// Validation is the corridor score of one session.
type Validation struct {
	Sampled       int
	OffTrackCount int
	Valid         bool
}

// Limit returns the off-track distance threshold for ref in metres.
func Limit(ref *ReferenceTrack, opts Options) float64 {
	return ref.RadiusOr(opts.DefaultRadiusMeters) + opts.CorridorMarginMeters
}

// Validate samples every SessionStride-th point of data and checks it
// against every TrackStride-th point of the reference path. The inner
// scan stops at the first reference point inside the limit, so only the
// inside/outside classification is exact. A session is valid while fewer
// than MaxOffTrackFraction of its sampled points are off track; a nil
// ref or an empty session is always valid.
func Validate(data []telemetry.TrackPoint, ref *ReferenceTrack, opts Options) Validation {
	if ref == nil || len(ref.Path) == 0 {
		return Validation{Valid: true}
	}
	limit := Limit(ref, opts)
	sStride := max(opts.SessionStride, 1)
	tStride := max(opts.TrackStride, 1)

	var v Validation
	for i := 0; i < len(data); i += sStride {
		v.Sampled++
		p := data[i].Position()
		minD := math.Inf(1)
		for j := 0; j < len(ref.Path); j += tStride {
			if d := geo.DistanceMeters(p, ref.Path[j]); d < minD {
				minD = d
			}
			if minD < limit {
				break
			}
		}
		if minD > limit {
			v.OffTrackCount++
		}
	}

	v.Valid = v.Sampled == 0 || float64(v.OffTrackCount) < opts.MaxOffTrackFraction*float64(v.Sampled)
	if !v.Valid {
		validateLogf("%d of %d sampled points outside %.1fm corridor", v.OffTrackCount, v.Sampled, limit)
	}
	return v
}
