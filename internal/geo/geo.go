// Package geo holds the spherical-earth helpers shared by alignment,
// validation and playback.
package geo

import "math"

// EarthRadiusMeters is the mean earth radius used by DistanceMeters.
const EarthRadiusMeters = 6371e3

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// DistanceMeters returns the haversine great-circle distance between a and b.
func DistanceMeters(a, b Point) float64 {
	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	dPhi := radians(b.Lat - a.Lat)
	dLambda := radians(b.Lon - a.Lon)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BearingDegrees returns atan2(Δlon, Δlat) in degrees, clockwise from north.
//
// This is a planar approximation that ignores meridian convergence. It is
// only meant for the short legs between neighbouring samples on a circuit,
// where it drives marker rotation; it is not a great-circle bearing.
func BearingDegrees(a, b Point) float64 {
	return math.Atan2(b.Lon-a.Lon, b.Lat-a.Lat) * 180 / math.Pi
}

// Lerp interpolates linearly between a and b; t is not clamped.
func Lerp(a, b Point, t float64) Point {
	return Point{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lon: a.Lon + (b.Lon-a.Lon)*t,
	}
}

// OffsetMeters moves p by the given north/east distances using a local
// equirectangular approximation. Used to build corridor fixtures and
// synthetic laps.
func OffsetMeters(p Point, north, east float64) Point {
	dLat := north / EarthRadiusMeters * 180 / math.Pi
	dLon := east / (EarthRadiusMeters * math.Cos(radians(p.Lat))) * 180 / math.Pi
	return Point{Lat: p.Lat + dLat, Lon: p.Lon + dLon}
}
