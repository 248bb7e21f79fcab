// Package geofence decides whether a location fix is inside a job site's
// circular boundary. It is pure: no I/O, no clocks.
package geofence

import (
	"errors"
	"math"
)

const earthRadiusMeters = 6371000.0

var ErrInvalidFix = errors.New("invalid location fix")

type Point struct {
	Latitude  float64
	Longitude float64
}

// Fix is a device location reading. AccuracyMeters is the reported horizontal
// accuracy radius.
type Fix struct {
	Point
	AccuracyMeters float64
}

type Result struct {
	DistanceMeters        float64
	EffectiveRadiusMeters float64
	Within                bool
}

func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180 &&
		!math.IsNaN(p.Latitude) && !math.IsNaN(p.Longitude)
}

func (f Fix) Validate() error {
	if !f.Point.Valid() || f.AccuracyMeters < 0 || math.IsNaN(f.AccuracyMeters) {
		return ErrInvalidFix
	}
	return nil
}

// Distance is the haversine great-circle distance in meters.
func Distance(a, b Point) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLng := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Evaluate widens the configured radius by the fix accuracy, so a coarse fix
// near the boundary is given the benefit of the doubt.
func Evaluate(site Point, radiusMeters float64, fix Fix) Result {
	d := Distance(site, fix.Point)
	effective := radiusMeters + math.Max(0, fix.AccuracyMeters)
	return Result{
		DistanceMeters:        d,
		EffectiveRadiusMeters: effective,
		Within:                d <= effective,
	}
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
