package resolver

import (
	"context"

	"go-fieldtime/internal/geofence"
)

// LocationProvider yields the device's current fix. Implementations must
// honour ctx cancellation; the resolver bounds every call.
type LocationProvider interface {
	CurrentFix(ctx context.Context) (geofence.Fix, error)
}

type LocationFunc func(ctx context.Context) (geofence.Fix, error)

func (f LocationFunc) CurrentFix(ctx context.Context) (geofence.Fix, error) {
	return f(ctx)
}

// StaticLocation serves a fix the client already sent. A nil fix means no
// location is known.
func StaticLocation(fix *geofence.Fix) LocationProvider {
	return LocationFunc(func(context.Context) (geofence.Fix, error) {
		if fix == nil {
			return geofence.Fix{}, ErrNoFix
		}
		return *fix, nil
	})
}
