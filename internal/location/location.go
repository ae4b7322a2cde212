// Package location abstracts how a collection coordinate is captured.
// Clients either report a device fix (which can fail when the platform
// permission was refused) or pin a coordinate manually on a map. Permission
// denial is surfaced as a distinct error so callers can offer a retry
// instead of absorbing the failure silently.
package location

import (
	"context"
	"errors"

	"github.com/labcare/booking-gateway/internal/model"
)

// ErrPermissionDenied is returned when the client device refused the
// location permission. The draft is left unchanged; the caller should
// present a retry option or fall back to a manual pin.
var ErrPermissionDenied = errors.New("location permission denied")

// ErrNoFix is returned when the device granted permission but produced no
// usable coordinate.
var ErrNoFix = errors.New("no location fix available")

// Provider acquires the current coordinate. Implementations may block while
// the device resolves a fix, so a context is taken for cancellation.
type Provider interface {
	AcquireCurrentLocation(ctx context.Context) (model.Location, error)
}

// DeviceReport is the Provider used by the HTTP surface: the client device
// runs the platform permission prompt itself and reports the outcome. A
// report with Denied set reproduces the permission failure on the gateway
// side, where it is surfaced rather than swallowed.
type DeviceReport struct {
	Coordinate *model.Location
	Denied     bool
}

// AcquireCurrentLocation returns the reported coordinate, ErrPermissionDenied
// when the device declined the prompt, or ErrNoFix when nothing was reported.
func (r DeviceReport) AcquireCurrentLocation(_ context.Context) (model.Location, error) {
	if r.Denied {
		return model.Location{}, ErrPermissionDenied
	}
	if r.Coordinate == nil {
		return model.Location{}, ErrNoFix
	}
	return *r.Coordinate, nil
}

// ManualPin wraps a user-supplied coordinate, e.g. a map tap. Manual pins
// are accepted unconditionally; no bounds or geocoding validation is
// performed.
func ManualPin(lat, lng float64) model.Location {
	return model.Location{Latitude: lat, Longitude: lng}
}
