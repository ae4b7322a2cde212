// Package repository persists the gateway's booking history ledger. The
// sentinel errors here let handlers distinguish failure scenarios without
// inspecting SQL details: ErrNotFound maps to HTTP 404 and ErrForbidden,
// returned when a booking belongs to a different user, maps to 403.
package repository

import "errors"

// ErrNotFound is returned when no booking matches the requested id.
var ErrNotFound = errors.New("booking not found")

// ErrForbidden is returned when the caller requests a booking recorded
// for a different user.
var ErrForbidden = errors.New("forbidden")
