package platform

import (
	"errors"
	"fmt"
)

// ErrUnavailable reports that the host lacks a capability.
var ErrUnavailable = errors.New("capability unavailable")

// CapabilityError records a failed capability query.
// Use errors.As to extract the capability name from wrapped errors.
type CapabilityError struct {
	Capability string // e.g. "webgl", "offline-audio", "matchMedia"
	Err        error
}

// Error returns a human-readable description of the failure.
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability %q: %v", e.Capability, e.Err)
}

// Unwrap returns the underlying error.
func (e *CapabilityError) Unwrap() error {
	return e.Err
}

// Unavailable returns a CapabilityError wrapping ErrUnavailable.
func Unavailable(capability string) error {
	return &CapabilityError{Capability: capability, Err: ErrUnavailable}
}

// Failed wraps err as a failure of capability.
func Failed(capability string, err error) error {
	if err == nil {
		return nil
	}
	return &CapabilityError{Capability: capability, Err: err}
}
