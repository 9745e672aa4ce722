package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Entity specific errors wrap one of these
// so handlers can map them with errors.Is.
var (
	ErrNotFound     = errors.New("record not found")
	ErrAccessDenied = errors.New("access denied: you don't own this resource")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflicting change")
)

// ErrInvalidID is returned for ids that cannot exist in the store (malformed ObjectIDs).
var ErrInvalidID = fmt.Errorf("invalid id: %w", ErrNotFound)

// Invalid builds a validation error with a human readable reason.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
