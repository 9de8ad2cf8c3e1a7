package funcserver

import "errors"

var (
	// ErrConfigFrozen is returned by Builder setters once the server owning
	// the builder has been constructed.
	ErrConfigFrozen = errors.New("funcserver: configuration is frozen")

	// ErrInvalidConfig is returned when resolved values are out of range.
	ErrInvalidConfig = errors.New("funcserver: invalid configuration")
)
