package config

import "errors"

// Sentinel errors for configuration failure modes. Configuration errors
// are fatal at setup time, before any probe is dispatched. Callers
// should use errors.Is() to check for these.
var (
	// ErrInvalidConfig indicates a semantically invalid configuration
	// (non-positive concurrency, zero timeout, unknown mode).
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrMissingRequired indicates a required field was not provided.
	ErrMissingRequired = errors.New("config: missing required field")
)
