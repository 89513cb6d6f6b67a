// Package common defines sentinel errors and small helpers shared by the
// tablekeeper client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Account errors, surfaced to the caller.
	ErrDuplicateAccount   = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Anomalies the core absorbs as no-ops. Exported so lower layers can
	// report them and the services can match on them.
	ErrNotFound       = errors.New("not found")
	ErrMissingSession = errors.New("no active session")

	// Durable storage write failed; the in-memory state was left unchanged.
	ErrStorage = errors.New("storage error")

	ErrInvalidConfig = errors.New("invalid config")
)
