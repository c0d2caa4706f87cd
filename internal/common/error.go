// Package common defines shared constants and sentinel errors used across
// the bot's components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrStaleToken is returned when a short token embedded in a button
	// payload no longer resolves to a live object (deleted concurrently,
	// or the process restarted with different storage contents).
	ErrStaleToken = errors.New("stale token")
)
