package usecase

import crerr "github.com/cockroachdb/errors"

// Sentinels marked onto service errors. Callers match them with crerr.Is;
// the HTTP layer maps each onto a status.
var (
	// ErrInvalidInput rejects a request before any store or provider call.
	ErrInvalidInput = crerr.New("invalid input")
	// ErrNotFound reports a report subject with no stored matches.
	ErrNotFound = crerr.New("resource not found")
	// ErrDependencyUnavailable marks provider failures that survived retries
	// or hit an open circuit.
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)
