package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrUnknownSession = errors.New("unknown session")
	ErrDuplicateID    = errors.New("duplicate session id")
	ErrCapacity       = errors.New("session capacity exhausted")
)
