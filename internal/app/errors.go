package service

import "errors"

// Sentinel kinds for orchestrator errors.
var (
	// ErrUnknownSession covers commands against a nonexistent or expired id.
	ErrUnknownSession = errors.New("unknown session")
	// ErrSessionComplete marks a join against a finished session; adapters
	// render it as a plain status, not an error event.
	ErrSessionComplete = errors.New("session already complete")
	// ErrReportNotReady marks a report request before the session finished.
	ErrReportNotReady = errors.New("report not ready")
)
