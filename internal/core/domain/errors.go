package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTrackingDisabled indicates tracking is switched off for the
	// session or for an individual marker.
	ErrTrackingDisabled = errors.New("tracking disabled")

	// ErrDocumentUnavailable indicates the tracked document could not
	// be read. Tracking continues best-effort; the next relocation run
	// will reconcile.
	ErrDocumentUnavailable = errors.New("document unavailable")

	// ErrSessionClosed indicates the tracking session has been disposed.
	ErrSessionClosed = errors.New("tracking session closed")
)
