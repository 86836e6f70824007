package ingest

import "errors"

var (
	// ErrValidation indicates a malformed or missing mandatory extraction
	// field. Detected before any write occurs.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence indicates the transactional merge commit failed. The
	// store guarantees full rollback, so no partial writes are visible.
	ErrPersistence = errors.New("persistence failed")
)
