package store

import "errors"

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrPersistence wraps driver and encoding failures so callers can
	// distinguish storage faults from domain errors.
	ErrPersistence = errors.New("store: persistence failure")
)
