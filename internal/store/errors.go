package store

import "errors"

var (
	// ErrStoreIO wraps any failure of the underlying storage.
	// Callers must not proceed with stale or partial data when they see it.
	ErrStoreIO = errors.New("credential store I/O failure")

	// ErrInvalidCredential is returned when a record cannot be keyed.
	ErrInvalidCredential = errors.New("credential requires a positive athlete id")
)
