package cache

import "errors"

// Errors shared by every backend. Callers match them with errors.Is.
var (
	// ErrCacheUnavailable wraps backend failures such as a lost Redis connection.
	ErrCacheUnavailable = errors.New("cache: backend unavailable")

	// ErrInvalidValue means a value could not be encoded.
	ErrInvalidValue = errors.New("cache: invalid value")
)
