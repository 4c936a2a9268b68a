package strava

import "errors"

var (
	// ErrUnexpectedStatus is returned when the platform answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status from strava")

	// ErrInvalidResponse is returned when a response body cannot be used.
	ErrInvalidResponse = errors.New("invalid response from strava")
)
