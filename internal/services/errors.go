package services

import "errors"

var (
	// ErrNoCredential means the athlete never completed authorization
	// or the record was lost.
	ErrNoCredential = errors.New("no stored credential for athlete")

	// ErrRefreshFailed means the token endpoint rejected the refresh or was
	// unreachable. The stored record is left unchanged.
	ErrRefreshFailed = errors.New("access token refresh failed")

	// ErrUpstreamFetchFailed means the activity detail could not be loaded.
	ErrUpstreamFetchFailed = errors.New("activity fetch failed")

	// ErrDispatchFailed means the messaging endpoint rejected the message
	// or was unreachable.
	ErrDispatchFailed = errors.New("message dispatch failed")
)
