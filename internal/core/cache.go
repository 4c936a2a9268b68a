package core

import (
	"context"
	"time"
)

// Cache is a TTL key-value store. The relay uses it to remember which
// webhook deliveries were already claimed; SetNX is the claim.
type Cache[T any] interface {
	// SetNX stores value only if key holds no live value and reports
	// whether it did. It is atomic with respect to other SetNX calls.
	SetNX(ctx context.Context, key string, value T, ttl time.Duration) (bool, error)

	// Health reports whether the backend can serve requests.
	Health(ctx context.Context) error

	Close() error
}
