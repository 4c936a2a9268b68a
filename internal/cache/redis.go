package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appleboy/strava-relay/internal/core"

	"github.com/redis/go-redis/v9"
)

// Compile-time interface check.
var _ core.Cache[struct{}] = (*RedisCache[struct{}])(nil)

// RedisCache implements Cache interface on a shared go-redis client.
// Suitable for multi-instance deployments where cache needs to be shared.
// Values are JSON encoded. The client is owned by the caller and is not
// closed by Close.
type RedisCache[T any] struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisCache creates a cache that namespaces every key with keyPrefix.
func NewRedisCache[T any](client redis.UniversalClient, keyPrefix string) *RedisCache[T] {
	return &RedisCache[T]{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// SetNX stores value only when key is absent, atomically across instances.
func (r *RedisCache[T]) SetNX(ctx context.Context, key string, value T, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	ok, err := r.client.SetNX(ctx, r.keyPrefix+key, data, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return ok, nil
}

// Close is a no-op; the shared client is closed by its owner.
func (r *RedisCache[T]) Close() error {
	return nil
}

// Health pings Redis.
func (r *RedisCache[T]) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}
