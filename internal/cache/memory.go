package cache

import (
	"context"
	"sync"
	"time"

	"github.com/appleboy/strava-relay/internal/core"
)

// sweepInterval bounds how often writes scan for expired entries.
const sweepInterval = time.Minute

type cacheItem[T any] struct {
	value     T
	expiresAt time.Time
}

func (i cacheItem[T]) expired(now time.Time) bool {
	return !now.Before(i.expiresAt)
}

// Compile-time interface check.
var _ core.Cache[struct{}] = (*MemoryCache[struct{}])(nil)

// MemoryCache implements Cache interface with in-memory storage.
// Expired entries are hidden on read and swept on write at most once per
// sweepInterval. Suitable for single-instance deployments.
type MemoryCache[T any] struct {
	mu        sync.RWMutex
	items     map[string]cacheItem[T]
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryCache creates a new memory cache instance.
func NewMemoryCache[T any]() *MemoryCache[T] {
	return &MemoryCache[T]{
		items: make(map[string]cacheItem[T]),
		now:   time.Now,
	}
}

// SetNX stores value only when key is absent or expired.
func (m *MemoryCache[T]) SetNX(_ context.Context, key string, value T, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if item, exists := m.items[key]; exists && !item.expired(now) {
		return false, nil
	}

	m.sweepLocked(now)
	m.items[key] = cacheItem[T]{value: value, expiresAt: now.Add(ttl)}
	return true, nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryCache[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close cleans up resources.
func (m *MemoryCache[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]cacheItem[T])
	return nil
}

// Health checks if the cache is healthy (always true for memory cache).
func (m *MemoryCache[T]) Health(_ context.Context) error {
	return nil
}

// sweepLocked must be called with mu held for writing.
func (m *MemoryCache[T]) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now
	for key, item := range m.items {
		if item.expired(now) {
			delete(m.items, key)
		}
	}
}
