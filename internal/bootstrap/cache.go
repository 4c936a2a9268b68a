package bootstrap

import (
	"github.com/appleboy/strava-relay/internal/cache"
	"github.com/appleboy/strava-relay/internal/config"
	"github.com/appleboy/strava-relay/internal/core"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const dedupKeyPrefix = "strava-relay:event:"

// initializeDedupCache selects the backend that suppresses redelivered
// events. Returns nil when de-duplication is disabled.
func initializeDedupCache(
	cfg *config.Config,
	redisClient *redis.Client,
	logger *zap.Logger,
) core.Cache[string] {
	switch {
	case !cfg.EventDedupEnabled:
		logger.Info("event de-duplication disabled")
		return nil
	case cfg.EventDedupStore == config.StoreTypeRedis:
		logger.Info("event de-duplication enabled (store: redis)",
			zap.Duration("ttl", cfg.EventDedupTTL))
		return cache.NewRedisCache[string](redisClient, dedupKeyPrefix)
	default:
		logger.Info("event de-duplication enabled (store: memory)",
			zap.Duration("ttl", cfg.EventDedupTTL))
		return cache.NewMemoryCache[string]()
	}
}
