package bootstrap

import (
	"fmt"

	"github.com/appleboy/strava-relay/internal/config"
	"github.com/appleboy/strava-relay/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// setupRateLimiting returns the limiter guarding the /auth routes, or a
// pass-through handler when rate limiting is disabled. The webhook routes
// are never limited.
func setupRateLimiting(
	cfg *config.Config,
	redisClient *redis.Client,
	logger *zap.Logger,
) (gin.HandlerFunc, error) {
	if !cfg.EnableRateLimit {
		logger.Info("rate limiting disabled")
		return func(c *gin.Context) { c.Next() }, nil
	}

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)
	if storeType == middleware.RateLimitStoreRedis {
		logger.Info("rate limiting enabled (store: redis, shared client)")
	} else {
		logger.Info("rate limiting enabled (store: memory, single instance only)")
	}

	limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.AuthRateLimit,
		StoreType:         storeType,
		RedisClient:       redisClient, // nil for memory store
		CleanupInterval:   cfg.RateLimitCleanupInterval,
		KeyPrefix:         "strava-relay:ratelimit:auth",
		Logger:            logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter for /auth: %w", err)
	}
	return limiter, nil
}
