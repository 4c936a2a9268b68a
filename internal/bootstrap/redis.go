package bootstrap

import (
	"context"
	"fmt"

	"github.com/appleboy/strava-relay/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func redisOptions(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: cfg.RedisConnTimeout,
	}
}

// initializeRedisClient returns the client shared by the /auth rate limiter
// and the event de-duplication cache, or nil when neither uses Redis.
func initializeRedisClient(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
) (*redis.Client, error) {
	if !cfg.NeedsRedis() {
		return nil, nil //nolint:nilnil // no redis-backed feature enabled
	}

	rdb := redis.NewClient(redisOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, cfg.RedisConnTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s (db %d): %w", cfg.RedisAddr, cfg.RedisDB, err)
	}

	logger.Info("redis connected",
		zap.String("addr", cfg.RedisAddr),
		zap.Int("db", cfg.RedisDB),
		zap.Bool("rate_limit", cfg.EnableRateLimit && cfg.RateLimitStore == config.StoreTypeRedis),
		zap.Bool("event_dedup", cfg.EventDedupEnabled && cfg.EventDedupStore == config.StoreTypeRedis),
	)
	return rdb, nil
}
