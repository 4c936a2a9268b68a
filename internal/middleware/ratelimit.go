package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/appleboy/strava-relay/internal/templates"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterRedis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

// RateLimitStoreType defines the type of rate limit store
type RateLimitStoreType string

const (
	// RateLimitStoreMemory uses in-memory storage (single instance only)
	RateLimitStoreMemory RateLimitStoreType = "memory"
	// RateLimitStoreRedis uses Redis storage (shared across instances)
	RateLimitStoreRedis RateLimitStoreType = "redis"
)

// ErrRedisClientRequired is returned when a Redis store is requested without a client.
var ErrRedisClientRequired = errors.New("redis client is required for the redis rate limit store")

// RateLimitConfig holds the configuration for rate limiting with store support
type RateLimitConfig struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration // only used by the memory store
	StoreType         RateLimitStoreType

	// RedisClient is shared with the rest of the application and must be
	// connected already when StoreType is "redis".
	RedisClient *redis.Client
	KeyPrefix   string

	Logger *zap.Logger
}

// NewRateLimiter creates a per-client-IP rate limiter for Gin
func NewRateLimiter(config RateLimitConfig) (gin.HandlerFunc, error) {
	if config.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("invalid requests per minute: %d", config.RequestsPerMinute)
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "ratelimit"
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  int64(config.RequestsPerMinute),
	}

	var store limiter.Store
	var err error

	switch config.StoreType {
	case RateLimitStoreRedis:
		if config.RedisClient == nil {
			return nil, ErrRedisClientRequired
		}
		store, err = limiterRedis.NewStoreWithOptions(config.RedisClient, limiter.StoreOptions{
			Prefix: config.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}

	case RateLimitStoreMemory:
		fallthrough
	default:
		cleanup := config.CleanupInterval
		if cleanup <= 0 {
			cleanup = limiter.DefaultCleanUpInterval
		}
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          config.KeyPrefix,
			CleanUpInterval: cleanup,
		})
	}

	return limiterMiddleware(limiter.New(store, rate), config.Logger), nil
}

// limiterMiddleware answers 429 once instance's rate is spent and lets the
// request through when the store itself fails.
func limiterMiddleware(instance *limiter.Limiter, logger *zap.Logger) gin.HandlerFunc {
	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			logger.Warn("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			// Browsers get a page, everything else JSON
			if strings.Contains(c.GetHeader("Accept"), "text/html") {
				templates.RenderTempl(c, http.StatusTooManyRequests,
					templates.ErrorPage(templates.ErrorPageProps{
						Error:   "Rate Limit Exceeded",
						Message: "Too many requests. Please try again later.",
					}))
			} else {
				c.JSON(http.StatusTooManyRequests, gin.H{
					"error":             "rate_limit_exceeded",
					"error_description": "Too many requests. Please try again later.",
				})
			}
			c.Abort()
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			logger.Error("rate limiter store failed, allowing request",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			c.Next()
		}),
	)
}

// NewMemoryRateLimiter creates an in-memory rate limiter (single instance)
func NewMemoryRateLimiter(requestsPerMinute int) (gin.HandlerFunc, error) {
	return NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		StoreType:         RateLimitStoreMemory,
		CleanupInterval:   5 * time.Minute,
	})
}
