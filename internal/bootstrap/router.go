package bootstrap

import (
	"net/http"

	"github.com/appleboy/strava-relay/internal/config"
	"github.com/appleboy/strava-relay/internal/core"
	"github.com/appleboy/strava-relay/internal/handlers"
	"github.com/appleboy/strava-relay/internal/metrics"
	"github.com/appleboy/strava-relay/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const sessionName = "oauth_session"

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	s core.CredentialStore,
	dedup core.Cache[string],
	h handlerSet,
	m core.Recorder,
	authLimiter gin.HandlerFunc,
	logger *zap.Logger,
) *gin.Engine {
	setupGinMode(cfg, logger)
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(m))
	r.Use(gin.Logger(), gin.Recovery())

	// Health check endpoint
	r.GET("/health", handlers.HealthHandler(s, dedup))

	setupMetricsEndpoint(r, cfg, logger)

	// Interactive authorization, rate limited per client IP
	auth := r.Group("/auth", authLimiter, sessionMiddleware(cfg))
	{
		auth.GET("/start", h.auth.Start)
		auth.GET("/callback", h.auth.Callback)
	}

	// Platform callbacks
	r.GET(config.WebhookPath, h.webhook.Verify)
	r.POST(config.WebhookPath, h.webhook.Receive)

	return r
}

// sessionMiddleware carries the OAuth state between /auth/start and /auth/callback
func sessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/auth",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(sessionName, sessionStore)
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	switch {
	case !cfg.MetricsEnabled:
		logger.Info("prometheus metrics endpoint disabled")
	case cfg.MetricsToken != "":
		logger.Info("prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		logger.Info("prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config, logger *zap.Logger) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	logger.Info("gin mode", zap.String("mode", mode))
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}
