package bootstrap

import (
	"github.com/appleboy/strava-relay/internal/config"
	"github.com/appleboy/strava-relay/internal/core"
	"github.com/appleboy/strava-relay/internal/handlers"
	"github.com/appleboy/strava-relay/internal/services"

	"go.uber.org/zap"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	auth    *handlers.AuthHandler
	webhook *handlers.WebhookHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	cfg *config.Config,
	oauth core.AuthorizationAPI,
	tokenService *services.TokenService,
	eventService *services.EventService,
	m core.Recorder,
	logger *zap.Logger,
) handlerSet {
	return handlerSet{
		auth:    handlers.NewAuthHandler(oauth, tokenService, m, logger),
		webhook: handlers.NewWebhookHandler(cfg.WebhookVerifyToken, eventService, m, logger),
	}
}
