package bootstrap

import (
	"github.com/appleboy/strava-relay/internal/config"
	"github.com/appleboy/strava-relay/internal/core"
	"github.com/appleboy/strava-relay/internal/services"
	"github.com/appleboy/strava-relay/internal/strava"

	"go.uber.org/zap"
)

// initializeServices creates all business services
func initializeServices(
	cfg *config.Config,
	s core.CredentialStore,
	platform *strava.Client,
	notifier core.Notifier,
	dedup core.Cache[string],
	m core.Recorder,
	logger *zap.Logger,
) (*services.TokenService, *services.SubscriptionService, *services.EventService) {
	tokenService := services.NewTokenService(s, platform, m, logger)
	subscriptionService := services.NewSubscriptionService(platform, m, logger)
	eventService := services.NewEventService(
		tokenService,
		platform,
		notifier,
		dedup,
		services.EventServiceConfig{
			ActivityBaseURL: cfg.StravaBaseURL,
			ProcessTimeout:  cfg.EventProcessTimeout,
			DedupTTL:        cfg.EventDedupTTL,
		},
		m,
		logger,
	)

	return tokenService, subscriptionService, eventService
}
