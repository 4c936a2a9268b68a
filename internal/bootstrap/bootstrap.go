package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/appleboy/strava-relay/internal/config"
	"github.com/appleboy/strava-relay/internal/core"
	"github.com/appleboy/strava-relay/internal/notify"
	"github.com/appleboy/strava-relay/internal/services"
	"github.com/appleboy/strava-relay/internal/strava"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config
	Logger *zap.Logger

	// Core infrastructure
	Store       core.CredentialStore
	Metrics     core.Recorder
	RedisClient *redis.Client
	DedupCache  core.Cache[string]

	// Outbound
	Strava   *strava.Client
	Notifier *notify.WebhookNotifier

	// Services
	TokenService        *services.TokenService
	SubscriptionService *services.SubscriptionService
	EventService        *services.EventService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes the application and blocks until it has shut down.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	app, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return app.startWithGracefulShutdown(ctx)
}

// New wires every component without opening the listener.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	app := &Application{
		Config: cfg,
		Logger: logger,
	}

	// Phase 1: Validate configuration
	if err := validateConfiguration(cfg, logger); err != nil {
		return nil, err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		_ = app.closeInfrastructure()
		return nil, err
	}

	// Phase 3: Initialize business layer
	if err := app.initializeBusinessLayer(); err != nil {
		_ = app.closeInfrastructure()
		return nil, err
	}

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(); err != nil {
		_ = app.closeInfrastructure()
		return nil, err
	}

	return app, nil
}

// initializeInfrastructure sets up the store, metrics, Redis, and dedup cache
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	app.Store, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}
	app.Logger.Info("credential store ready", zap.String("driver", app.Config.DatabaseDriver))

	app.Metrics = initializeMetrics(app.Config, app.Logger)

	app.RedisClient, err = initializeRedisClient(ctx, app.Config, app.Logger)
	if err != nil {
		return err
	}

	app.DedupCache = initializeDedupCache(app.Config, app.RedisClient, app.Logger)
	return nil
}

// initializeBusinessLayer sets up outbound clients and services
func (app *Application) initializeBusinessLayer() error {
	clients, err := initializeHTTPClients(app.Config)
	if err != nil {
		return err
	}

	app.Strava = newStravaClient(app.Config, clients)
	app.Notifier = notify.NewWebhookNotifier(app.Config.NotifyWebhookURL, clients.notify)

	app.TokenService,
		app.SubscriptionService,
		app.EventService = initializeServices(
		app.Config,
		app.Store,
		app.Strava,
		app.Notifier,
		app.DedupCache,
		app.Metrics,
		app.Logger,
	)
	return nil
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() error {
	app.HandlerSet = initializeHandlers(
		app.Config,
		app.Strava,
		app.TokenService,
		app.EventService,
		app.Metrics,
		app.Logger,
	)

	authLimiter, err := setupRateLimiting(app.Config, app.RedisClient, app.Logger)
	if err != nil {
		return err
	}

	app.Router = setupRouter(
		app.Config,
		app.Store,
		app.DedupCache,
		app.HandlerSet,
		app.Metrics,
		authLimiter,
		app.Logger,
	)

	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// startWithGracefulShutdown binds the listener, serves, reconciles the push
// subscription, and waits for a termination signal, ctx cancellation, or a
// server failure. A server failure is returned once shutdown has finished.
func (app *Application) startWithGracefulShutdown(ctx context.Context) error {
	ln, err := listen(app.Config.ServerAddr)
	if err != nil {
		_ = app.closeInfrastructure()
		return fmt.Errorf("failed to listen on %s: %w", app.Config.ServerAddr, err)
	}
	app.Logger.Info("strava relay listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("callback_url", app.Config.CallbackURL()),
		zap.String("authorize_url", app.Config.BaseURL+"/auth/start"),
	)

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	m := graceful.NewManagerWithContext(ctx)

	serveErr := make(chan error, 1)
	onServeFailure := func(err error) {
		serveErr <- err
		stop()
	}

	// Add jobs
	addServerRunningJob(m, app.Server, ln, app.Logger, onServeFailure)
	addReconcileJob(m, app.SubscriptionService, app.Config, app.Logger)
	addShutdownJob(m, app)

	// Wait for graceful shutdown
	<-m.Done()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	default:
		return nil
	}
}
