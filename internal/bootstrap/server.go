package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/appleboy/strava-relay/internal/config"
	"github.com/appleboy/strava-relay/internal/services"

	"github.com/appleboy/graceful"
	"go.uber.org/zap"
)

// reconcileTimeout bounds the whole reconcile attempt including retries.
const reconcileTimeout = 2 * time.Minute

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// listen binds addr. It must succeed before the reconciler runs since the
// platform verifies the callback URL while the subscription is created.
func listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

// addServerRunningJob serves HTTP on an already bound listener. A Serve
// failure is handed to onFailure, which starts shutdown.
func addServerRunningJob(
	m *graceful.Manager,
	srv *http.Server,
	ln net.Listener,
	logger *zap.Logger,
	onFailure func(error),
) {
	m.AddRunningJob(serveJob(srv, ln, logger, onFailure))
}

func serveJob(
	srv *http.Server,
	ln net.Listener,
	logger *zap.Logger,
	onFailure func(error),
) graceful.RunningJob {
	return func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Serve(ln)
		}()

		select {
		case err := <-errCh:
			if err == nil || errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			logger.Error("http server stopped", zap.Error(err))
			onFailure(err)
			return err
		case <-ctx.Done():
			return nil
		}
	}
}

// addReconcileJob ensures the push subscription exists. Failures are logged
// and the service keeps running.
func addReconcileJob(
	m *graceful.Manager,
	subscriptions *services.SubscriptionService,
	cfg *config.Config,
	logger *zap.Logger,
) {
	m.AddRunningJob(func(ctx context.Context) error {
		reconcileSubscription(ctx, subscriptions, cfg, logger)
		return nil
	})
}

func reconcileSubscription(
	ctx context.Context,
	subscriptions *services.SubscriptionService,
	cfg *config.Config,
	logger *zap.Logger,
) {
	ctx, cancel := context.WithTimeout(ctx, reconcileTimeout)
	defer cancel()

	if err := subscriptions.Reconcile(ctx, cfg.CallbackURL(), cfg.WebhookVerifyToken); err != nil {
		logger.Error("push subscription reconciliation failed",
			zap.String("callback_url", cfg.CallbackURL()),
			zap.Error(err),
		)
	}
}

// addShutdownJob stops the application in dependency order
func addShutdownJob(m *graceful.Manager, app *Application) {
	m.AddShutdownJob(func() error {
		return app.shutdown()
	})
}

// shutdown stops accepting requests, drains in-flight events, then
// releases the infrastructure they were using.
func (app *Application) shutdown() error {
	var errs []error

	app.Logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.ServerShutdownTimeout)
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Logger.Error("server forced to shutdown", zap.Error(err))
		errs = append(errs, err)
	}
	cancel()

	app.Logger.Info("waiting for in-flight events")
	ctx, cancel = context.WithTimeout(context.Background(), app.Config.EventShutdownTimeout)
	if err := app.EventService.Shutdown(ctx); err != nil {
		app.Logger.Warn("abandoning in-flight events", zap.Error(err))
		errs = append(errs, err)
	}
	cancel()

	if err := app.closeInfrastructure(); err != nil {
		errs = append(errs, err)
	}

	app.Logger.Info("server exited")
	return errors.Join(errs...)
}

// closeInfrastructure releases whatever was opened so far
func (app *Application) closeInfrastructure() error {
	var errs []error

	if app.DedupCache != nil {
		if err := app.DedupCache.Close(); err != nil {
			app.Logger.Error("error closing dedup cache", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Logger.Error("error closing redis client", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if app.Store != nil {
		if err := app.Store.Close(); err != nil {
			app.Logger.Error("error closing credential store", zap.Error(err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
