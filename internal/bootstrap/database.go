package bootstrap

import (
	"context"
	"fmt"

	"github.com/appleboy/strava-relay/internal/config"
	"github.com/appleboy/strava-relay/internal/core"
	"github.com/appleboy/strava-relay/internal/metrics"
	"github.com/appleboy/strava-relay/internal/store"

	"go.uber.org/zap"
)

// initializeDatabase opens the credential store and migrates its schema
func initializeDatabase(ctx context.Context, cfg *config.Config) (core.CredentialStore, error) {
	// Create timeout context for this specific operation
	ctx, cancel := context.WithTimeout(ctx, cfg.DBInitTimeout)
	defer cancel()

	s, err := store.New(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

// initializeMetrics returns the Prometheus recorder or a no-op one
func initializeMetrics(cfg *config.Config, logger *zap.Logger) core.Recorder {
	m := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		logger.Info("prometheus metrics initialized")
	} else {
		logger.Info("metrics disabled (using noop implementation)")
	}
	return m
}
