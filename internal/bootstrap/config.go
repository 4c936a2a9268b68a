package bootstrap

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/appleboy/strava-relay/internal/config"

	"go.uber.org/zap"
)

var errInsecureSessionSecret = errors.New(
	"SESSION_SECRET must be changed from its default in production",
)

// validateConfiguration runs config.Validate and then the checks that only
// matter once the process is about to serve traffic.
func validateConfiguration(cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for name, raw := range map[string]string{
		"BASE_URL":           cfg.BaseURL,
		"NOTIFY_WEBHOOK_URL": cfg.NotifyWebhookURL,
	} {
		if err := requireAbsoluteURL(raw); err != nil {
			return fmt.Errorf("invalid configuration: %s: %w", name, err)
		}
	}

	if cfg.SessionSecret == config.DefaultSessionSecret {
		if cfg.IsProduction {
			return fmt.Errorf("invalid configuration: %w", errInsecureSessionSecret)
		}
		logger.Warn("using the default SESSION_SECRET")
	}

	if cfg.MetricsEnabled && cfg.MetricsToken == "" {
		logger.Warn("metrics endpoint is enabled without METRICS_TOKEN")
	}
	return nil
}

func requireAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}
