package bootstrap

import (
	"net/http"

	"github.com/appleboy/strava-relay/internal/client"
	"github.com/appleboy/strava-relay/internal/config"

	retry "github.com/appleboy/go-httpretry"
)

// httpClients groups the outbound clients. All of them share one pooled
// transport; each has its own per-call timeout.
type httpClients struct {
	platform *http.Client
	notify   *http.Client
	retry    *retry.Client
}

// initializeHTTPClients creates the platform, notifier, and retry clients
func initializeHTTPClients(cfg *config.Config) (httpClients, error) {
	transport := client.CreateOptimizedTransport(cfg.InsecureSkipVerify)

	platform, err := client.NewHTTPClient(cfg.PlatformTimeout, transport)
	if err != nil {
		return httpClients{}, err
	}

	notifyClient, err := client.NewHTTPClient(cfg.NotifyTimeout, transport)
	if err != nil {
		return httpClients{}, err
	}

	retryClient, err := client.NewRetryClient(platform, client.RetryPolicy{
		MaxRetries:   cfg.PlatformMaxRetries,
		InitialDelay: cfg.PlatformRetryDelay,
		MaxDelay:     cfg.PlatformMaxRetryDelay,
	})
	if err != nil {
		return httpClients{}, err
	}

	return httpClients{
		platform: platform,
		notify:   notifyClient,
		retry:    retryClient,
	}, nil
}
