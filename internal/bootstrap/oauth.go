package bootstrap

import (
	"github.com/appleboy/strava-relay/internal/config"
	"github.com/appleboy/strava-relay/internal/strava"
)

// newStravaClient builds the platform client for OAuth, activity reads, and
// push subscription management.
func newStravaClient(cfg *config.Config, clients httpClients) *strava.Client {
	return strava.NewClient(strava.Config{
		ClientID:     cfg.StravaClientID,
		ClientSecret: cfg.StravaClientSecret,
		RedirectURL:  cfg.OAuthRedirectURL(),
		Scopes:       cfg.StravaScopes,
		BaseURL:      cfg.StravaBaseURL,
		APIURL:       cfg.StravaAPIURL,
	}, clients.platform, clients.retry)
}
