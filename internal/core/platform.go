package core

import (
	"context"

	"github.com/appleboy/strava-relay/internal/models"
)

// AuthorizationAPI covers the interactive OAuth flow against the platform.
type AuthorizationAPI interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.Authorization, error)
}

// TokenRefresher mints a new token triple from a refresh token.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenSet, error)
}

// ActivityFetcher loads the detailed representation of one activity.
type ActivityFetcher interface {
	GetActivity(ctx context.Context, accessToken string, activityID int64) (*models.Activity, error)
}

// SubscriptionAPI manages the application's push subscriptions.
type SubscriptionAPI interface {
	ListSubscriptions(ctx context.Context) ([]models.Subscription, error)
	CreateSubscription(ctx context.Context, callbackURL, verifyToken string) (*models.Subscription, error)
}

// Notifier delivers one formatted message to the messaging endpoint.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
