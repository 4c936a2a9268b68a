package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appleboy/strava-relay/internal/core"
	"github.com/appleboy/strava-relay/internal/models"

	"go.uber.org/zap"
)

// refreshMarginSeconds is the remaining lifetime below which a stored access
// token is refreshed before use.
const refreshMarginSeconds = 300

// TokenService hands out valid access tokens, refreshing them when they are
// expired or about to expire, and records new authorizations.
//
// Two concurrent refreshes for the same athlete are not serialized: both
// succeed against the platform and the last Upsert wins.
type TokenService struct {
	store     core.CredentialStore
	refresher core.TokenRefresher
	metrics   core.Recorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewTokenService creates a token service.
func NewTokenService(
	store core.CredentialStore,
	refresher core.TokenRefresher,
	metrics core.Recorder,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		store:     store,
		refresher: refresher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// GetValidAccessToken returns an access token for athleteID that is valid for
// at least another five minutes.
func (s *TokenService) GetValidAccessToken(ctx context.Context, athleteID int64) (string, error) {
	cred, err := s.ValidCredential(ctx, athleteID)
	if err != nil {
		return "", err
	}
	return cred.AccessToken, nil
}

// ValidCredential returns the stored record for athleteID, refreshed and
// persisted first when its access token is within the refresh margin.
func (s *TokenService) ValidCredential(ctx context.Context, athleteID int64) (*models.Credential, error) {
	cred, found, err := s.store.Get(ctx, athleteID)
	if err != nil {
		s.metrics.RecordDatabaseQueryError("get_credential")
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: athlete %d", ErrNoCredential, athleteID)
	}

	if cred.ExpiresAt-s.now().Unix() > refreshMarginSeconds {
		return cred, nil
	}

	start := time.Now()
	ts, err := s.refresher.RefreshToken(ctx, cred.RefreshToken)
	s.metrics.RecordExternalAPICall("refresh_token", err == nil, time.Since(start))
	if err == nil && ts.AccessToken == "" {
		err = errors.New("empty access token in refresh response")
	}
	if err != nil {
		s.metrics.RecordTokenRefresh(false)
		return nil, fmt.Errorf("%w: athlete %d: %v", ErrRefreshFailed, athleteID, err)
	}

	// Some responses omit the refresh token when it did not rotate.
	if ts.RefreshToken == "" {
		ts.RefreshToken = cred.RefreshToken
	}

	updated := cred.WithTokens(*ts)
	if err := s.store.Upsert(ctx, &updated); err != nil {
		s.metrics.RecordTokenRefresh(false)
		s.metrics.RecordDatabaseQueryError("upsert_credential")
		return nil, err
	}
	s.metrics.RecordTokenRefresh(true)

	s.logger.Info("refreshed access token",
		zap.Int64("athlete_id", athleteID),
		zap.Int64("expires_at", updated.ExpiresAt),
	)
	return &updated, nil
}

// SaveAuthorization stores the outcome of an OAuth code exchange, replacing
// any previous record for the athlete.
func (s *TokenService) SaveAuthorization(ctx context.Context, authz *models.Authorization) error {
	cred := models.Credential{
		AthleteID:   authz.AthleteID,
		DisplayName: authz.DisplayName,
	}.WithTokens(authz.Tokens)

	if err := s.store.Upsert(ctx, &cred); err != nil {
		s.metrics.RecordDatabaseQueryError("upsert_credential")
		return err
	}

	s.logger.Info("stored authorization",
		zap.Int64("athlete_id", authz.AthleteID),
		zap.String("display_name", authz.DisplayName),
	)
	return nil
}
