package strava

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/appleboy/strava-relay/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	httpClient, err := client.NewHTTPClient(2*time.Second, client.CreateOptimizedTransport(false))
	require.NoError(t, err)
	retryClient, err := client.NewRetryClient(httpClient, client.RetryPolicy{
		MaxRetries:   1,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
	})
	require.NoError(t, err)

	return NewClient(Config{
		ClientID:     "123",
		ClientSecret: "shhh",
		RedirectURL:  "https://relay.example.com/auth/callback",
		Scopes:       "read,activity:read_all",
		BaseURL:      srv.URL,
		APIURL:       srv.URL + "/api/v3",
	}, httpClient, retryClient)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestAuthCodeURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	c := newTestClient(t, srv)

	raw := c.AuthCodeURL("state-xyz")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/oauth/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "123", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "https://relay.example.com/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "read,activity:read_all", q.Get("scope"))
	assert.Equal(t, "force", q.Get("approval_prompt"))
	assert.Equal(t, "state-xyz", q.Get("state"))
}

func TestExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "123", r.PostForm.Get("client_id"))
		assert.Equal(t, "shhh", r.PostForm.Get("client_secret"))

		writeJSON(w, http.StatusOK, map[string]any{
			"token_type":    "Bearer",
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"expires_at":    1900000000,
			"expires_in":    21600,
			"athlete": map[string]any{
				"id":        42,
				"firstname": "Kim",
				"lastname":  "Lee",
			},
		})
	}))
	defer srv.Close()

	authz, err := newTestClient(t, srv).Exchange(context.Background(), "the-code")
	require.NoError(t, err)

	assert.Equal(t, int64(42), authz.AthleteID)
	assert.Equal(t, "Kim Lee", authz.DisplayName)
	assert.Equal(t, "access-1", authz.Tokens.AccessToken)
	assert.Equal(t, "refresh-1", authz.Tokens.RefreshToken)
	assert.Equal(t, int64(1900000000), authz.Tokens.ExpiresAt)
}

func TestExchange_MissingAthlete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"token_type":    "Bearer",
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"expires_at":    1900000000,
		})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Exchange(context.Background(), "the-code")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestExchange_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Bad Request"})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Exchange(context.Background(), "bad")
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "refresh-old", r.PostForm.Get("refresh_token"))

		writeJSON(w, http.StatusOK, map[string]any{
			"token_type":    "Bearer",
			"access_token":  "access-new",
			"refresh_token": "refresh-new",
			"expires_at":    1900003600,
			"expires_in":    21600,
		})
	}))
	defer srv.Close()

	ts, err := newTestClient(t, srv).RefreshToken(context.Background(), "refresh-old")
	require.NoError(t, err)
	assert.Equal(t, "access-new", ts.AccessToken)
	assert.Equal(t, "refresh-new", ts.RefreshToken)
	assert.Equal(t, int64(1900003600), ts.ExpiresAt)
}

func TestRefreshToken_KeepsRefreshTokenWhenNotRotated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"token_type":   "Bearer",
			"access_token": "access-new",
			"expires_at":   1900003600,
		})
	}))
	defer srv.Close()

	ts, err := newTestClient(t, srv).RefreshToken(context.Background(), "refresh-old")
	require.NoError(t, err)
	assert.Equal(t, "refresh-old", ts.RefreshToken)
}

func TestRefreshToken_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Authorization Error"})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).RefreshToken(context.Background(), "refresh-old")
	assert.Error(t, err)
}

func TestGetActivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/activities/999", r.URL.Path)
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"id":                   999,
			"name":                 "Morning Run",
			"distance":             10000.0,
			"moving_time":          3600,
			"total_elevation_gain": 120.4,
			"type":                 "Run",
			"sport_type":           "TrailRun",
			"athlete":              map[string]any{"id": 42, "firstname": "Kim"},
		})
	}))
	defer srv.Close()

	activity, err := newTestClient(t, srv).GetActivity(context.Background(), "access-1", 999)
	require.NoError(t, err)
	assert.Equal(t, int64(999), activity.ID)
	assert.InDelta(t, 10000.0, activity.Distance, 0.001)
	assert.Equal(t, int64(3600), activity.MovingTime)
	assert.Equal(t, "TrailRun", activity.SportType)
	assert.Equal(t, "Kim", activity.Athlete.Firstname)
}

func TestGetActivity_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Record Not Found"})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).GetActivity(context.Background(), "access-1", 999)
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "404")
}

func TestListSubscriptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v3/push_subscriptions", r.URL.Path)
		assert.Equal(t, "123", r.URL.Query().Get("client_id"))
		assert.Equal(t, "shhh", r.URL.Query().Get("client_secret"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 7, "application_id": 123, "callback_url": "https://relay.example.com/webhook"},
		})
	}))
	defer srv.Close()

	subs, err := newTestClient(t, srv).ListSubscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, int64(7), subs[0].ID)
	assert.Equal(t, "https://relay.example.com/webhook", subs[0].CallbackURL)
}

func TestCreateSubscription(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "https://relay.example.com/webhook", r.PostForm.Get("callback_url"))
		assert.Equal(t, "verify-me", r.PostForm.Get("verify_token"))
		assert.Equal(t, "123", r.PostForm.Get("client_id"))
		writeJSON(w, http.StatusCreated, map[string]any{"id": 8})
	}))
	defer srv.Close()

	sub, err := newTestClient(t, srv).CreateSubscription(
		context.Background(), "https://relay.example.com/webhook", "verify-me")
	require.NoError(t, err)
	assert.Equal(t, int64(8), sub.ID)
	assert.Equal(t, "https://relay.example.com/webhook", sub.CallbackURL)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCreateSubscription_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Bad Request",
			"errors":  []map[string]any{{"resource": "PushSubscription", "code": "already exists"}},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).CreateSubscription(
		context.Background(), "https://relay.example.com/webhook", "verify-me")
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "already exists")
}
