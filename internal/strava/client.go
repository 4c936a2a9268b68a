package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/appleboy/strava-relay/internal/core"
	"github.com/appleboy/strava-relay/internal/models"

	retry "github.com/appleboy/go-httpretry"
	"golang.org/x/oauth2"
)

var (
	_ core.AuthorizationAPI = (*Client)(nil)
	_ core.TokenRefresher   = (*Client)(nil)
	_ core.ActivityFetcher  = (*Client)(nil)
	_ core.SubscriptionAPI  = (*Client)(nil)
)

// Config contains the application credentials and endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       string // comma separated, sent as a single scope value
	BaseURL      string // e.g. https://www.strava.com
	APIURL       string // e.g. https://www.strava.com/api/v3
}

// Client talks to the Strava OAuth and REST endpoints.
type Client struct {
	oauth        *oauth2.Config
	apiURL       string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	retryClient  *retry.Client
}

// NewClient creates a Strava client. httpClient bounds every single call;
// retryClient is used for the idempotent subscription endpoints.
func NewClient(cfg Config, httpClient *http.Client, retryClient *retry.Client) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{cfg.Scopes},
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.BaseURL + "/oauth/authorize",
				TokenURL:  cfg.BaseURL + "/oauth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiURL:       cfg.APIURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   httpClient,
		retryClient:  retryClient,
	}
}

// AuthCodeURL returns the authorize URL, forcing the approval prompt so
// re-authorizations always yield a fresh grant.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "force"))
}

// Exchange trades an authorization code for tokens and the athlete summary.
func (c *Client) Exchange(ctx context.Context, code string) (*models.Authorization, error) {
	tok, err := c.oauth.Exchange(c.oauthContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	athlete, err := athleteFromToken(tok)
	if err != nil {
		return nil, err
	}

	return &models.Authorization{
		AthleteID:   athlete.ID,
		DisplayName: athlete.FullName(),
		Tokens:      tokenSet(tok),
	}, nil
}

// RefreshToken mints a new token triple from refreshToken.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenSet, error) {
	src := c.oauth.TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access_token", ErrInvalidResponse)
	}

	ts := tokenSet(tok)
	return &ts, nil
}

// GetActivity fetches the detailed representation of an activity.
func (c *Client) GetActivity(
	ctx context.Context,
	accessToken string,
	activityID int64,
) (*models.Activity, error) {
	endpoint := c.apiURL + "/activities/" + strconv.FormatInt(activityID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get activity %d: %w", activityID, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var activity models.Activity
	if err := json.NewDecoder(resp.Body).Decode(&activity); err != nil {
		return nil, fmt.Errorf("%w: decode activity: %v", ErrInvalidResponse, err)
	}
	return &activity, nil
}

// ListSubscriptions returns the push subscriptions of this application.
func (c *Client) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	query := url.Values{}
	query.Set("client_id", c.clientID)
	query.Set("client_secret", c.clientSecret)

	resp, err := c.retryClient.Get(ctx, c.apiURL+"/push_subscriptions?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var subs []models.Subscription
	if err := json.NewDecoder(resp.Body).Decode(&subs); err != nil {
		return nil, fmt.Errorf("%w: decode subscriptions: %v", ErrInvalidResponse, err)
	}
	return subs, nil
}

// CreateSubscription registers callbackURL for push events.
// The platform verifies the callback with a GET challenge before answering.
func (c *Client) CreateSubscription(
	ctx context.Context,
	callbackURL, verifyToken string,
) (*models.Subscription, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("callback_url", callbackURL)
	form.Set("verify_token", verifyToken)

	resp, err := c.retryClient.Post(
		ctx,
		c.apiURL+"/push_subscriptions",
		retry.WithBody("application/x-www-form-urlencoded", strings.NewReader(form.Encode())),
	)
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var sub models.Subscription
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return nil, fmt.Errorf("%w: decode subscription: %v", ErrInvalidResponse, err)
	}
	if sub.CallbackURL == "" {
		sub.CallbackURL = callbackURL
	}
	return &sub, nil
}

// oauthContext makes x/oauth2 use the bounded client for token calls.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	if c.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	bodyPreview := string(body)
	if len(bodyPreview) > 200 {
		bodyPreview = bodyPreview[:200] + "..."
	}
	return fmt.Errorf("%w: %s - %s", ErrUnexpectedStatus, resp.Status, bodyPreview)
}

// tokenSet prefers the absolute expires_at the platform returns over the
// expiry x/oauth2 derives from expires_in.
func tokenSet(tok *oauth2.Token) models.TokenSet {
	ts := models.TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry.Unix(),
	}
	if v, ok := numberExtra(tok.Extra("expires_at")); ok {
		ts.ExpiresAt = v
	}
	return ts
}

func athleteFromToken(tok *oauth2.Token) (*models.Athlete, error) {
	raw, ok := tok.Extra("athlete").(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: token response has no athlete", ErrInvalidResponse)
	}

	id, ok := numberExtra(raw["id"])
	if !ok || id <= 0 {
		return nil, fmt.Errorf("%w: token response has no athlete id", ErrInvalidResponse)
	}

	firstname, _ := raw["firstname"].(string)
	lastname, _ := raw["lastname"].(string)
	return &models.Athlete{ID: id, Firstname: firstname, Lastname: lastname}, nil
}

// numberExtra converts a decoded JSON number to int64.
func numberExtra(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
