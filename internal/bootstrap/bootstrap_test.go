package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/appleboy/strava-relay/internal/cache"
	"github.com/appleboy/strava-relay/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConfig(t *testing.T, platformURL string) *config.Config {
	t.Helper()
	return &config.Config{
		ServerAddr:    "127.0.0.1:0",
		BaseURL:       "https://relay.example.com",
		SessionSecret: "test-session-secret",
		SessionMaxAge: 600,

		DatabaseDriver: config.DatabaseDriverFile,
		DatabaseDSN:    filepath.Join(t.TempDir(), "credentials.toml"),
		DBInitTimeout:  5 * time.Second,

		StravaClientID:     "12345",
		StravaClientSecret: "client-secret",
		StravaBaseURL:      platformURL,
		StravaAPIURL:       platformURL + "/api/v3",
		StravaScopes:       "read,activity:read_all",
		WebhookVerifyToken: "verify-me",

		PlatformTimeout:       2 * time.Second,
		PlatformMaxRetries:    0,
		PlatformRetryDelay:    10 * time.Millisecond,
		PlatformMaxRetryDelay: 50 * time.Millisecond,

		NotifyWebhookURL: platformURL + "/chat",
		NotifyTimeout:    2 * time.Second,

		EventProcessTimeout:  5 * time.Second,
		EventShutdownTimeout: 5 * time.Second,
		EventDedupEnabled:    true,
		EventDedupStore:      config.StoreTypeMemory,
		EventDedupTTL:        time.Hour,

		EnableRateLimit:          true,
		RateLimitStore:           config.StoreTypeMemory,
		AuthRateLimit:            30,
		RateLimitCleanupInterval: time.Minute,

		RedisConnTimeout:      200 * time.Millisecond,
		ServerShutdownTimeout: time.Second,
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	app, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.shutdown() })
	gin.SetMode(gin.TestMode)
	return app
}

func serve(app *Application, method, target, accept string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func TestValidateConfiguration(t *testing.T) {
	cfg := newTestConfig(t, "http://platform.invalid")
	require.NoError(t, validateConfiguration(cfg, zap.NewNop()))

	cfg.NotifyWebhookURL = ""
	cfg.WebhookVerifyToken = ""
	err := validateConfiguration(cfg, zap.NewNop())
	require.ErrorIs(t, err, config.ErrConfigMissing)
	assert.Contains(t, err.Error(), "NOTIFY_WEBHOOK_URL")
	assert.Contains(t, err.Error(), "WEBHOOK_VERIFY_TOKEN")
}

func TestValidateConfiguration_RejectsRelativeURL(t *testing.T) {
	cfg := newTestConfig(t, "http://platform.invalid")
	cfg.NotifyWebhookURL = "hooks.example.com/abc"

	err := validateConfiguration(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFY_WEBHOOK_URL")
}

func TestValidateConfiguration_DefaultSessionSecret(t *testing.T) {
	cfg := newTestConfig(t, "http://platform.invalid")
	cfg.SessionSecret = config.DefaultSessionSecret
	require.NoError(t, validateConfiguration(cfg, zap.NewNop()))

	cfg.IsProduction = true
	require.ErrorIs(t, validateConfiguration(cfg, zap.NewNop()), errInsecureSessionSecret)
}

func TestNew_InvalidConfiguration(t *testing.T) {
	cfg := newTestConfig(t, "http://platform.invalid")
	cfg.StravaClientID = ""

	app, err := New(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, config.ErrConfigMissing)
	assert.Nil(t, app)
}

func TestNew_RedisUnavailable(t *testing.T) {
	cfg := newTestConfig(t, "http://platform.invalid")
	cfg.EventDedupStore = config.StoreTypeRedis
	cfg.RedisAddr = "127.0.0.1:1"

	app, err := New(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
	assert.Nil(t, app)
}

func TestInitializeDedupCache(t *testing.T) {
	cfg := newTestConfig(t, "http://platform.invalid")

	cfg.EventDedupEnabled = false
	assert.Nil(t, initializeDedupCache(cfg, nil, zap.NewNop()))

	cfg.EventDedupEnabled = true
	c := initializeDedupCache(cfg, nil, zap.NewNop())
	require.NotNil(t, c)
	assert.IsType(t, &cache.MemoryCache[string]{}, c)
}

func TestRouter_PublicRoutes(t *testing.T) {
	app := newTestApp(t, newTestConfig(t, "https://www.strava.com"))

	w := serve(app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"dedup_cache":"connected"`)

	w = serve(app, http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=abc123", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hub.challenge":"abc123"}`, w.Body.String())

	w = serve(app, http.MethodPost, "/webhook", "",
		strings.NewReader(`{"object_type":"activity","aspect_type":"update","object_id":1,"owner_id":2}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EVENT_RECEIVED", w.Body.String())

	// Metrics are disabled by default
	w = serve(app, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(app, http.MethodGet, "/auth/start", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/oauth/authorize", loc.Path)
	assert.Equal(t, "12345", loc.Query().Get("client_id"))
	assert.Equal(t, "https://relay.example.com/auth/callback", loc.Query().Get("redirect_uri"))
	assert.Equal(t, "read,activity:read_all", loc.Query().Get("scope"))
	assert.NotEmpty(t, loc.Query().Get("state"))
}

func TestRouter_RateLimitsOnlyAuthRoutes(t *testing.T) {
	cfg := newTestConfig(t, "https://www.strava.com")
	cfg.AuthRateLimit = 2
	app := newTestApp(t, cfg)

	for i := 0; i < 2; i++ {
		w := serve(app, http.MethodGet, "/auth/start", "", nil)
		assert.Equal(t, http.StatusFound, w.Code)
	}
	w := serve(app, http.MethodGet, "/auth/start", "text/html", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate Limit Exceeded")

	for i := 0; i < 5; i++ {
		w := serve(app, http.MethodPost, "/webhook", "", strings.NewReader(`{}`))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	cfg := newTestConfig(t, "https://www.strava.com")
	cfg.EnableRateLimit = false
	cfg.AuthRateLimit = 1
	app := newTestApp(t, cfg)

	for i := 0; i < 3; i++ {
		w := serve(app, http.MethodGet, "/auth/start", "", nil)
		assert.Equal(t, http.StatusFound, w.Code)
	}
}

func TestRouter_MetricsWithToken(t *testing.T) {
	cfg := newTestConfig(t, "https://www.strava.com")
	cfg.MetricsEnabled = true
	cfg.MetricsToken = "scrape-token"
	app := newTestApp(t, cfg)

	w := serve(app, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer scrape-token")
	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_in_flight")
}

// fakePlatform lists no subscriptions and, on create, verifies the callback
// the way the real platform does before answering.
type fakePlatform struct {
	creates  atomic.Int32
	verified atomic.Bool
}

func (p *fakePlatform) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/push_subscriptions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		case http.MethodPost:
			p.creates.Add(1)
			if err := r.ParseForm(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			q := url.Values{}
			q.Set("hub.mode", "subscribe")
			q.Set("hub.verify_token", r.PostForm.Get("verify_token"))
			q.Set("hub.challenge", "challenge-42")
			resp, err := http.Get(r.PostForm.Get("callback_url") + "?" + q.Encode()) //nolint:noctx
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			defer resp.Body.Close()

			var body map[string]string
			if resp.StatusCode != http.StatusOK ||
				json.NewDecoder(resp.Body).Decode(&body) != nil ||
				body["hub.challenge"] != "challenge-42" {
				http.Error(w, "callback url not verifiable", http.StatusBadRequest)
				return
			}
			p.verified.Store(true)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":7}`))
		}
	})
	return mux
}

func TestReconcileAfterListen(t *testing.T) {
	platform := &fakePlatform{}
	platformSrv := httptest.NewServer(platform.handler())
	defer platformSrv.Close()

	cfg := newTestConfig(t, platformSrv.URL)
	ln, err := listen(cfg.ServerAddr)
	require.NoError(t, err)
	cfg.BaseURL = "http://" + ln.Addr().String()

	app := newTestApp(t, cfg)
	go func() {
		if err := app.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("serve: %v", err)
		}
	}()

	reconcileSubscription(context.Background(), app.SubscriptionService, cfg, zap.NewNop())

	assert.EqualValues(t, 1, platform.creates.Load())
	assert.True(t, platform.verified.Load())
}

func TestReconcileFailureIsNotFatal(t *testing.T) {
	platformSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer platformSrv.Close()

	cfg := newTestConfig(t, platformSrv.URL)
	app := newTestApp(t, cfg)

	assert.NotPanics(t, func() {
		reconcileSubscription(context.Background(), app.SubscriptionService, cfg, zap.NewNop())
	})

	w := serve(app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestShutdownClosesStore(t *testing.T) {
	cfg := newTestConfig(t, "https://www.strava.com")
	cfg.DatabaseDriver = config.DatabaseDriverSQLite
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "relay.db")

	app, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, app.shutdown())
	assert.Error(t, app.Store.Health(context.Background()))
}

func runServeJob(t *testing.T, srv *http.Server, ln net.Listener, ctx context.Context) (chan error, chan error) {
	t.Helper()
	failures := make(chan error, 1)
	done := make(chan error, 1)
	job := serveJob(srv, ln, zap.NewNop(), func(err error) { failures <- err })
	go func() { done <- job(ctx) }()
	return failures, done
}

func TestServeJob_FailureStartsShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	srv := &http.Server{Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
	failures, done := runServeJob(t, srv, ln, context.Background())

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve job did not return after Serve failed")
	}
	select {
	case err := <-failures:
		assert.Error(t, err)
	default:
		t.Fatal("failure callback was not invoked")
	}
}

func TestServeJob_CleanStops(t *testing.T) {
	t.Run("server shutdown", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		srv := &http.Server{Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
		failures, done := runServeJob(t, srv, ln, context.Background())

		require.Eventually(t, func() bool {
			resp, err := http.Get("http://" + ln.Addr().String()) //nolint:noctx
			if err != nil {
				return false
			}
			_ = resp.Body.Close()
			return true
		}, 5*time.Second, 10*time.Millisecond)
		require.NoError(t, srv.Shutdown(context.Background()))

		require.NoError(t, <-done)
		assert.Empty(t, failures)
	})

	t.Run("context cancelled", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		srv := &http.Server{Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
		t.Cleanup(func() { _ = srv.Close() })

		ctx, cancel := context.WithCancel(context.Background())
		failures, done := runServeJob(t, srv, ln, ctx)
		cancel()

		require.NoError(t, <-done)
		assert.Empty(t, failures)
	})
}
