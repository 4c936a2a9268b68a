package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	m := Init(true)
	assert.NotNil(t, m)

	metrics, ok := m.(*Metrics)
	require.True(t, ok, "Init(true) should return *Metrics")
	assert.NotNil(t, metrics.WebhookEventsTotal)
	assert.NotNil(t, metrics.HTTPRequestsTotal)

	// Registration happens once; a second call must not panic.
	assert.Same(t, m, Init(true))
}

func TestInitNoop(t *testing.T) {
	m := Init(false)
	_, ok := m.(*NoopMetrics)
	assert.True(t, ok, "Init(false) should return *NoopMetrics")

	// Every method is callable.
	m.RecordWebhookEvent("activity", "create")
	m.RecordWebhookVerification(true)
	m.RecordEventOutcome("notified")
	m.RecordEventProcessing(time.Second)
	m.RecordTokenRefresh(false)
	m.RecordOAuthCallback(true)
	m.RecordExternalAPICall("get_activity", true, time.Millisecond)
	m.RecordNotification(true)
	m.RecordSubscriptionReconcile("created")
	m.RecordDatabaseQueryError("get")
}

func TestRecorders(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordWebhookEvent("activity", "create")
	m.RecordWebhookEvent("activity", "create")
	m.RecordWebhookEvent("athlete", "update")
	assert.InDelta(t, 2, testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("activity", "create")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("athlete", "update")), 0)

	m.RecordWebhookVerification(true)
	m.RecordWebhookVerification(false)
	assert.InDelta(t, 1, testutil.ToFloat64(m.WebhookVerificationsTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.WebhookVerificationsTotal.WithLabelValues("error")), 0)

	m.RecordEventOutcome("notified")
	assert.InDelta(t, 1, testutil.ToFloat64(m.EventOutcomesTotal.WithLabelValues("notified")), 0)

	m.RecordTokenRefresh(false)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TokenRefreshesTotal.WithLabelValues("error")), 0)

	m.RecordOAuthCallback(true)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OAuthCallbacksTotal.WithLabelValues("success")), 0)

	m.RecordExternalAPICall("get_activity", false, 100*time.Millisecond)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ExternalAPICallsTotal.WithLabelValues("get_activity", "error")), 0)

	m.RecordNotification(true)
	assert.InDelta(t, 1, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("success")), 0)

	m.RecordSubscriptionReconcile("exists")
	assert.InDelta(t, 1, testutil.ToFloat64(m.SubscriptionReconcilesTotal.WithLabelValues("exists")), 0)

	m.RecordDatabaseQueryError("upsert")
	assert.InDelta(t, 1, testutil.ToFloat64(m.DatabaseQueryErrorsTotal.WithLabelValues("upsert")), 0)
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(m))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/health", "/metrics", "/nope"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unknown", "404")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.HTTPRequestsInFlight), 0)
}

func TestHTTPMetricsMiddleware_Noop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(HTTPMetricsMiddleware(NewNoopMetrics()))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
