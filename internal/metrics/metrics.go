package metrics

import (
	"sync"
	"time"

	"github.com/appleboy/strava-relay/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure Metrics implements Recorder interface at compile time
var _ core.Recorder = (*Metrics)(nil)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Webhook Metrics
	WebhookEventsTotal          *prometheus.CounterVec
	WebhookVerificationsTotal   *prometheus.CounterVec
	EventOutcomesTotal          *prometheus.CounterVec
	EventProcessingDuration     prometheus.Histogram
	SubscriptionReconcilesTotal *prometheus.CounterVec
	NotificationsTotal          *prometheus.CounterVec
	ExternalAPIDuration         *prometheus.HistogramVec
	ExternalAPICallsTotal       *prometheus.CounterVec
	TokenRefreshesTotal         *prometheus.CounterVec
	OAuthCallbacksTotal         *prometheus.CounterVec
	DatabaseQueryErrorsTotal    *prometheus.CounterVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics registered on the default registry
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) core.Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		WebhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_events_total",
				Help: "Total number of webhook events received",
			},
			[]string{"object_type", "aspect_type"},
		),
		WebhookVerificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_verifications_total",
				Help: "Total number of webhook verification challenges",
			},
			[]string{"result"}, // success, error
		),
		EventOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_event_outcomes_total",
				Help: "Terminal outcome of each processed webhook event",
			},
			[]string{"outcome"},
		),
		EventProcessingDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "webhook_event_processing_duration_seconds",
				Help:    "Time from acknowledgment to terminal outcome of an event",
				Buckets: prometheus.DefBuckets,
			},
		),
		SubscriptionReconcilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strava_subscription_reconcile_total",
				Help: "Total number of push subscription reconciliations",
			},
			[]string{"result"}, // exists, created, error
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Total number of messages dispatched to the messaging endpoint",
			},
			[]string{"result"},
		),
		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "external_api_duration_seconds",
				Help:    "Duration of calls to the activity platform",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint"},
		),
		ExternalAPICallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_calls_total",
				Help: "Total number of calls to the activity platform",
			},
			[]string{"endpoint", "result"},
		),
		TokenRefreshesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strava_token_refresh_total",
				Help: "Total number of access token refreshes",
			},
			[]string{"result"},
		),
		OAuthCallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth_callback_total",
				Help: "Total number of OAuth authorization callbacks",
			},
			[]string{"result"},
		),
		DatabaseQueryErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of credential store errors",
			},
			[]string{"operation"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),
	}
}

func result(success bool) string {
	if success {
		return resultSuccess
	}
	return resultError
}

// RecordWebhookEvent records an inbound event before any processing.
func (m *Metrics) RecordWebhookEvent(objectType, aspectType string) {
	m.WebhookEventsTotal.WithLabelValues(objectType, aspectType).Inc()
}

// RecordWebhookVerification records a verification challenge result.
func (m *Metrics) RecordWebhookVerification(success bool) {
	m.WebhookVerificationsTotal.WithLabelValues(result(success)).Inc()
}

// RecordEventOutcome records how an event's processing ended.
func (m *Metrics) RecordEventOutcome(outcome string) {
	m.EventOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordEventProcessing records the downstream processing time of an event.
func (m *Metrics) RecordEventProcessing(duration time.Duration) {
	m.EventProcessingDuration.Observe(duration.Seconds())
}

// RecordTokenRefresh records token refresh attempt
func (m *Metrics) RecordTokenRefresh(success bool) {
	m.TokenRefreshesTotal.WithLabelValues(result(success)).Inc()
}

// RecordOAuthCallback records OAuth callback
func (m *Metrics) RecordOAuthCallback(success bool) {
	m.OAuthCallbacksTotal.WithLabelValues(result(success)).Inc()
}

// RecordExternalAPICall records external API call duration and result
func (m *Metrics) RecordExternalAPICall(endpoint string, success bool, duration time.Duration) {
	m.ExternalAPICallsTotal.WithLabelValues(endpoint, result(success)).Inc()
	m.ExternalAPIDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordNotification records a dispatch to the messaging endpoint.
func (m *Metrics) RecordNotification(success bool) {
	m.NotificationsTotal.WithLabelValues(result(success)).Inc()
}

// RecordSubscriptionReconcile records the reconciler result: exists, created or error.
func (m *Metrics) RecordSubscriptionReconcile(result string) {
	m.SubscriptionReconcilesTotal.WithLabelValues(result).Inc()
}

// RecordDatabaseQueryError records a credential store error
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
