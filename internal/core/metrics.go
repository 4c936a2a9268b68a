package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Webhook ingestion
	RecordWebhookEvent(objectType, aspectType string)
	RecordWebhookVerification(success bool)
	RecordEventOutcome(outcome string)
	RecordEventProcessing(duration time.Duration)

	// Credentials
	RecordTokenRefresh(success bool)
	RecordOAuthCallback(success bool)

	// Outbound calls
	RecordExternalAPICall(endpoint string, success bool, duration time.Duration)
	RecordNotification(success bool)

	// Subscription reconciliation
	RecordSubscriptionReconcile(result string)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}
