package metrics

import (
	"time"

	"github.com/appleboy/strava-relay/internal/core"
)

// NoopMetrics is a no-operation implementation of Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ core.Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() core.Recorder {
	return &NoopMetrics{}
}

// Webhook ingestion - noop implementations
func (n *NoopMetrics) RecordWebhookEvent(objectType, aspectType string) {}
func (n *NoopMetrics) RecordWebhookVerification(success bool)           {}
func (n *NoopMetrics) RecordEventOutcome(outcome string)                {}
func (n *NoopMetrics) RecordEventProcessing(duration time.Duration)     {}

// Credentials - noop implementations
func (n *NoopMetrics) RecordTokenRefresh(success bool)  {}
func (n *NoopMetrics) RecordOAuthCallback(success bool) {}

// Outbound calls - noop implementations
func (n *NoopMetrics) RecordNotification(success bool) {}

func (n *NoopMetrics) RecordExternalAPICall(
	endpoint string,
	success bool,
	duration time.Duration,
) {
}

// Subscription reconciliation - noop implementation
func (n *NoopMetrics) RecordSubscriptionReconcile(result string) {}

// Database Operations - noop implementations
func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
