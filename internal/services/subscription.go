package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/appleboy/strava-relay/internal/core"

	"go.uber.org/zap"
)

// Reconcile results recorded in metrics
const (
	ReconcileExists  = "exists"
	ReconcileCreated = "created"
	ReconcileError   = "error"
)

// SubscriptionService keeps the platform push subscription pointed at this
// deployment. It holds no state of its own: every call re-derives the
// desired action from the platform's subscription list.
type SubscriptionService struct {
	api     core.SubscriptionAPI
	metrics core.Recorder
	logger  *zap.Logger
}

// NewSubscriptionService creates a reconciler.
func NewSubscriptionService(
	api core.SubscriptionAPI,
	metrics core.Recorder,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		api:     api,
		metrics: metrics,
		logger:  logger,
	}
}

// Reconcile creates a subscription for callbackURL unless one already exists.
// It is safe to call on every start. Errors are returned for the caller to
// log; they must not stop the process.
func (s *SubscriptionService) Reconcile(ctx context.Context, callbackURL, verifyToken string) error {
	subs, err := s.api.ListSubscriptions(ctx)
	if err != nil {
		s.metrics.RecordSubscriptionReconcile(ReconcileError)
		return fmt.Errorf("list subscriptions: %w", err)
	}

	for _, sub := range subs {
		if sameURL(sub.CallbackURL, callbackURL) {
			s.metrics.RecordSubscriptionReconcile(ReconcileExists)
			s.logger.Info("push subscription already registered",
				zap.Int64("subscription_id", sub.ID),
				zap.String("callback_url", callbackURL),
			)
			return nil
		}
	}

	// The platform allows a single subscription per application, so a
	// foreign one makes the create below fail. It is reported, not removed.
	for _, sub := range subs {
		s.logger.Warn("push subscription registered for another callback",
			zap.Int64("subscription_id", sub.ID),
			zap.String("callback_url", sub.CallbackURL),
		)
	}

	created, err := s.api.CreateSubscription(ctx, callbackURL, verifyToken)
	if err != nil {
		s.metrics.RecordSubscriptionReconcile(ReconcileError)
		return fmt.Errorf("create subscription: %w", err)
	}

	s.metrics.RecordSubscriptionReconcile(ReconcileCreated)
	s.logger.Info("push subscription created",
		zap.Int64("subscription_id", created.ID),
		zap.String("callback_url", callbackURL),
	)
	return nil
}

func sameURL(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}
