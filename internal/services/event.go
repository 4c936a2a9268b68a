package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/appleboy/strava-relay/internal/core"
	"github.com/appleboy/strava-relay/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event outcomes recorded in metrics
const (
	OutcomeIgnored        = "ignored"
	OutcomeDuplicate      = "duplicate"
	OutcomeNoCredential   = "no_credential"
	OutcomeRefreshFailed  = "refresh_failed"
	OutcomeStoreError     = "store_error"
	OutcomeFetchFailed    = "fetch_failed"
	OutcomeDispatchFailed = "dispatch_failed"
	OutcomeNotified       = "notified"
	OutcomeRejected       = "rejected"
)

// ErrShuttingDown is returned by Submit once Shutdown has started.
var ErrShuttingDown = errors.New("event service is shutting down")

// EventServiceConfig holds the tunables of the pipeline.
type EventServiceConfig struct {
	// ActivityBaseURL prefixes the activity link, e.g. https://www.strava.com
	ActivityBaseURL string
	// ProcessTimeout bounds the downstream work of one submitted event.
	ProcessTimeout time.Duration
	// DedupTTL is how long a processed event key suppresses redeliveries.
	DedupTTL time.Duration
}

// EventService turns activity-create webhook events into chat messages.
// Submit is called after the webhook has been acknowledged; all downstream
// failures end the event and are only logged.
type EventService struct {
	tokens     *TokenService
	activities core.ActivityFetcher
	notifier   core.Notifier
	dedup      core.Cache[string] // nil disables de-duplication
	config     EventServiceConfig
	metrics    core.Recorder
	logger     *zap.Logger

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewEventService creates the pipeline. dedup may be nil.
func NewEventService(
	tokens *TokenService,
	activities core.ActivityFetcher,
	notifier core.Notifier,
	dedup core.Cache[string],
	cfg EventServiceConfig,
	metrics core.Recorder,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		tokens:     tokens,
		activities: activities,
		notifier:   notifier,
		dedup:      dedup,
		config:     cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// Submit processes event in the background and returns immediately.
// Events other than activity creation are counted and dropped here.
func (s *EventService) Submit(event models.WebhookEvent) error {
	s.metrics.RecordWebhookEvent(event.ObjectType, event.AspectType)

	if !event.IsActivityCreate() {
		s.metrics.RecordEventOutcome(OutcomeIgnored)
		s.logger.Debug("ignoring webhook event",
			zap.String("object_type", event.ObjectType),
			zap.String("aspect_type", event.AspectType),
			zap.Int64("object_id", event.ObjectID),
		)
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.metrics.RecordEventOutcome(OutcomeRejected)
		s.logger.Warn("dropping event received during shutdown",
			zap.Int64("athlete_id", event.OwnerID),
			zap.Int64("activity_id", event.ObjectID),
		)
		return ErrShuttingDown
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ProcessTimeout)
		defer cancel()

		_ = s.Process(ctx, event)
	}()
	return nil
}

// Process runs the pipeline for one event synchronously: resolve a valid
// token, fetch the activity, format and dispatch the message. Every failure
// is logged with the athlete and activity ids and returned.
func (s *EventService) Process(ctx context.Context, event models.WebhookEvent) error {
	if !event.IsActivityCreate() {
		s.metrics.RecordEventOutcome(OutcomeIgnored)
		return nil
	}

	start := time.Now()
	defer func() {
		s.metrics.RecordEventProcessing(time.Since(start))
	}()

	eventID := uuid.NewString()
	log := s.logger.With(
		zap.String("event_id", eventID),
		zap.Int64("athlete_id", event.OwnerID),
		zap.Int64("activity_id", event.ObjectID),
	)

	if !s.claim(ctx, event, eventID, log) {
		s.metrics.RecordEventOutcome(OutcomeDuplicate)
		log.Info("skipping duplicate event delivery")
		return nil
	}

	cred, err := s.tokens.ValidCredential(ctx, event.OwnerID)
	if err != nil {
		s.fail(log, credentialOutcome(err), "cannot resolve access token", err)
		return err
	}

	start = time.Now()
	activity, err := s.activities.GetActivity(ctx, cred.AccessToken, event.ObjectID)
	s.metrics.RecordExternalAPICall("get_activity", err == nil, time.Since(start))
	if err != nil {
		err = fmt.Errorf("%w: activity %d: %v", ErrUpstreamFetchFailed, event.ObjectID, err)
		s.fail(log, OutcomeFetchFailed, "cannot fetch activity", err)
		return err
	}

	message := FormatActivityMessage(activity, cred.DisplayName, s.activityURL(event.ObjectID))

	err = s.notifier.Notify(ctx, message)
	s.metrics.RecordNotification(err == nil)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrDispatchFailed, err)
		s.fail(log, OutcomeDispatchFailed, "cannot dispatch message", err)
		return err
	}

	s.metrics.RecordEventOutcome(OutcomeNotified)
	log.Info("activity relayed")
	return nil
}

// Shutdown stops accepting events and waits for in-flight ones until ctx ends.
func (s *EventService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for in-flight events: %w", ctx.Err())
	}
}

// claim reports whether this delivery should be processed. Errors from the
// de-duplication backend fail open.
func (s *EventService) claim(
	ctx context.Context,
	event models.WebhookEvent,
	eventID string,
	log *zap.Logger,
) bool {
	if s.dedup == nil {
		return true
	}

	ok, err := s.dedup.SetNX(ctx, event.DedupKey(), eventID, s.config.DedupTTL)
	if err != nil {
		log.Warn("event de-duplication unavailable, processing anyway", zap.Error(err))
		return true
	}
	return ok
}

func (s *EventService) fail(log *zap.Logger, outcome, msg string, err error) {
	s.metrics.RecordEventOutcome(outcome)
	if outcome == OutcomeNoCredential {
		log.Warn(msg, zap.Error(err))
		return
	}
	log.Error(msg, zap.Error(err))
}

func (s *EventService) activityURL(activityID int64) string {
	return s.config.ActivityBaseURL + "/activities/" + strconv.FormatInt(activityID, 10)
}

func credentialOutcome(err error) string {
	switch {
	case errors.Is(err, ErrNoCredential):
		return OutcomeNoCredential
	case errors.Is(err, ErrRefreshFailed):
		return OutcomeRefreshFailed
	default:
		return OutcomeStoreError
	}
}
