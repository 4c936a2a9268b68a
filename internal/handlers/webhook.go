package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/appleboy/strava-relay/internal/core"
	"github.com/appleboy/strava-relay/internal/models"
	"github.com/appleboy/strava-relay/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	hubModeSubscribe = "subscribe"
	eventReceived    = "EVENT_RECEIVED"

	// maxEventBodyBytes caps inbound event payloads; real ones are a few hundred bytes.
	maxEventBodyBytes = 64 << 10
)

// WebhookHandler serves the push subscription callback.
type WebhookHandler struct {
	verifyToken string
	events      *services.EventService
	metrics     core.Recorder
	logger      *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(
	verifyToken string,
	events *services.EventService,
	m core.Recorder,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		events:      events,
		metrics:     m,
		logger:      logger,
	}
}

// Verify answers the subscription verification challenge.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != hubModeSubscribe ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.verifyToken)) != 1 {
		h.metrics.RecordWebhookVerification(false)
		h.logger.Warn("rejected webhook verification", zap.String("mode", mode))
		c.String(http.StatusForbidden, http.StatusText(http.StatusForbidden))
		return
	}

	h.metrics.RecordWebhookVerification(true)
	h.logger.Info("webhook verification succeeded")
	c.JSON(http.StatusOK, gin.H{"hub.challenge": challenge})
}

// Receive acknowledges an event and hands it off for processing. The
// response never depends on what happens downstream.
func (h *WebhookHandler) Receive(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxEventBodyBytes)

	var event models.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.Warn("ignoring malformed webhook event", zap.Error(err))
		c.String(http.StatusOK, eventReceived)
		return
	}

	h.logger.Debug("webhook event received",
		zap.String("object_type", event.ObjectType),
		zap.String("aspect_type", event.AspectType),
		zap.Int64("object_id", event.ObjectID),
		zap.Int64("owner_id", event.OwnerID),
	)

	if err := h.events.Submit(event); err != nil {
		h.logger.Warn("event not scheduled", zap.Error(err))
	}

	c.String(http.StatusOK, eventReceived)
}
