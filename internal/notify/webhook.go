package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/appleboy/strava-relay/internal/core"
)

// maxContentLength is the longest message the chat endpoint accepts.
const maxContentLength = 2000

var _ core.Notifier = (*WebhookNotifier)(nil)

// ErrDeliveryRejected is returned when the endpoint answers with a non-2xx status.
var ErrDeliveryRejected = errors.New("messaging endpoint rejected message")

type webhookMessage struct {
	Content string `json:"content"`
}

// WebhookNotifier posts messages to a chat incoming-webhook URL.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

// NewWebhookNotifier creates a notifier for url using httpClient.
func NewWebhookNotifier(url string, httpClient *http.Client) *WebhookNotifier {
	return &WebhookNotifier{url: url, httpClient: httpClient}
}

// Notify delivers message once; it never retries.
func (n *WebhookNotifier) Notify(ctx context.Context, message string) error {
	jsonData, err := json.Marshal(webhookMessage{Content: truncate(message, maxContentLength)})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s - %s", ErrDeliveryRejected, resp.Status, string(body))
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
