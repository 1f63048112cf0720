package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deliveryTimeout = 10 * time.Second

// WebhookSender delivers notifications by POSTing JSON to each endpoint
// the user registered. A user with no subscriptions gets a log line only;
// delivery failures on individual endpoints do not fail the whole send.
type WebhookSender struct {
	registry SubscriptionRegistry
	client   *http.Client
	log      *zap.Logger
}

// NewWebhookSender creates a sender over the given registry. httpClient
// may be nil, in which case a client with a delivery timeout is used.
func NewWebhookSender(registry SubscriptionRegistry, httpClient *http.Client, log *zap.Logger) *WebhookSender {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: deliveryTimeout}
	}
	return &WebhookSender{registry: registry, client: httpClient, log: log}
}

// Send delivers the notification to all of the user's subscriptions
func (s *WebhookSender) Send(ctx context.Context, userID uuid.UUID, n Notification) error {
	subs, err := s.registry.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		s.log.Info("reminder_no_subscriptions",
			zap.String("user_id", userID.String()),
			zap.String("task_id", n.TaskID.String()),
		)
		return nil
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	delivered := 0
	for _, sub := range subs {
		if err := s.deliver(ctx, sub, payload); err != nil {
			s.log.Warn("reminder_delivery_failed",
				zap.String("user_id", userID.String()),
				zap.String("subscription_id", sub.ID),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}

	s.log.Info("reminder_delivered",
		zap.String("user_id", userID.String()),
		zap.String("task_id", n.TaskID.String()),
		zap.Int("subscriptions", len(subs)),
		zap.Int("delivered", delivered),
	)
	return nil
}

func (s *WebhookSender) deliver(ctx context.Context, sub Subscription, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post notification: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

var _ Sender = (*WebhookSender)(nil)
