package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const subsKeyPrefix = "dayplan:subs:"

// RedisRegistry stores subscriptions in a Redis hash per user,
// field = subscription ID, value = JSON-encoded subscription.
type RedisRegistry struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisRegistry creates a subscription registry backed by Redis
func NewRedisRegistry(client *redis.Client, log *zap.Logger) *RedisRegistry {
	return &RedisRegistry{client: client, log: log}
}

func subsKey(userID uuid.UUID) string {
	return subsKeyPrefix + userID.String()
}

// Register stores a subscription for the user, replacing any existing
// subscription with the same ID
func (r *RedisRegistry) Register(ctx context.Context, userID uuid.UUID, sub Subscription) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}
	if err := r.client.HSet(ctx, subsKey(userID), sub.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to store subscription: %w", err)
	}
	return nil
}

// Unregister removes a subscription. Removing an unknown ID is not an error.
func (r *RedisRegistry) Unregister(ctx context.Context, userID uuid.UUID, subID string) error {
	if err := r.client.HDel(ctx, subsKey(userID), subID).Err(); err != nil {
		return fmt.Errorf("failed to remove subscription: %w", err)
	}
	return nil
}

// List returns the user's subscriptions. Entries that fail to decode are
// skipped with a warning rather than failing the whole listing.
func (r *RedisRegistry) List(ctx context.Context, userID uuid.UUID) ([]Subscription, error) {
	entries, err := r.client.HGetAll(ctx, subsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	subs := make([]Subscription, 0, len(entries))
	for id, raw := range entries {
		var sub Subscription
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			r.log.Warn("subscription_decode_failed",
				zap.String("subscription_id", id),
				zap.Error(err),
			)
			continue
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

var _ SubscriptionRegistry = (*RedisRegistry)(nil)
