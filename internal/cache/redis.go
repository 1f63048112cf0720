package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/models"
)

const (
	sessionKeyPrefix = "dayplan:session:"
	themeKeyPrefix   = "dayplan:theme:"

	// sessionTTL bounds how long a stale session mirror survives without a
	// refresh from the autosave pipeline.
	sessionTTL = 30 * 24 * time.Hour
)

// RedisCache implements SessionCache on Redis.
type RedisCache struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(redisURL string, log *zap.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, log: log}, nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Client exposes the underlying Redis client so other components (rate
// limiting, push subscriptions) can share the connection.
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// GetSessionProfile returns the mirrored profile, or nil when the slot is
// empty. A corrupt entry is logged and treated as empty.
func (c *RedisCache) GetSessionProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	raw, err := c.client.Get(ctx, sessionKeyPrefix+userID.String()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session slot: %w", err)
	}

	profile := &models.Profile{}
	if err := json.Unmarshal(raw, profile); err != nil {
		c.log.Warn("corrupt_session_cache_entry",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, nil
	}

	return profile, nil
}

// SetSessionProfile mirrors the profile into the session slot; nil clears.
func (c *RedisCache) SetSessionProfile(ctx context.Context, userID uuid.UUID, profile *models.Profile) error {
	key := sessionKeyPrefix + userID.String()

	if profile == nil {
		if err := c.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to clear session slot: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal session profile: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to write session slot: %w", err)
	}
	return nil
}

// GetTheme returns the device's stored theme, or the default when unset
// or unreadable.
func (c *RedisCache) GetTheme(ctx context.Context, device string) models.Theme {
	raw, err := c.client.Get(ctx, themeKeyPrefix+themeDevice(device)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("failed_to_read_theme", zap.Error(err))
		}
		return models.DefaultTheme
	}

	switch theme := models.Theme(raw); theme {
	case models.ThemeDark, models.ThemeLight, models.ThemeSystem:
		return theme
	default:
		return models.DefaultTheme
	}
}

// SetTheme stores the device's theme preference.
func (c *RedisCache) SetTheme(ctx context.Context, device string, theme models.Theme) error {
	if err := c.client.Set(ctx, themeKeyPrefix+themeDevice(device), string(theme), 0).Err(); err != nil {
		return fmt.Errorf("failed to write theme: %w", err)
	}
	return nil
}

func themeDevice(device string) string {
	if device == "" {
		return DefaultDevice
	}
	return device
}

var _ SessionCache = (*RedisCache)(nil)
