package cache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/dayplanhq/dayplan/internal/models"
)

// MemoryCache is an in-memory SessionCache for tests and cache-less dev
// runs. Entries round-trip through JSON so corruption behaves like the
// Redis implementation: a bad entry reads as empty.
type MemoryCache struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID][]byte
	themes   map[string]models.Theme
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *MemoryCache {
	return &MemoryCache{
		sessions: make(map[uuid.UUID][]byte),
		themes:   make(map[string]models.Theme),
	}
}

// GetSessionProfile returns the mirrored profile, or nil when the slot is
// empty or corrupt.
func (c *MemoryCache) GetSessionProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	c.mu.RLock()
	raw, ok := c.sessions[userID]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	profile := &models.Profile{}
	if err := json.Unmarshal(raw, profile); err != nil {
		// Corrupt entries fail open to the logged-out state.
		return nil, nil
	}
	return profile, nil
}

// SetSessionProfile mirrors the profile into the session slot; nil clears.
func (c *MemoryCache) SetSessionProfile(ctx context.Context, userID uuid.UUID, profile *models.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if profile == nil {
		delete(c.sessions, userID)
		return nil
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	c.sessions[userID] = raw
	return nil
}

// Corrupt overwrites a session slot with malformed data. Test helper.
func (c *MemoryCache) Corrupt(userID uuid.UUID) {
	c.mu.Lock()
	c.sessions[userID] = []byte("{not json")
	c.mu.Unlock()
}

// GetTheme returns the device's stored theme, or the default when unset.
func (c *MemoryCache) GetTheme(ctx context.Context, device string) models.Theme {
	if device == "" {
		device = DefaultDevice
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	theme, ok := c.themes[device]
	if !ok || theme == "" {
		return models.DefaultTheme
	}
	return theme
}

// SetTheme stores the device's theme preference.
func (c *MemoryCache) SetTheme(ctx context.Context, device string, theme models.Theme) error {
	if device == "" {
		device = DefaultDevice
	}
	c.mu.Lock()
	c.themes[device] = theme
	c.mu.Unlock()
	return nil
}

var _ SessionCache = (*MemoryCache)(nil)
