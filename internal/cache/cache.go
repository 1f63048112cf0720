// Package cache provides the local durable cache used for session resume
// and theme memory. It is independent of the remote store: losing it costs
// a network round trip on the next bootstrap, never data.
package cache

import (
	"context"

	"github.com/google/uuid"
	"github.com/dayplanhq/dayplan/internal/models"
)

// SessionCache is the injectable local cache consumed by the session
// bootstrap and the autosave pipeline. A malformed session entry is treated
// as absent, never as an error: bootstrap fails open to the logged-out
// state.
type SessionCache interface {
	// GetSessionProfile returns the mirrored profile for the user, or nil
	// when the slot is empty or corrupt.
	GetSessionProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)

	// SetSessionProfile mirrors the profile into the session slot; nil
	// clears the slot.
	SetSessionProfile(ctx context.Context, userID uuid.UUID, profile *models.Profile) error

	// GetTheme returns the stored theme for the device, or DefaultTheme
	// if unset.
	GetTheme(ctx context.Context, device string) models.Theme

	// SetTheme stores the theme preference for the device.
	SetTheme(ctx context.Context, device string, theme models.Theme) error
}

// DefaultDevice is the theme slot used when a request carries no device
// identifier.
const DefaultDevice = "default"
