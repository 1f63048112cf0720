// Package store provides the remote store client: authenticated per-user
// reads and writes of the profile and the five named data collections, plus
// identity operations. Collection saves are whole-document replacements;
// the most recent save for a key wins.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/dayplanhq/dayplan/internal/models"
)

var (
	// ErrInvalidCredentials indicates a failed authentication attempt
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates the email is already registered
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("not found")
)

// RemoteStore is the interface consumed by the content loader and the
// autosave pipeline. "Never saved yet" is a normal state for profiles and
// collections, not an error: LoadProfile returns (nil, nil) and
// LoadCollection leaves out at its zero value.
type RemoteStore interface {
	// RegisterIdentity creates a new identity and returns its id.
	RegisterIdentity(ctx context.Context, email, password, displayName string) (uuid.UUID, error)

	// Authenticate verifies credentials and returns the identity id.
	Authenticate(ctx context.Context, email, password string) (uuid.UUID, error)

	// EndSession records a sign-out for the identity.
	EndSession(ctx context.Context, userID uuid.UUID) error

	// SaveProfile upserts the profile document keyed by its id.
	SaveProfile(ctx context.Context, profile models.Profile) error

	// LoadProfile reads the profile document, or (nil, nil) if never saved.
	LoadProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)

	// SaveCollection replaces the stored value for (userID, name) with the
	// JSON encoding of items.
	SaveCollection(ctx context.Context, userID uuid.UUID, name string, items any) error

	// LoadCollection decodes the stored value for (userID, name) into out,
	// which must be a pointer to a slice. out is untouched when the
	// collection was never saved.
	LoadCollection(ctx context.Context, userID uuid.UUID, name string, out any) error
}
