package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dayplanhq/dayplan/internal/models"
)

type memoryIdentity struct {
	id           uuid.UUID
	passwordHash []byte
	displayName  string
}

// MemoryStore is an in-memory RemoteStore used by tests and cache-less dev
// runs. Values round-trip through JSON so stored data behaves like the
// Postgres implementation's JSONB documents.
type MemoryStore struct {
	mu          sync.RWMutex
	identities  map[string]memoryIdentity // email -> identity
	profiles    map[uuid.UUID][]byte
	collections map[uuid.UUID]map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		identities:  make(map[string]memoryIdentity),
		profiles:    make(map[uuid.UUID][]byte),
		collections: make(map[uuid.UUID]map[string][]byte),
	}
}

// RegisterIdentity creates a new identity keyed by email.
func (s *MemoryStore) RegisterIdentity(ctx context.Context, email, password, displayName string) (uuid.UUID, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.identities[email]; exists {
		return uuid.Nil, ErrEmailTaken
	}

	id := uuid.New()
	s.identities[email] = memoryIdentity{id: id, passwordHash: hash, displayName: displayName}
	return id, nil
}

// Authenticate verifies credentials against the stored hash.
func (s *MemoryStore) Authenticate(ctx context.Context, email, password string) (uuid.UUID, error) {
	s.mu.RLock()
	ident, ok := s.identities[email]
	s.mu.RUnlock()

	if !ok {
		return uuid.Nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(ident.passwordHash, []byte(password)); err != nil {
		return uuid.Nil, ErrInvalidCredentials
	}
	return ident.id, nil
}

// EndSession is a no-op for the in-memory store.
func (s *MemoryStore) EndSession(ctx context.Context, userID uuid.UUID) error {
	return nil
}

// SaveProfile upserts the profile document.
func (s *MemoryStore) SaveProfile(ctx context.Context, profile models.Profile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	s.mu.Lock()
	s.profiles[profile.ID] = doc
	s.mu.Unlock()
	return nil
}

// LoadProfile reads the profile document, or (nil, nil) if never saved.
func (s *MemoryStore) LoadProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	s.mu.RLock()
	doc, ok := s.profiles[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	profile := &models.Profile{}
	if err := json.Unmarshal(doc, profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return profile, nil
}

// SaveCollection replaces the stored value for (userID, name).
func (s *MemoryStore) SaveCollection(ctx context.Context, userID uuid.UUID, name string, items any) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[userID] == nil {
		s.collections[userID] = make(map[string][]byte)
	}
	s.collections[userID][name] = payload
	return nil
}

// LoadCollection decodes the stored value for (userID, name) into out,
// leaving out untouched when the collection was never saved.
func (s *MemoryStore) LoadCollection(ctx context.Context, userID uuid.UUID, name string, out any) error {
	s.mu.RLock()
	payload, ok := s.collections[userID][name]
	s.mu.RUnlock()

	if !ok {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to unmarshal collection %s: %w", name, err)
	}
	return nil
}

var _ RemoteStore = (*MemoryStore)(nil)
