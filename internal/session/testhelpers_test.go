package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/store"
)

// fakeStore wraps the in-memory store with failure injection, a read gate
// for simulating a slow remote, and write recording.
type fakeStore struct {
	*store.MemoryStore

	mu        sync.Mutex
	loadErr   map[string]error
	saveErr   map[string]error
	readGate  chan struct{} // when non-nil, reads block until closed
	readBegan chan struct{} // when non-nil, signalled as each gated read starts

	collectionSaves map[string]int
	profileSaves    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		MemoryStore:     store.NewMemory(),
		loadErr:         make(map[string]error),
		saveErr:         make(map[string]error),
		collectionSaves: make(map[string]int),
	}
}

func (s *fakeStore) waitReadGate() {
	if s.readGate == nil {
		return
	}
	if s.readBegan != nil {
		select {
		case s.readBegan <- struct{}{}:
		default:
		}
	}
	<-s.readGate
}

func (s *fakeStore) LoadProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	s.waitReadGate()
	return s.MemoryStore.LoadProfile(ctx, userID)
}

func (s *fakeStore) LoadCollection(ctx context.Context, userID uuid.UUID, name string, out any) error {
	s.waitReadGate()
	s.mu.Lock()
	err := s.loadErr[name]
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStore.LoadCollection(ctx, userID, name, out)
}

func (s *fakeStore) SaveCollection(ctx context.Context, userID uuid.UUID, name string, items any) error {
	s.mu.Lock()
	err := s.saveErr[name]
	if err == nil {
		s.collectionSaves[name]++
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStore.SaveCollection(ctx, userID, name, items)
}

func (s *fakeStore) SaveProfile(ctx context.Context, profile models.Profile) error {
	s.mu.Lock()
	s.profileSaves++
	s.mu.Unlock()
	return s.MemoryStore.SaveProfile(ctx, profile)
}

func (s *fakeStore) profileSaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileSaves
}

func (s *fakeStore) savesFor(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectionSaves[name]
}

func (s *fakeStore) totalSaves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := s.profileSaves
	for _, n := range s.collectionSaves {
		total += n
	}
	return total
}
