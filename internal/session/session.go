// Package session implements the client-state synchronization core: the
// per-user in-memory working set, the bootstrap that resumes it from the
// local cache, the concurrent content loader, and the autosave pipeline
// that mirrors every change to the remote store and the local cache.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/dayplanhq/dayplan/internal/models"
)

// State is the mutable view handed to Mutate callbacks. Mutation operators
// replace fields wholesale; nothing is edited in place.
type State struct {
	Profile     *models.Profile
	Collections models.Collections
}

// Session owns one user's working set: the profile plus the five data
// collections. All mutation goes through Mutate, which replaces state and
// fires the registered change hook; readers get snapshots, never live
// references.
type Session struct {
	userID uuid.UUID

	mu          sync.RWMutex
	profile     *models.Profile
	collections models.Collections
	ready       bool

	onChange func()
}

// New creates an empty session for the user. No content is loaded and no
// change hook is registered yet.
func New(userID uuid.UUID) *Session {
	return &Session{userID: userID}
}

// UserID returns the owning user's id.
func (s *Session) UserID() uuid.UUID {
	return s.userID
}

// OnChange registers the hook fired after every mutation. Registered once
// at session start; the autosave pipeline is the intended target.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Ready reports whether the initial content load has completed. Autosaves
// before that point are suppressed so empty initial state can never
// overwrite remote data.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Profile returns a copy of the current profile, or nil when no profile is
// present yet.
func (s *Session) Profile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := s.profile.Clone()
	return &p
}

// Snapshot returns a copy of the profile and all five collections, taken
// under one lock so the caller never observes a half-applied update.
func (s *Session) Snapshot() (*models.Profile, models.Collections) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var profile *models.Profile
	if s.profile != nil {
		p := s.profile.Clone()
		profile = &p
	}
	return profile, s.collections.Clone()
}

// SetOptimisticProfile installs the cached profile during bootstrap, before
// the remote load resolves. It does not fire the change hook: resuming is
// not a mutation.
func (s *Session) SetOptimisticProfile(profile *models.Profile) {
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
}

// ApplyLoaded installs the content load result as a single atomic state
// update: all five collections become visible together. A nil profile
// retains the optimistic one already in place. Marks the session ready,
// opening the autosave gate. The change hook is not fired: loading is not
// a mutation, and re-saving what was just read would be a wasted write.
func (s *Session) ApplyLoaded(profile *models.Profile, collections models.Collections) {
	s.mu.Lock()
	if profile != nil {
		s.profile = profile
	}
	s.collections = collections
	s.ready = true
	s.mu.Unlock()
}

// Mutate applies fn to a copy of the current state, installs the result,
// and fires the change hook. fn must use the pure operators from the
// planner package (or equivalent whole-value replacement); it must not
// retain references to the State after returning.
func (s *Session) Mutate(fn func(st *State)) {
	s.mu.Lock()
	st := State{Collections: s.collections.Clone()}
	if s.profile != nil {
		p := s.profile.Clone()
		st.Profile = &p
	}
	fn(&st)
	s.profile = st.Profile
	s.collections = st.Collections
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}
