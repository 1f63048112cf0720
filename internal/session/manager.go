package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/cache"
	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/store"
)

// Manager tracks the live sessions of authenticated users. Each user has
// at most one session in this process; a session is created on login or
// lazily on the first authenticated request after a restart.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	pending  map[uuid.UUID]chan struct{}

	boot  *Bootstrapper
	store store.RemoteStore
	cache cache.SessionCache
	log   *zap.Logger
}

// NewManager creates a session manager.
func NewManager(boot *Bootstrapper, st store.RemoteStore, c cache.SessionCache, log *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		pending:  make(map[uuid.UUID]chan struct{}),
		boot:     boot,
		store:    st,
		cache:    c,
		log:      log,
	}
}

// Get returns the user's live session, bootstrapping one on first touch:
// resume from the local cache when possible, otherwise a synchronous load
// from the remote store. The manager lock is never held across the load;
// concurrent callers for the same user wait for the first one's bootstrap
// instead of racing a second load.
func (m *Manager) Get(ctx context.Context, userID uuid.UUID) (*Session, error) {
	for {
		m.mu.Lock()
		if sess, ok := m.sessions[userID]; ok {
			m.mu.Unlock()
			return sess, nil
		}
		done, inflight := m.pending[userID]
		if !inflight {
			done = make(chan struct{})
			m.pending[userID] = done
			m.mu.Unlock()
			break
		}
		m.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	sess, err := m.boot.Resume(ctx, userID)
	if err == nil && sess == nil {
		sess = m.boot.StartFresh(ctx, userID, nil)
	}

	m.mu.Lock()
	if err == nil {
		m.sessions[userID] = sess
	}
	close(m.pending[userID])
	delete(m.pending, userID)
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Start installs a freshly built session for the user, replacing any
// previous one. Used by login and registration.
func (m *Manager) Start(ctx context.Context, userID uuid.UUID, fallback *models.Profile) *Session {
	sess := m.boot.StartFresh(ctx, userID, fallback)

	m.mu.Lock()
	m.sessions[userID] = sess
	m.mu.Unlock()

	return sess
}

// End terminates the user's session: the remote store records the
// sign-out, the local cache session slot is cleared, and the live session
// is dropped. In-memory state is discarded; whatever the last autosave
// cycle persisted is what the next login sees.
func (m *Manager) End(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()

	if err := m.cache.SetSessionProfile(ctx, userID, nil); err != nil {
		m.log.Warn("failed_to_clear_session_slot",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	return m.store.EndSession(ctx, userID)
}

// Each calls fn for every live session. Used by the reminder scanner.
func (m *Manager) Each(fn func(sess *Session)) {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.mu.Unlock()

	for _, sess := range sessions {
		fn(sess)
	}
}
