package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/cache"
)

func newManager(st *fakeStore, c cache.SessionCache) *Manager {
	return NewManager(newBootstrapper(st, c), st, c, zap.NewNop())
}

func TestManager_SlowBootstrapDoesNotBlockOtherUsers(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	c := cache.NewMemory()
	m := newManager(st, c)
	ctx := context.Background()

	warmID := uuid.New()
	warm, err := m.Get(ctx, warmID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Every remote read now hangs, so the next cold user's bootstrap is
	// stuck mid-load. The warm user's requests must still be served.
	st.readGate = make(chan struct{})
	st.readBegan = make(chan struct{}, 16)
	defer close(st.readGate)

	coldID := uuid.New()
	go m.Get(ctx, coldID)
	select {
	case <-st.readBegan:
	case <-time.After(2 * time.Second):
		t.Fatal("cold bootstrap never reached the remote store")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sess, err := m.Get(ctx, warmID)
		if err != nil {
			t.Errorf("Get: %v", err)
			return
		}
		if sess != warm {
			t.Error("warm lookup returned a different session")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("warm session lookup stalled behind another user's bootstrap")
	}
}

func TestManager_ConcurrentGetsShareOneSession(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	st.readGate = make(chan struct{})
	st.readBegan = make(chan struct{}, 16)
	c := cache.NewMemory()
	m := newManager(st, c)
	ctx := context.Background()
	userID := uuid.New()

	first := make(chan *Session, 1)
	go func() {
		sess, err := m.Get(ctx, userID)
		if err != nil {
			t.Errorf("Get: %v", err)
		}
		first <- sess
	}()
	select {
	case <-st.readBegan: // the first bootstrap is in flight
	case <-time.After(2 * time.Second):
		t.Fatal("bootstrap never reached the remote store")
	}

	second := make(chan *Session, 1)
	go func() {
		sess, err := m.Get(ctx, userID)
		if err != nil {
			t.Errorf("Get: %v", err)
		}
		second <- sess
	}()

	close(st.readGate)

	var a, b *Session
	select {
	case a = <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("first Get never returned")
	}
	select {
	case b = <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("second Get never returned")
	}
	if a == nil || a != b {
		t.Error("concurrent lookups for one user must share a single session")
	}
}

func TestManager_GetAbandonedOnContextCancel(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	st.readGate = make(chan struct{})
	st.readBegan = make(chan struct{}, 16)
	c := cache.NewMemory()
	m := newManager(st, c)
	userID := uuid.New()

	go m.Get(context.Background(), userID)
	select {
	case <-st.readBegan:
	case <-time.After(2 * time.Second):
		t.Fatal("bootstrap never reached the remote store")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		_, err := m.Get(ctx, userID)
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Error("cancelled waiter must report the context error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled waiter never returned")
	}

	close(st.readGate)
}
