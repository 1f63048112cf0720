package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/cache"
	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/request"
	"github.com/dayplanhq/dayplan/internal/session"
	"github.com/dayplanhq/dayplan/internal/store"
	"github.com/dayplanhq/dayplan/internal/token"
)

// testEnv wires the handler stack onto in-memory backends
type testEnv struct {
	store    *store.MemoryStore
	cache    *cache.MemoryCache
	sessions *session.Manager
	tokens   *token.Manager
	boot     *session.Bootstrapper
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	st := store.NewMemory()
	c := cache.NewMemory()
	loader := session.NewLoader(st, log)
	saver := session.NewAutosaver(st, c, log)
	boot := session.NewBootstrapper(c, loader, saver, log)
	tokens, err := token.NewManager([]byte("handler-test-secret"), 0)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return &testEnv{
		store:    st,
		cache:    c,
		sessions: session.NewManager(boot, st, c, log),
		tokens:   tokens,
		boot:     boot,
	}
}

// newUser registers an identity and starts a live session for it
func (e *testEnv) newUser(t *testing.T, email string) uuid.UUID {
	t.Helper()
	userID, err := e.store.RegisterIdentity(context.Background(), email, "password123", "Test User")
	if err != nil {
		t.Fatalf("RegisterIdentity: %v", err)
	}
	e.sessions.Start(context.Background(), userID, &models.Profile{
		ID:    userID,
		Name:  "Test User",
		Email: email,
		Level: 1,
		Theme: models.DefaultTheme,
	})
	return userID
}

// do runs an authenticated request through the router
func (e *testEnv) do(t *testing.T, r *mux.Router, userID uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		claims := &token.Claims{UserID: userID}
		req = req.WithContext(request.WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// decodeData unwraps the response envelope's data field into dst
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("response not successful: %s", rec.Body.String())
	}
	if dst != nil {
		if err := json.Unmarshal(envelope.Data, dst); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
}

// waitFor polls cond until it holds or the deadline passes. Autosave
// cycles run on their own goroutines, so store-side assertions poll.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}
