package token

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewManagerRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewManager(nil, time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := NewManager([]byte("secret"), 0); err != nil {
		t.Errorf("zero ttl should fall back to default, got error: %v", err)
	}
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	m, err := NewManager([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	userID := uuid.New()
	signed, err := m.Issue(userID, "ana@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if strings.Count(signed, ".") != 2 {
		t.Errorf("token does not look like a JWT: %q", signed)
	}

	claims, err := m.Verify(signed)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "ana@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Error("token already expired")
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	t.Parallel()

	m, err := NewManager([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	other, err := NewManager([]byte("different-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "garbage",
			token: func(t *testing.T) string { return "not.a.token" },
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				signed, err := other.Issue(uuid.New(), "eve@example.com")
				if err != nil {
					t.Fatalf("Issue() error = %v", err)
				}
				return signed
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				stale := &Manager{secret: []byte("test-secret"), ttl: -time.Hour}
				signed, err := stale.Issue(uuid.New(), "old@example.com")
				if err != nil {
					t.Fatalf("Issue() error = %v", err)
				}
				return signed
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := m.Verify(tt.token(t)); err == nil {
				t.Error("expected verification error, got nil")
			}
		})
	}
}
