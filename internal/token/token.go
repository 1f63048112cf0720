// Package token issues and verifies the session tokens handed to clients
// at sign-in. Tokens are HS256 JWTs carrying the user ID as subject; the
// signing secret is shared across server instances via configuration.
package token

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	// Issuer is the iss claim stamped into every token
	Issuer = "dayplan"
	// DefaultTTL is the token lifetime when none is configured
	DefaultTTL = 30 * 24 * time.Hour
)

// Claims are the verified contents of a session token
type Claims struct {
	UserID    uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager signs and verifies session tokens
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager. The secret must be non-empty; ttl
// of zero falls back to DefaultTTL.
func NewManager(secret []byte, ttl time.Duration) (*Manager, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: secret, ttl: ttl}, nil
}

// Issue creates a signed token for the given user
func (m *Manager) Issue(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	tok, err := jwt.NewBuilder().
		Issuer(Issuer).
		Subject(userID.String()).
		Claim("email", email).
		IssuedAt(now).
		Expiration(now.Add(m.ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, m.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}

// Verify parses and validates a token string and extracts claims
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.Parse([]byte(tokenString),
		jwt.WithKey(jwa.HS256, m.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(Issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	userID, err := uuid.Parse(tok.Subject())
	if err != nil {
		return nil, fmt.Errorf("token subject is not a user ID: %w", err)
	}

	claims := &Claims{
		UserID:    userID,
		IssuedAt:  tok.IssuedAt(),
		ExpiresAt: tok.Expiration(),
	}
	if email, ok := tok.Get("email"); ok {
		if emailStr, ok := email.(string); ok {
			claims.Email = emailStr
		}
	}
	return claims, nil
}
