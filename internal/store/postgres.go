package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/dayplanhq/dayplan/internal/models"
)

//go:embed schema.sql
var schema string

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

// PostgresStore implements RemoteStore on PostgreSQL. Profile and collection
// values are stored as JSONB documents; saves are upserts keyed by user id
// (and collection name), so concurrent writers resolve last-write-wins.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres connects to the database, verifies the connection, and
// ensures the schema exists.
func NewPostgres(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is healthy.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RegisterIdentity creates a new identity with a bcrypt-hashed password.
func (s *PostgresStore) RegisterIdentity(ctx context.Context, email, password, displayName string) (uuid.UUID, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO identities (id, email, password_hash, display_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, query, id, email, string(hash), displayName, time.Now()); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return uuid.Nil, ErrEmailTaken
		}
		return uuid.Nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return id, nil
}

// Authenticate verifies the email/password pair against the stored hash.
func (s *PostgresStore) Authenticate(ctx context.Context, email, password string) (uuid.UUID, error) {
	var id uuid.UUID
	var hash string

	query := `SELECT id, password_hash FROM identities WHERE email = $1`
	err := s.db.QueryRowContext(ctx, query, email).Scan(&id, &hash)
	if err == sql.ErrNoRows {
		return uuid.Nil, ErrInvalidCredentials
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return uuid.Nil, ErrInvalidCredentials
	}

	return id, nil
}

// EndSession records the sign-out time for the identity.
func (s *PostgresStore) EndSession(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE identities SET last_sign_out = $2 WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, query, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to record sign-out: %w", err)
	}
	return nil
}

// SaveProfile upserts the profile document keyed by its id.
func (s *PostgresStore) SaveProfile(ctx context.Context, profile models.Profile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	query := `
		INSERT INTO profiles (user_id, doc, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET doc = EXCLUDED.doc,
		    updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, profile.ID, doc, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// LoadProfile reads the profile document, or (nil, nil) if never saved.
func (s *PostgresStore) LoadProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var doc []byte

	query := `SELECT doc FROM profiles WHERE user_id = $1`
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile := &models.Profile{}
	if err := json.Unmarshal(doc, profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return profile, nil
}

// SaveCollection replaces the stored value for (userID, name) with the JSON
// encoding of items. The whole collection is the unit of storage; there is
// no delta or merge.
func (s *PostgresStore) SaveCollection(ctx context.Context, userID uuid.UUID, name string, items any) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %w", name, err)
	}

	query := `
		INSERT INTO collections (user_id, name, items, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, name) DO UPDATE
		SET items = EXCLUDED.items,
		    updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, userID, name, payload, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert collection %s: %w", name, err)
	}

	return nil
}

// LoadCollection decodes the stored value for (userID, name) into out. A
// collection that was never saved leaves out untouched and returns nil.
func (s *PostgresStore) LoadCollection(ctx context.Context, userID uuid.UUID, name string, out any) error {
	var payload []byte

	query := `SELECT items FROM collections WHERE user_id = $1 AND name = $2`
	err := s.db.QueryRowContext(ctx, query, userID, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get collection %s: %w", name, err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to unmarshal collection %s: %w", name, err)
	}

	return nil
}

// Ensure the concrete type implements the interface
var _ RemoteStore = (*PostgresStore)(nil)
