// Package credential is the Credential Gate: it validates a submitted
// secret against the single bcrypt hash stored in the admin row.
package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/primal-host/primal-folio/internal/database"
)

// Sentinel errors for credential operations.
var (
	// ErrNotConfigured means the admin row is absent. That is a
	// deployment defect, not a user error.
	ErrNotConfigured    = errors.New("credential: admin credential not configured")
	ErrInvalidPassword  = errors.New("credential: invalid password")
	ErrPasswordTooShort = errors.New("credential: password must be at least 6 characters")
)

// Store reads and writes the admin credential row.
type Store struct {
	db *database.DB
}

// NewStore creates a Store.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) hash(ctx context.Context) (string, error) {
	var hash string
	err := s.db.Pool.QueryRow(ctx,
		`SELECT password_hash FROM admin WHERE id = 1`).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotConfigured
	}
	if err != nil {
		return "", fmt.Errorf("credential: load hash: %w", err)
	}
	return hash, nil
}

// Authenticate checks password against the stored hash.
func (s *Store) Authenticate(ctx context.Context, password string) error {
	hash, err := s.hash(ctx)
	if err != nil {
		return err
	}
	return CheckPassword(hash, password)
}

// Change replaces the stored hash after verifying current. The length
// check runs first so a short new password never costs a bcrypt compare.
func (s *Store) Change(ctx context.Context, current, next string) error {
	if err := CheckLength(next); err != nil {
		return err
	}
	hash, err := s.hash(ctx)
	if err != nil {
		return err
	}
	if err := CheckPassword(hash, current); err != nil {
		return err
	}
	return s.write(ctx, next, false)
}

// Reset unconditionally sets the admin password, creating the row if it
// does not exist.
func (s *Store) Reset(ctx context.Context, password string) error {
	if err := CheckLength(password); err != nil {
		return err
	}
	return s.write(ctx, password, true)
}

// Exists reports whether the admin row has been seeded.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	_, err := s.hash(ctx)
	if errors.Is(err, ErrNotConfigured) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) write(ctx context.Context, password string, upsert bool) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	query := `UPDATE admin SET password_hash = $1, updated_at = NOW() WHERE id = 1`
	if upsert {
		query = `INSERT INTO admin (id, password_hash) VALUES (1, $1)
			 ON CONFLICT (id) DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = NOW()`
	}

	tag, err := s.db.Pool.Exec(ctx, query, hash)
	if err != nil {
		return fmt.Errorf("credential: store hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotConfigured
	}
	return nil
}
