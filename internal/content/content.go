// Package content provides the portfolio content model and its
// PostgreSQL persistence.
//
// Each store translates between storage columns (snake_case, JSONB for
// arrays and objects) and the wire shape served by the Content API. Reads
// always normalize absent arrays to empty slices and absent objects to
// empty maps, so callers never see null where a list is expected.
package content

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for content operations.
var (
	ErrNotFound = errors.New("content: not found")
	ErrConflict = errors.New("content: already exists")
)

// isDuplicateKey checks whether an error is a PostgreSQL unique
// constraint violation (error code 23505).
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// strs returns s, or an empty slice when s is nil (clean JSON: [] not null).
func strs(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
