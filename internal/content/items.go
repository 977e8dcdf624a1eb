package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/primal-host/primal-folio/internal/database"
)

// itemCodec describes how a multi-row entity maps onto its table. The id
// column is implicit and always selected first.
type itemCodec[T any] struct {
	table   string
	noun    string
	columns []string

	// values returns the mutable column values of v in column order.
	values func(v T) []any

	// scan reads id followed by columns.
	scan func(row pgx.Row) (T, error)

	normalize func(v T) T
}

// Items is the store for a multi-row entity with a generated BIGSERIAL
// id. Ids are assigned once on create and never reused; deletes are
// permanent.
type Items[T any] struct {
	db    *database.DB
	codec itemCodec[T]
}

func (s *Items[T]) selectList() string {
	return "id, " + strings.Join(s.codec.columns, ", ")
}

// List returns all rows, newest first.
func (s *Items[T]) List(ctx context.Context) ([]T, error) {
	rows, err := s.db.Pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY created_at DESC, id DESC`,
		s.selectList(), s.codec.table))
	if err != nil {
		return nil, fmt.Errorf("content: list %s: %w", s.codec.table, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		v, err := s.codec.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("content: list %s scan: %w", s.codec.table, err)
		}
		items = append(items, s.codec.normalize(v))
	}
	return items, rows.Err()
}

// Get returns a single row. Returns ErrNotFound if no row matches.
func (s *Items[T]) Get(ctx context.Context, id int64) (T, error) {
	v, err := s.codec.scan(s.db.Pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM %s WHERE id = $1`, s.selectList(), s.codec.table), id))
	return s.result(v, err, "get", id)
}

// Create inserts a row and returns it with its generated id.
func (s *Items[T]) Create(ctx context.Context, v T) (T, error) {
	v = s.codec.normalize(v)

	placeholders := make([]string, len(s.codec.columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	stored, err := s.codec.scan(s.db.Pool.QueryRow(ctx, fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		s.codec.table,
		strings.Join(s.codec.columns, ", "),
		strings.Join(placeholders, ", "),
		s.selectList()),
		s.codec.values(v)...))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("content: create %s: %w", s.codec.noun, err)
	}
	return s.codec.normalize(stored), nil
}

// Update replaces every mutable field of the row with id. Returns
// ErrNotFound if no row matches.
func (s *Items[T]) Update(ctx context.Context, id int64, v T) (T, error) {
	v = s.codec.normalize(v)

	sets := make([]string, len(s.codec.columns))
	for i, c := range s.codec.columns {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+2)
	}

	args := append([]any{id}, s.codec.values(v)...)
	stored, err := s.codec.scan(s.db.Pool.QueryRow(ctx, fmt.Sprintf(
		`UPDATE %s SET %s, updated_at = NOW() WHERE id = $1 RETURNING %s`,
		s.codec.table, strings.Join(sets, ", "), s.selectList()),
		args...))
	return s.result(stored, err, "update", id)
}

// Delete removes the row with id and returns its last values. Returns
// ErrNotFound if no row matches.
func (s *Items[T]) Delete(ctx context.Context, id int64) (T, error) {
	v, err := s.codec.scan(s.db.Pool.QueryRow(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE id = $1 RETURNING %s`, s.codec.table, s.selectList()), id))
	return s.result(v, err, "delete", id)
}

func (s *Items[T]) result(v T, err error, op string, id int64) (T, error) {
	var zero T
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, fmt.Errorf("%w: %s %d", ErrNotFound, s.codec.noun, id)
	}
	if err != nil {
		return zero, fmt.Errorf("content: %s %s %d: %w", op, s.codec.noun, id, err)
	}
	return s.codec.normalize(v), nil
}
