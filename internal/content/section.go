package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/primal-host/primal-folio/internal/database"
)

// singletonID is the fixed key of every singleton section row.
const singletonID = 1

// sectionCodec describes how a singleton shape maps onto its table.
type sectionCodec[T any] struct {
	table string

	// columns are written in this order; selects may wrap them (COALESCE)
	// through selectExprs when the column is nullable.
	columns     []string
	selectExprs []string

	// values returns the column values of v in column order.
	values func(v T) []any

	// scan reads one row produced by selectExprs.
	scan func(row pgx.Row) (T, error)

	// empty is the shape returned before the first write.
	empty func() T

	// normalize fills absent arrays and objects.
	normalize func(v T) T
}

// Section is a singleton content section stored as row id 1 of its table.
// Reads before the first write return the empty shape, never an error.
type Section[T any] struct {
	db    *database.DB
	codec sectionCodec[T]
}

// Name returns the section's table name.
func (s *Section[T]) Name() string {
	return s.codec.table
}

// Get returns the stored section or the empty shape if no row exists.
func (s *Section[T]) Get(ctx context.Context) (T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`,
		strings.Join(s.codec.selectExprs, ", "), s.codec.table)

	v, err := s.codec.scan(s.db.Pool.QueryRow(ctx, query, singletonID))
	if errors.Is(err, pgx.ErrNoRows) {
		return s.codec.empty(), nil
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("content: get %s: %w", s.codec.table, err)
	}
	return s.codec.normalize(v), nil
}

// Set upserts the section, replacing every field, and returns the stored
// shape.
func (s *Section[T]) Set(ctx context.Context, v T) (T, error) {
	v = s.codec.normalize(v)

	cols := s.codec.columns
	placeholders := make([]string, len(cols))
	updates := make([]string, len(cols))
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		updates[i] = fmt.Sprintf("%s = EXCLUDED.%s", c, c)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, %s) VALUES ($1, %s)
		ON CONFLICT (id) DO UPDATE SET %s, updated_at = NOW()
		RETURNING %s`,
		s.codec.table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
		strings.Join(s.codec.selectExprs, ", "),
	)

	args := append([]any{singletonID}, s.codec.values(v)...)
	stored, err := s.codec.scan(s.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("content: set %s: %w", s.codec.table, err)
	}
	return s.codec.normalize(stored), nil
}
