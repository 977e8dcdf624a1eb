// Package events sequences content changes, persists them, and fans them
// out to live subscribers of the /events feed.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Log stores changes and replays them by sequence number.
type Log interface {
	// Persist stores c and returns its assigned sequence number and time.
	Persist(ctx context.Context, c Change) (Change, error)
	// Replay calls fn for every change with seq > since, in order.
	Replay(ctx context.Context, since int64, fn func(Change) error) error
}

// Persister stores changes in the content_events table.
type Persister struct {
	pool *pgxpool.Pool
}

// NewPersister creates a Persister backed by the database pool.
func NewPersister(pool *pgxpool.Pool) *Persister {
	return &Persister{pool: pool}
}

// Persist inserts a change and returns it with the seq and timestamp
// assigned by the database. The BIGSERIAL column provides monotonic
// ordering.
func (p *Persister) Persist(ctx context.Context, c Change) (Change, error) {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO content_events (domain, action, key)
		 VALUES ($1, $2, $3)
		 RETURNING seq, created_at`,
		c.Domain, c.Action, c.Key,
	).Scan(&c.Seq, &c.Time)
	if err != nil {
		return Change{}, fmt.Errorf("persist: insert event: %w", err)
	}
	return c, nil
}

// Replay reads changes with seq > since and calls fn for each.
func (p *Persister) Replay(ctx context.Context, since int64, fn func(Change) error) error {
	rows, err := p.pool.Query(ctx,
		`SELECT seq, domain, action, key, created_at FROM content_events
		 WHERE seq > $1 ORDER BY seq ASC`, since)
	if err != nil {
		return fmt.Errorf("replay: query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Change
		if err := rows.Scan(&c.Seq, &c.Domain, &c.Action, &c.Key, &c.Time); err != nil {
			return fmt.Errorf("replay: scan: %w", err)
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return rows.Err()
}

// MemoryLog is an in-process Log holding the most recent changes. It is
// used when no database is available and in tests.
type MemoryLog struct {
	mu      sync.Mutex
	seq     int64
	history []Change
	limit   int
}

// DefaultMemoryLimit is the number of changes a MemoryLog retains.
const DefaultMemoryLimit = 1024

// NewMemoryLog creates a MemoryLog retaining up to limit changes.
func NewMemoryLog(limit int) *MemoryLog {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &MemoryLog{limit: limit}
}

// Persist assigns the next seq and records c.
func (l *MemoryLog) Persist(_ context.Context, c Change) (Change, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	c.Seq = l.seq
	if c.Time.IsZero() {
		c.Time = timeNow().UTC()
	}
	l.history = append(l.history, c)
	if len(l.history) > l.limit {
		l.history = l.history[len(l.history)-l.limit:]
	}
	return c, nil
}

// Replay calls fn for retained changes with seq > since.
func (l *MemoryLog) Replay(ctx context.Context, since int64, fn func(Change) error) error {
	l.mu.Lock()
	snapshot := make([]Change, 0, len(l.history))
	for _, c := range l.history {
		if c.Seq > since {
			snapshot = append(snapshot, c)
		}
	}
	l.mu.Unlock()

	for _, c := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}
