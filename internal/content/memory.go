package content

import (
	"context"
	"fmt"
	"sync"
)

// Item is a multi-row content shape with a generated id.
type Item[T any] interface {
	Key() int64
	WithKey(id int64) T
	Normalize() T
}

// MemorySection is an in-process singleton section. It backs the server
// in memory storage mode and in tests.
type MemorySection[T interface{ Normalize() T }] struct {
	mu sync.RWMutex
	v  T
}

// NewMemorySection returns an empty section.
func NewMemorySection[T interface{ Normalize() T }]() *MemorySection[T] {
	return &MemorySection[T]{}
}

// Get returns the stored value or the normalized zero value.
func (s *MemorySection[T]) Get(context.Context) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.Normalize(), nil
}

// Set replaces the stored value.
func (s *MemorySection[T]) Set(_ context.Context, v T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = v.Normalize()
	return s.v, nil
}

// MemoryItems is an in-process item list. Ids start at 1 and are never
// reused.
type MemoryItems[T Item[T]] struct {
	mu    sync.RWMutex
	next  int64
	items []T // insertion order
	noun  string
}

// NewMemoryItems returns an empty list; noun names the entity in errors.
func NewMemoryItems[T Item[T]](noun string) *MemoryItems[T] {
	return &MemoryItems[T]{noun: noun}
}

func (s *MemoryItems[T]) index(id int64) int {
	for i, v := range s.items {
		if v.Key() == id {
			return i
		}
	}
	return -1
}

// List returns all items, newest first.
func (s *MemoryItems[T]) List(context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
	}
	return out, nil
}

// Get returns the item with id or ErrNotFound.
func (s *MemoryItems[T]) Get(_ context.Context, id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	i := s.index(id)
	if i < 0 {
		return zero, fmt.Errorf("%w: %s %d", ErrNotFound, s.noun, id)
	}
	return s.items[i], nil
}

// Create assigns the next id and appends v.
func (s *MemoryItems[T]) Create(_ context.Context, v T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	v = v.WithKey(s.next).Normalize()
	s.items = append(s.items, v)
	return v, nil
}

// Update replaces the item with id or returns ErrNotFound.
func (s *MemoryItems[T]) Update(_ context.Context, id int64, v T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i := s.index(id)
	if i < 0 {
		return zero, fmt.Errorf("%w: %s %d", ErrNotFound, s.noun, id)
	}
	s.items[i] = v.WithKey(id).Normalize()
	return s.items[i], nil
}

// Delete removes the item with id and returns it.
func (s *MemoryItems[T]) Delete(_ context.Context, id int64) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i := s.index(id)
	if i < 0 {
		return zero, fmt.Errorf("%w: %s %d", ErrNotFound, s.noun, id)
	}
	v := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return v, nil
}

// MemorySkills is an in-process skills taxonomy.
type MemorySkills struct {
	mu   sync.RWMutex
	cats map[string]SkillsCategory
}

// NewMemorySkills returns an empty taxonomy.
func NewMemorySkills() *MemorySkills {
	return &MemorySkills{cats: map[string]SkillsCategory{}}
}

// List returns a copy of every category.
func (s *MemorySkills) List(context.Context) (map[string]SkillsCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]SkillsCategory, len(s.cats))
	for id, c := range s.cats {
		out[id] = c.Clone()
	}
	return out, nil
}

// Get returns one category or ErrNotFound.
func (s *MemorySkills) Get(_ context.Context, id string) (SkillsCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cats[id]
	if !ok {
		return SkillsCategory{}, fmt.Errorf("%w: skills category %s", ErrNotFound, id)
	}
	return c.Clone(), nil
}

// Create adds a category or returns ErrConflict.
func (s *MemorySkills) Create(_ context.Context, id string, c SkillsCategory) (SkillsCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cats[id]; ok {
		return SkillsCategory{}, fmt.Errorf("%w: skills category %s", ErrConflict, id)
	}
	s.cats[id] = c.Clone()
	return c.Clone(), nil
}

// Upsert writes the category under id.
func (s *MemorySkills) Upsert(_ context.Context, id string, c SkillsCategory) (SkillsCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cats[id] = c.Clone()
	return c.Clone(), nil
}

// Delete removes a category and returns it, or ErrNotFound.
func (s *MemorySkills) Delete(_ context.Context, id string) (SkillsCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cats[id]
	if !ok {
		return SkillsCategory{}, fmt.Errorf("%w: skills category %s", ErrNotFound, id)
	}
	delete(s.cats, id)
	return c, nil
}
