package admin

import (
	"context"
	"fmt"
	"slices"

	"github.com/primal-host/primal-folio/internal/content"
	"github.com/primal-host/primal-folio/internal/events"
)

// Section edits one singleton section of the document.
type Section[T interface{ Normalize() T }] struct {
	s      *Store
	name   string
	remote SectionRemote[T]
	slot   func(d *content.Document) *T
}

// Name returns the section's domain name.
func (x *Section[T]) Name() string { return x.name }

// Get returns the current value.
func (x *Section[T]) Get() T {
	var v T
	x.s.view(func(d *content.Document) { v = *x.slot(d) })
	return v
}

// Set writes v remotely and, on success, stores what the API returned.
func (x *Section[T]) Set(ctx context.Context, v T) (T, error) {
	unlock, err := x.s.mutate()
	if err != nil {
		var zero T
		return zero, err
	}
	defer unlock()

	stored, err := x.remote.Set(ctx, v.Normalize())
	if err != nil {
		var zero T
		return zero, fmt.Errorf("admin: update %s: %w", x.name, err)
	}
	stored = stored.Normalize()
	x.s.commit(func(d *content.Document) { *x.slot(d) = stored })
	return stored, nil
}

// Collection edits one item list of the document. The list is replaced,
// never modified in place, so earlier snapshots stay valid.
type Collection[T content.Item[T]] struct {
	s      *Store
	name   string
	remote CollectionRemote[T]
	slot   func(d *content.Document) *[]T
}

// Name returns the collection's domain name.
func (x *Collection[T]) Name() string { return x.name }

// List returns a copy of the current items.
func (x *Collection[T]) List() []T {
	var out []T
	x.s.view(func(d *content.Document) { out = slices.Clone(*x.slot(d)) })
	if out == nil {
		out = []T{}
	}
	return out
}

// Find returns the item with id.
func (x *Collection[T]) Find(id int64) (T, bool) {
	var (
		v  T
		ok bool
	)
	x.s.view(func(d *content.Document) {
		if i := indexOf(*x.slot(d), id); i >= 0 {
			v, ok = (*x.slot(d))[i], true
		}
	})
	return v, ok
}

func indexOf[T content.Item[T]](items []T, id int64) int {
	return slices.IndexFunc(items, func(v T) bool { return v.Key() == id })
}

// Create adds v remotely and appends the stored item, carrying its
// generated id.
func (x *Collection[T]) Create(ctx context.Context, v T) (T, error) {
	unlock, err := x.s.mutate()
	if err != nil {
		var zero T
		return zero, err
	}
	defer unlock()

	stored, err := x.remote.Create(ctx, v.WithKey(0).Normalize())
	if err != nil {
		var zero T
		return zero, fmt.Errorf("admin: create in %s: %w", x.name, err)
	}
	stored = stored.Normalize()
	x.s.commit(func(d *content.Document) {
		items := *x.slot(d)
		*x.slot(d) = append(slices.Clip(items), stored)
	})
	return stored, nil
}

// Update replaces the item with id remotely, then locally. The id is
// preserved whatever v carries.
func (x *Collection[T]) Update(ctx context.Context, id int64, v T) (T, error) {
	unlock, err := x.s.mutate()
	if err != nil {
		var zero T
		return zero, err
	}
	defer unlock()

	stored, err := x.remote.Update(ctx, id, v.WithKey(id).Normalize())
	if err != nil {
		var zero T
		return zero, fmt.Errorf("admin: update %s %d: %w", x.name, id, err)
	}
	stored = stored.WithKey(id).Normalize()
	x.s.commit(func(d *content.Document) {
		items := slices.Clone(*x.slot(d))
		if i := indexOf(items, id); i >= 0 {
			items[i] = stored
		} else {
			items = append(items, stored)
		}
		*x.slot(d) = items
	})
	return stored, nil
}

// Delete removes the item with id remotely, then locally.
func (x *Collection[T]) Delete(ctx context.Context, id int64) error {
	unlock, err := x.s.mutate()
	if err != nil {
		return err
	}
	defer unlock()

	if err := x.remote.Delete(ctx, id); err != nil {
		return fmt.Errorf("admin: delete %s %d: %w", x.name, id, err)
	}
	x.s.commit(func(d *content.Document) {
		*x.slot(d) = slices.DeleteFunc(slices.Clone(*x.slot(d)), func(v T) bool { return v.Key() == id })
	})
	return nil
}

// Hero returns the hero section editor.
func (s *Store) Hero() *Section[content.Hero] {
	return &Section[content.Hero]{s: s, name: events.DomainHero, remote: s.remote.Hero,
		slot: func(d *content.Document) *content.Hero { return &d.Hero }}
}

// About returns the about section editor.
func (s *Store) About() *Section[content.About] {
	return &Section[content.About]{s: s, name: events.DomainAbout, remote: s.remote.About,
		slot: func(d *content.Document) *content.About { return &d.About }}
}

// Contact returns the contact section editor.
func (s *Store) Contact() *Section[content.Contact] {
	return &Section[content.Contact]{s: s, name: events.DomainContact, remote: s.remote.Contact,
		slot: func(d *content.Document) *content.Contact { return &d.Contact }}
}

// Projects returns the projects editor.
func (s *Store) Projects() *Collection[content.Project] {
	return &Collection[content.Project]{s: s, name: events.DomainProjects, remote: s.remote.Projects,
		slot: func(d *content.Document) *[]content.Project { return &d.Projects }}
}

// Experiences returns the experiences editor.
func (s *Store) Experiences() *Collection[content.Experience] {
	return &Collection[content.Experience]{s: s, name: events.DomainExperiences, remote: s.remote.Experiences,
		slot: func(d *content.Document) *[]content.Experience { return &d.Experiences }}
}

// Testimonials returns the testimonials editor.
func (s *Store) Testimonials() *Collection[content.Testimonial] {
	return &Collection[content.Testimonial]{s: s, name: events.DomainTestimonials, remote: s.remote.Testimonials,
		slot: func(d *content.Document) *[]content.Testimonial { return &d.Testimonials }}
}
