// Package admin implements the Admin Content Store: the client-side copy
// of every editable section, the session state, and the mutations the
// admin tooling performs.
//
// The in-memory document only ever changes after the matching remote
// call has succeeded. A failed call leaves it untouched and returns the
// error to the caller.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/primal-host/primal-folio/internal/content"
	"github.com/primal-host/primal-folio/internal/events"
	"github.com/primal-host/primal-folio/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Sentinel errors.
var (
	ErrNotAuthenticated = errors.New("admin: not authenticated")
	ErrUnknownCategory  = errors.New("admin: unknown skills category")
	ErrUnknownItem      = errors.New("admin: unknown item")
	ErrEmptyValue       = errors.New("admin: value is empty")
	ErrIndexOutOfRange  = errors.New("admin: index out of range")
)

// Phase is the lifecycle stage of a Store.
type Phase int

const (
	// PhaseDefaults holds the built-in default content.
	PhaseDefaults Phase = iota
	// PhaseHydrating is set while Hydrate is fetching.
	PhaseHydrating
	// PhaseReady holds content loaded from the API.
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseDefaults:
		return "defaults"
	case PhaseHydrating:
		return "hydrating"
	case PhaseReady:
		return "ready"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// BootstrapError reports the domain whose fetch failed during Hydrate.
type BootstrapError struct {
	Domain string
	Err    error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("admin: load %s: %v", e.Domain, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

// Store is the Admin Content Store. Create one with New and share the
// pointer; the zero value is not usable.
type Store struct {
	remote Remote
	gate   Gate
	marker Marker

	// write serializes mutations so each one observes the document left
	// by the previous.
	write sync.Mutex

	mu     sync.RWMutex
	phase  Phase
	authed bool
	doc    content.Document
}

// Option configures a Store.
type Option func(*Store)

// WithMarker persists the session across processes.
func WithMarker(m Marker) Option {
	return func(s *Store) { s.marker = m }
}

// WithDocument replaces the initial default document.
func WithDocument(d content.Document) Option {
	return func(s *Store) { s.doc = d.Clone() }
}

// New returns a Store holding the default content.
func New(remote Remote, gate Gate, opts ...Option) *Store {
	s := &Store{
		remote: remote,
		gate:   gate,
		marker: &MemoryMarker{},
		doc:    content.Defaults(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Phase returns the current lifecycle stage.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() content.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// view runs fn under the read lock.
func (s *Store) view(fn func(d *content.Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.doc)
}

// commit applies fn to the document under the write lock.
func (s *Store) commit(fn func(d *content.Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.doc)
}

// mutate is the entry point of every remote mutation: it serializes
// writers and requires a session.
func (s *Store) mutate() (unlock func(), err error) {
	s.write.Lock()
	if !s.IsAuthenticated() {
		s.write.Unlock()
		return nil, ErrNotAuthenticated
	}
	return s.write.Unlock, nil
}

// Hydrate fetches every domain in parallel and replaces the document
// only when all of them succeed. On failure nothing is applied, the
// previous phase is restored and a *BootstrapError names the first
// domain that failed. Hydrate may be retried.
func (s *Store) Hydrate(ctx context.Context) error {
	s.write.Lock()
	defer s.write.Unlock()

	s.mu.Lock()
	prev := s.phase
	s.phase = PhaseHydrating
	s.mu.Unlock()

	var next content.Document
	g, gctx := errgroup.WithContext(ctx)
	fetch := func(domain string, fn func(ctx context.Context) error) {
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				return &BootstrapError{Domain: domain, Err: err}
			}
			return nil
		})
	}

	fetch(events.DomainHero, func(ctx context.Context) (err error) {
		next.Hero, err = s.remote.Hero.Get(ctx)
		return err
	})
	fetch(events.DomainAbout, func(ctx context.Context) (err error) {
		next.About, err = s.remote.About.Get(ctx)
		return err
	})
	fetch(events.DomainContact, func(ctx context.Context) (err error) {
		next.Contact, err = s.remote.Contact.Get(ctx)
		return err
	})
	fetch(events.DomainSkills, func(ctx context.Context) (err error) {
		next.Skills, err = s.remote.Skills.List(ctx)
		return err
	})
	fetch(events.DomainProjects, func(ctx context.Context) (err error) {
		next.Projects, err = s.remote.Projects.List(ctx)
		return err
	})
	fetch(events.DomainExperiences, func(ctx context.Context) (err error) {
		next.Experiences, err = s.remote.Experiences.List(ctx)
		return err
	})
	fetch(events.DomainTestimonials, func(ctx context.Context) (err error) {
		next.Testimonials, err = s.remote.Testimonials.List(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.phase = prev
		s.mu.Unlock()
		logging.Warn().Err(err).Msg("admin: hydrate failed, keeping current content")
		return err
	}

	next = normalizeDocument(next)
	s.mu.Lock()
	s.doc = next
	s.phase = PhaseReady
	s.mu.Unlock()
	return nil
}

// normalizeDocument fills absent sequences and mappings throughout d.
func normalizeDocument(d content.Document) content.Document {
	d.Hero = d.Hero.Normalize()
	d.About = d.About.Normalize()
	d.Contact = d.Contact.Normalize()
	if d.Skills == nil {
		d.Skills = map[string]content.SkillsCategory{}
	}
	for id, c := range d.Skills {
		d.Skills[id] = c.Normalize()
	}
	d.Projects = normalizeAll(d.Projects)
	d.Experiences = normalizeAll(d.Experiences)
	d.Testimonials = normalizeAll(d.Testimonials)
	return d
}

func normalizeAll[T content.Item[T]](items []T) []T {
	out := make([]T, len(items))
	for i, v := range items {
		out[i] = v.Normalize()
	}
	return out
}
