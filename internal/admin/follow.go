package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/primal-host/primal-folio/internal/content"
	"github.com/primal-host/primal-folio/internal/events"
	"github.com/primal-host/primal-folio/internal/logging"
)

// Feed delivers content changes, as client.Client.Watch does.
type Feed interface {
	Watch(ctx context.Context, cursor int64, fn func(events.Change) error) (int64, error)
}

// Refresh re-fetches one domain and replaces it in the document.
func (s *Store) Refresh(ctx context.Context, domain string) error {
	s.write.Lock()
	defer s.write.Unlock()

	var apply func(d *content.Document)
	switch domain {
	case events.DomainHero:
		v, err := s.remote.Hero.Get(ctx)
		if err != nil {
			return fmt.Errorf("admin: refresh %s: %w", domain, err)
		}
		apply = func(d *content.Document) { d.Hero = v.Normalize() }
	case events.DomainAbout:
		v, err := s.remote.About.Get(ctx)
		if err != nil {
			return fmt.Errorf("admin: refresh %s: %w", domain, err)
		}
		apply = func(d *content.Document) { d.About = v.Normalize() }
	case events.DomainContact:
		v, err := s.remote.Contact.Get(ctx)
		if err != nil {
			return fmt.Errorf("admin: refresh %s: %w", domain, err)
		}
		apply = func(d *content.Document) { d.Contact = v.Normalize() }
	case events.DomainSkills:
		v, err := s.remote.Skills.List(ctx)
		if err != nil {
			return fmt.Errorf("admin: refresh %s: %w", domain, err)
		}
		apply = func(d *content.Document) { d.Skills = normalizeDocument(content.Document{Skills: v}).Skills }
	case events.DomainProjects:
		v, err := s.remote.Projects.List(ctx)
		if err != nil {
			return fmt.Errorf("admin: refresh %s: %w", domain, err)
		}
		apply = func(d *content.Document) { d.Projects = normalizeAll(v) }
	case events.DomainExperiences:
		v, err := s.remote.Experiences.List(ctx)
		if err != nil {
			return fmt.Errorf("admin: refresh %s: %w", domain, err)
		}
		apply = func(d *content.Document) { d.Experiences = normalizeAll(v) }
	case events.DomainTestimonials:
		v, err := s.remote.Testimonials.List(ctx)
		if err != nil {
			return fmt.Errorf("admin: refresh %s: %w", domain, err)
		}
		apply = func(d *content.Document) { d.Testimonials = normalizeAll(v) }
	default:
		return fmt.Errorf("admin: unknown domain %q", domain)
	}

	s.commit(apply)
	return nil
}

// Follow keeps the document in step with changes made elsewhere, for
// example by another admin session. It refreshes the affected domain
// for every change and reconnects with the last cursor when the feed
// drops. Follow returns when ctx is cancelled.
func (s *Store) Follow(ctx context.Context, feed Feed) error {
	const retry = 2 * time.Second

	cursor := int64(-1)
	for {
		last, err := feed.Watch(ctx, cursor, func(ch events.Change) error {
			if err := s.Refresh(ctx, ch.Domain); err != nil {
				logging.Warn().Err(err).Str("domain", ch.Domain).Msg("admin: follow refresh")
			}
			return nil
		})
		cursor = last
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Warn().Err(err).Int64("cursor", cursor).Msg("admin: feed dropped, reconnecting")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}
	}
}
