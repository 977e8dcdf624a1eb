package admin

import (
	"context"

	"github.com/primal-host/primal-folio/internal/client"
	"github.com/primal-host/primal-folio/internal/content"
)

// SectionRemote reads and replaces one singleton section.
type SectionRemote[T any] interface {
	Get(ctx context.Context) (T, error)
	Set(ctx context.Context, v T) (T, error)
}

// CollectionRemote is the remote side of an item list.
type CollectionRemote[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id int64, v T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// SkillsRemote is the remote side of the skills taxonomy.
type SkillsRemote interface {
	List(ctx context.Context) (map[string]content.SkillsCategory, error)
	Create(ctx context.Context, id string, c content.SkillsCategory) (content.SkillsCategory, error)
	Update(ctx context.Context, id string, c content.SkillsCategory) (content.SkillsCategory, error)
	Delete(ctx context.Context, id string) error
}

// Remote groups the remote endpoints for every content domain.
type Remote struct {
	Hero         SectionRemote[content.Hero]
	About        SectionRemote[content.About]
	Contact      SectionRemote[content.Contact]
	Skills       SkillsRemote
	Projects     CollectionRemote[content.Project]
	Experiences  CollectionRemote[content.Experience]
	Testimonials CollectionRemote[content.Testimonial]
}

// NewRemote binds every domain to the Content API behind c.
func NewRemote(c *client.Client) Remote {
	return Remote{
		Hero:         c.Hero(),
		About:        c.About(),
		Contact:      c.Contact(),
		Skills:       c.Skills(),
		Projects:     c.Projects(),
		Experiences:  c.Experiences(),
		Testimonials: c.Testimonials(),
	}
}
