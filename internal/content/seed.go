package content

import (
	"context"
	"fmt"
	"sort"
)

// SectionWriter is the write side of a singleton section store.
type SectionWriter[T any] interface {
	Set(ctx context.Context, v T) (T, error)
}

// ItemSeeder is the part of an item store Seed needs.
type ItemSeeder[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, v T) (T, error)
}

// SkillSeeder is the part of a skills store Seed needs.
type SkillSeeder interface {
	Upsert(ctx context.Context, id string, c SkillsCategory) (SkillsCategory, error)
}

// SeedStores names the store for every domain. Both the PostgreSQL
// stores and the Memory* stores satisfy these.
type SeedStores struct {
	Hero         SectionWriter[Hero]
	About        SectionWriter[About]
	Contact      SectionWriter[Contact]
	Skills       SkillSeeder
	Projects     ItemSeeder[Project]
	Experiences  ItemSeeder[Experience]
	Testimonials ItemSeeder[Testimonial]
}

// SeedReport counts what Seed wrote.
type SeedReport struct {
	Categories   int
	Projects     int
	Experiences  int
	Testimonials int
}

// Seed writes doc into the stores. Sections and skills categories are
// overwritten; item lists are only filled when they are empty, so
// seeding twice does not duplicate them.
func Seed(ctx context.Context, st SeedStores, doc Document) (SeedReport, error) {
	var r SeedReport

	if _, err := st.Hero.Set(ctx, doc.Hero); err != nil {
		return r, fmt.Errorf("content: seed hero: %w", err)
	}
	if _, err := st.About.Set(ctx, doc.About); err != nil {
		return r, fmt.Errorf("content: seed about: %w", err)
	}
	if _, err := st.Contact.Set(ctx, doc.Contact); err != nil {
		return r, fmt.Errorf("content: seed contact: %w", err)
	}

	ids := make([]string, 0, len(doc.Skills))
	for id := range doc.Skills {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := st.Skills.Upsert(ctx, id, doc.Skills[id]); err != nil {
			return r, fmt.Errorf("content: seed skills %q: %w", id, err)
		}
		r.Categories++
	}

	var err error
	if r.Projects, err = seedItems(ctx, st.Projects, doc.Projects); err != nil {
		return r, fmt.Errorf("content: seed projects: %w", err)
	}
	if r.Experiences, err = seedItems(ctx, st.Experiences, doc.Experiences); err != nil {
		return r, fmt.Errorf("content: seed experiences: %w", err)
	}
	if r.Testimonials, err = seedItems(ctx, st.Testimonials, doc.Testimonials); err != nil {
		return r, fmt.Errorf("content: seed testimonials: %w", err)
	}
	return r, nil
}

// seedItems creates items when the store is empty. Items are created
// last to first so that newest-first listing keeps the given order.
func seedItems[T Item[T]](ctx context.Context, st ItemSeeder[T], items []T) (int, error) {
	existing, err := st.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	n := 0
	for i := len(items) - 1; i >= 0; i-- {
		if _, err := st.Create(ctx, items[i].WithKey(0)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
