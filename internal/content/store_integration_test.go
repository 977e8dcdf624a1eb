//go:build integration

package content

import (
	"context"
	"testing"

	"github.com/primal-host/primal-folio/internal/testinfra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionsIntegration(t *testing.T) {
	db := testinfra.Postgres(t)
	ctx := context.Background()

	hero := NewHeroSection(db)
	empty, err := hero.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, empty.Tags)
	assert.Equal(t, []MiniCard{}, empty.MiniCards)

	again, err := hero.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, empty, again)

	stored, err := hero.Set(ctx, Hero{Title: "Hi", MiniCards: []MiniCard{{Title: "Status", Desc: "Live"}}})
	require.NoError(t, err)
	assert.Equal(t, "Hi", stored.Title)
	assert.Equal(t, []string{}, stored.Tags)

	got, err := hero.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	about := NewAboutSection(db)
	_, err = about.Set(ctx, About{Title: "About", Stats: map[string]int{"yearsXP": 5}})
	require.NoError(t, err)
	a, err := about.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, a.Stats["yearsXP"])

	contact := NewContactSection(db)
	c, err := contact.Set(ctx, Contact{Name: "G", Discord: "g#1"})
	require.NoError(t, err)
	assert.Equal(t, "g#1", c.Discord)
	c, err = contact.Set(ctx, Contact{Name: "G"})
	require.NoError(t, err)
	assert.Equal(t, "", c.Discord)
}

func TestSkillStoreIntegration(t *testing.T) {
	db := testinfra.Postgres(t)
	ctx := context.Background()
	s := NewSkillStore(db)

	created, err := s.Create(ctx, "frontend", SkillsCategory{Label: "Frontend"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, created.Skills)

	_, err = s.Create(ctx, "frontend", SkillsCategory{Label: "Again"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.Upsert(ctx, "frontend", SkillsCategory{Label: "Frontend", Skills: []string{"GO"}})
	require.NoError(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"GO"}, all["frontend"].Skills)

	deleted, err := s.Delete(ctx, "frontend")
	require.NoError(t, err)
	assert.Equal(t, "Frontend", deleted.Label)

	_, err = s.Get(ctx, "frontend")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Delete(ctx, "frontend")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemsIntegration(t *testing.T) {
	db := testinfra.Postgres(t)
	ctx := context.Background()

	projects := NewProjectStore(db)
	first, err := projects.Create(ctx, Project{Title: "One"})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, []string{}, first.Tags)

	second, err := projects.Create(ctx, Project{Title: "Two", Tags: []string{"Go"}})
	require.NoError(t, err)

	list, err := projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	updated, err := projects.Update(ctx, first.ID, Project{Title: "Uno", ShortDescription: "short"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "short", updated.ShortDescription)

	_, err = projects.Update(ctx, 9999, Project{})
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := projects.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Uno", deleted.Title)
	_, err = projects.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	exps := NewExperienceStore(db)
	e, err := exps.Create(ctx, Experience{Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, e.Achievements)

	testimonials := NewTestimonialStore(db)
	tm, err := testimonials.Create(ctx, Testimonial{Text: "Great work", Author: "A", Role: "B"})
	require.NoError(t, err)
	assert.Equal(t, 5, tm.Rating)

	tm, err = testimonials.Update(ctx, tm.ID, Testimonial{Text: "Great work", Author: "A", Role: "B", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, tm.Rating)

	tm, err = testimonials.Update(ctx, tm.ID, Testimonial{Text: "x", Rating: 11})
	require.NoError(t, err)
	assert.Equal(t, 5, tm.Rating)
}
