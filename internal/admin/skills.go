package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/primal-host/primal-folio/internal/content"
	"github.com/primal-host/primal-folio/internal/slug"
)

// PartialMutationError is returned by RenameCategory when the category
// was created under NewID but OldID could not be deleted. Both ids then
// exist remotely and in the document; deleting OldID resolves it.
type PartialMutationError struct {
	OldID string
	NewID string
	Err   error
}

func (e *PartialMutationError) Error() string {
	return fmt.Sprintf("admin: category copied to %q but %q was not deleted: %v", e.NewID, e.OldID, e.Err)
}

func (e *PartialMutationError) Unwrap() error { return e.Err }

// Skills returns a copy of every category keyed by id.
func (s *Store) Skills() map[string]content.SkillsCategory {
	out := map[string]content.SkillsCategory{}
	s.view(func(d *content.Document) {
		for id, c := range d.Skills {
			out[id] = c.Clone()
		}
	})
	return out
}

// Category returns one category.
func (s *Store) Category(id string) (content.SkillsCategory, bool) {
	var (
		c  content.SkillsCategory
		ok bool
	)
	s.view(func(d *content.Document) {
		c, ok = d.Skills[id]
		c = c.Clone()
	})
	return c, ok
}

func (s *Store) taken(id string) bool {
	_, ok := s.Category(id)
	return ok
}

func (s *Store) putCategory(id string, c content.SkillsCategory) {
	s.commit(func(d *content.Document) {
		next := make(map[string]content.SkillsCategory, len(d.Skills)+1)
		for k, v := range d.Skills {
			next[k] = v
		}
		next[id] = c.Normalize()
		d.Skills = next
	})
}

func (s *Store) dropCategory(id string) {
	s.commit(func(d *content.Document) {
		next := make(map[string]content.SkillsCategory, len(d.Skills))
		for k, v := range d.Skills {
			if k != id {
				next[k] = v
			}
		}
		d.Skills = next
	})
}

// AddCategory creates an empty category labeled label. Its id is the
// slug of the label, suffixed -1, -2, ... until it is unused. The id is
// returned.
func (s *Store) AddCategory(ctx context.Context, label string) (string, error) {
	unlock, err := s.mutate()
	if err != nil {
		return "", err
	}
	defer unlock()

	label = strings.TrimSpace(label)
	if label == "" {
		return "", ErrEmptyValue
	}

	id := slug.Unique(slug.Base(label), s.taken, "")
	stored, err := s.remote.Skills.Create(ctx, id, content.SkillsCategory{Label: label}.Normalize())
	if err != nil {
		return "", fmt.Errorf("admin: create category %q: %w", id, err)
	}
	s.putCategory(id, stored)
	return id, nil
}

// RenameCategory relabels the category id. When the new label slugs to
// the same id, or to nothing free other than id itself, only the label
// changes. Otherwise the category moves: it is created under the new id
// and then deleted under the old one. The resulting id is returned.
func (s *Store) RenameCategory(ctx context.Context, id, label string) (string, error) {
	unlock, err := s.mutate()
	if err != nil {
		return "", err
	}
	defer unlock()

	label = strings.TrimSpace(label)
	if label == "" {
		return "", ErrEmptyValue
	}
	cat, ok := s.Category(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	cat.Label = label

	newID := slug.Unique(slug.Base(label), s.taken, id)
	if newID == id {
		stored, err := s.remote.Skills.Update(ctx, id, cat)
		if err != nil {
			return "", fmt.Errorf("admin: update category %q: %w", id, err)
		}
		s.putCategory(id, stored)
		return id, nil
	}

	stored, err := s.remote.Skills.Create(ctx, newID, cat)
	if err != nil {
		return "", fmt.Errorf("admin: create category %q: %w", newID, err)
	}
	s.putCategory(newID, stored)

	if err := s.remote.Skills.Delete(ctx, id); err != nil {
		return newID, &PartialMutationError{OldID: id, NewID: newID, Err: err}
	}
	s.dropCategory(id)
	return newID, nil
}

// UpdateCategory writes the whole category under id.
func (s *Store) UpdateCategory(ctx context.Context, id string, c content.SkillsCategory) (content.SkillsCategory, error) {
	unlock, err := s.mutate()
	if err != nil {
		return content.SkillsCategory{}, err
	}
	defer unlock()

	if !s.taken(id) {
		return content.SkillsCategory{}, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	return s.writeCategory(ctx, id, c)
}

func (s *Store) writeCategory(ctx context.Context, id string, c content.SkillsCategory) (content.SkillsCategory, error) {
	stored, err := s.remote.Skills.Update(ctx, id, c.Normalize())
	if err != nil {
		return content.SkillsCategory{}, fmt.Errorf("admin: update category %q: %w", id, err)
	}
	stored = stored.Normalize()
	s.putCategory(id, stored)
	return stored.Clone(), nil
}

// DeleteCategory removes the category id.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	unlock, err := s.mutate()
	if err != nil {
		return err
	}
	defer unlock()

	if !s.taken(id) {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	if err := s.remote.Skills.Delete(ctx, id); err != nil {
		return fmt.Errorf("admin: delete category %q: %w", id, err)
	}
	s.dropCategory(id)
	return nil
}

// listField selects Skills or Achievements of a category.
type listField func(c *content.SkillsCategory) *[]string

func skillsOf(c *content.SkillsCategory) *[]string       { return &c.Skills }
func achievementsOf(c *content.SkillsCategory) *[]string { return &c.Achievements }

// editList applies edit to a copy of one list of category id and writes
// the whole category.
func (s *Store) editList(ctx context.Context, id string, field listField, edit func([]string) ([]string, error)) (content.SkillsCategory, error) {
	unlock, err := s.mutate()
	if err != nil {
		return content.SkillsCategory{}, err
	}
	defer unlock()

	cat, ok := s.Category(id)
	if !ok {
		return content.SkillsCategory{}, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	next, err := edit(*field(&cat))
	if err != nil {
		return content.SkillsCategory{}, err
	}
	*field(&cat) = next
	return s.writeCategory(ctx, id, cat)
}

func appendTrimmed(value string) func([]string) ([]string, error) {
	return func(list []string) ([]string, error) {
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, ErrEmptyValue
		}
		return append(list, value), nil
	}
}

func removeAt(index int) func([]string) ([]string, error) {
	return func(list []string) ([]string, error) {
		if index < 0 || index >= len(list) {
			return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(list))
		}
		return append(list[:index:index], list[index+1:]...), nil
	}
}

// AddSkill appends a trimmed skill to category id.
func (s *Store) AddSkill(ctx context.Context, id, skill string) (content.SkillsCategory, error) {
	return s.editList(ctx, id, skillsOf, appendTrimmed(skill))
}

// RemoveSkill removes the skill at index from category id.
func (s *Store) RemoveSkill(ctx context.Context, id string, index int) (content.SkillsCategory, error) {
	return s.editList(ctx, id, skillsOf, removeAt(index))
}

// AddAchievement appends a trimmed achievement to category id.
func (s *Store) AddAchievement(ctx context.Context, id, achievement string) (content.SkillsCategory, error) {
	return s.editList(ctx, id, achievementsOf, appendTrimmed(achievement))
}

// RemoveAchievement removes the achievement at index from category id.
func (s *Store) RemoveAchievement(ctx context.Context, id string, index int) (content.SkillsCategory, error) {
	return s.editList(ctx, id, achievementsOf, removeAt(index))
}
