package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/primal-host/primal-folio/internal/database"
)

// SkillsCategory is one group of skills. It is keyed externally by its
// category id; Label is the display name and may differ from the id.
type SkillsCategory struct {
	Label        string   `json:"label"`
	Skills       []string `json:"skills"`
	Achievements []string `json:"achievements"`
}

// Normalize replaces absent sequences with empty ones.
func (c SkillsCategory) Normalize() SkillsCategory {
	c.Skills = strs(c.Skills)
	c.Achievements = strs(c.Achievements)
	return c
}

// Clone returns a deep copy so callers can mutate sequences freely.
func (c SkillsCategory) Clone() SkillsCategory {
	c.Skills = append([]string{}, c.Skills...)
	c.Achievements = append([]string{}, c.Achievements...)
	return c
}

// SkillStore provides skills category CRUD keyed by category_id.
type SkillStore struct {
	db *database.DB
}

// NewSkillStore creates a SkillStore.
func NewSkillStore(db *database.DB) *SkillStore {
	return &SkillStore{db: db}
}

func scanCategory(row pgx.Row) (string, SkillsCategory, error) {
	var id string
	var c SkillsCategory
	if err := row.Scan(&id, &c.Label, &c.Skills, &c.Achievements); err != nil {
		return "", SkillsCategory{}, err
	}
	return id, c.Normalize(), nil
}

// List returns every category keyed by id.
func (s *SkillStore) List(ctx context.Context) (map[string]SkillsCategory, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT category_id, label, skills, achievements
		 FROM skills_categories ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("content: list skills: %w", err)
	}
	defer rows.Close()

	cats := map[string]SkillsCategory{}
	for rows.Next() {
		id, c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("content: list skills scan: %w", err)
		}
		cats[id] = c
	}
	return cats, rows.Err()
}

// Get returns a single category. Returns ErrNotFound if no row matches.
func (s *SkillStore) Get(ctx context.Context, id string) (SkillsCategory, error) {
	_, c, err := scanCategory(s.db.Pool.QueryRow(ctx,
		`SELECT category_id, label, skills, achievements
		 FROM skills_categories WHERE category_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return SkillsCategory{}, fmt.Errorf("%w: skills category %s", ErrNotFound, id)
	}
	if err != nil {
		return SkillsCategory{}, fmt.Errorf("content: get skills category %q: %w", id, err)
	}
	return c, nil
}

// Create inserts a new category. Returns ErrConflict if the id is taken.
func (s *SkillStore) Create(ctx context.Context, id string, c SkillsCategory) (SkillsCategory, error) {
	c = c.Normalize()
	_, stored, err := scanCategory(s.db.Pool.QueryRow(ctx,
		`INSERT INTO skills_categories (category_id, label, skills, achievements)
		 VALUES ($1, $2, $3, $4)
		 RETURNING category_id, label, skills, achievements`,
		id, c.Label, c.Skills, c.Achievements))
	if isDuplicateKey(err) {
		return SkillsCategory{}, fmt.Errorf("%w: skills category %s", ErrConflict, id)
	}
	if err != nil {
		return SkillsCategory{}, fmt.Errorf("content: create skills category %q: %w", id, err)
	}
	return stored, nil
}

// Upsert writes the whole category under id, creating it if absent.
func (s *SkillStore) Upsert(ctx context.Context, id string, c SkillsCategory) (SkillsCategory, error) {
	c = c.Normalize()
	_, stored, err := scanCategory(s.db.Pool.QueryRow(ctx,
		`INSERT INTO skills_categories (category_id, label, skills, achievements)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (category_id) DO UPDATE
		 SET label = EXCLUDED.label, skills = EXCLUDED.skills,
		     achievements = EXCLUDED.achievements, updated_at = NOW()
		 RETURNING category_id, label, skills, achievements`,
		id, c.Label, c.Skills, c.Achievements))
	if err != nil {
		return SkillsCategory{}, fmt.Errorf("content: upsert skills category %q: %w", id, err)
	}
	return stored, nil
}

// Delete removes a category and returns its last values. Returns
// ErrNotFound if no row matches.
func (s *SkillStore) Delete(ctx context.Context, id string) (SkillsCategory, error) {
	_, c, err := scanCategory(s.db.Pool.QueryRow(ctx,
		`DELETE FROM skills_categories WHERE category_id = $1
		 RETURNING category_id, label, skills, achievements`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return SkillsCategory{}, fmt.Errorf("%w: skills category %s", ErrNotFound, id)
	}
	if err != nil {
		return SkillsCategory{}, fmt.Errorf("content: delete skills category %q: %w", id, err)
	}
	return c, nil
}
