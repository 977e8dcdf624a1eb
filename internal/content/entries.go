package content

import (
	"github.com/jackc/pgx/v5"
	"github.com/primal-host/primal-folio/internal/database"
)

// Project is a portfolio project card.
type Project struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"shortDescription"`
	Tags             []string `json:"tags"`
	Features         []string `json:"features"`
}

func (p Project) Key() int64 { return p.ID }
func (p Project) WithKey(id int64) Project { p.ID = id; return p }
func (p Project) Normalize() Project {
	p.Tags = strs(p.Tags)
	p.Features = strs(p.Features)
	return p
}

// Experience is one entry of the work history.
type Experience struct {
	ID           int64    `json:"id"`
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Period       string   `json:"period"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
	Tags         []string `json:"tags"`
}

func (e Experience) Key() int64 { return e.ID }
func (e Experience) WithKey(id int64) Experience { e.ID = id; return e }
func (e Experience) Normalize() Experience {
	e.Achievements = strs(e.Achievements)
	e.Tags = strs(e.Tags)
	return e
}

// Rating bounds for testimonials.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = MaxRating
)

// NormalizeRating maps an unset (zero) rating to DefaultRating and clamps
// everything else into [MinRating, MaxRating].
func NormalizeRating(r int) int {
	switch {
	case r == 0:
		return DefaultRating
	case r < MinRating:
		return MinRating
	case r > MaxRating:
		return MaxRating
	}
	return r
}

// Testimonial is a quote from a client or colleague.
type Testimonial struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Role   string `json:"role"`
	Rating int    `json:"rating"`
}

func (t Testimonial) Key() int64 { return t.ID }
func (t Testimonial) WithKey(id int64) Testimonial { t.ID = id; return t }
func (t Testimonial) Normalize() Testimonial {
	t.Rating = NormalizeRating(t.Rating)
	return t
}

// NewProjectStore returns the projects table store.
func NewProjectStore(db *database.DB) *Items[Project] {
	return &Items[Project]{db: db, codec: itemCodec[Project]{
		table:   "projects",
		noun:    "project",
		columns: []string{"title", "name", "description", "short_description", "tags", "features"},
		values: func(p Project) []any {
			return []any{p.Title, p.Name, p.Description, p.ShortDescription, p.Tags, p.Features}
		},
		scan: func(row pgx.Row) (Project, error) {
			var p Project
			err := row.Scan(&p.ID, &p.Title, &p.Name, &p.Description, &p.ShortDescription, &p.Tags, &p.Features)
			return p, err
		},
		normalize: Project.Normalize,
	}}
}

// NewExperienceStore returns the experiences table store.
func NewExperienceStore(db *database.DB) *Items[Experience] {
	return &Items[Experience]{db: db, codec: itemCodec[Experience]{
		table:   "experiences",
		noun:    "experience",
		columns: []string{"company", "role", "period", "description", "achievements", "tags"},
		values: func(e Experience) []any {
			return []any{e.Company, e.Role, e.Period, e.Description, e.Achievements, e.Tags}
		},
		scan: func(row pgx.Row) (Experience, error) {
			var e Experience
			err := row.Scan(&e.ID, &e.Company, &e.Role, &e.Period, &e.Description, &e.Achievements, &e.Tags)
			return e, err
		},
		normalize: Experience.Normalize,
	}}
}

// NewTestimonialStore returns the testimonials table store.
func NewTestimonialStore(db *database.DB) *Items[Testimonial] {
	return &Items[Testimonial]{db: db, codec: itemCodec[Testimonial]{
		table:   "testimonials",
		noun:    "testimonial",
		columns: []string{"text", "author", "role", "rating"},
		values: func(t Testimonial) []any {
			return []any{t.Text, t.Author, t.Role, t.Rating}
		},
		scan: func(row pgx.Row) (Testimonial, error) {
			var t Testimonial
			var rating int16
			err := row.Scan(&t.ID, &t.Text, &t.Author, &t.Role, &rating)
			t.Rating = int(rating)
			return t, err
		},
		normalize: Testimonial.Normalize,
	}}
}
