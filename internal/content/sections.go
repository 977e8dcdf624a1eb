package content

import (
	"github.com/jackc/pgx/v5"
	"github.com/primal-host/primal-folio/internal/database"
)

// MiniCard is one of the small status cards shown beside the hero text.
type MiniCard struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// Hero is the landing section.
type Hero struct {
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	MiniCards   []MiniCard `json:"miniCards"`
}

// Normalize replaces absent sequences with empty ones.
func (h Hero) Normalize() Hero {
	h.Tags = strs(h.Tags)
	if h.MiniCards == nil {
		h.MiniCards = []MiniCard{}
	}
	return h
}

// About is the "about me" section. Stats maps counters such as projects,
// yearsXP and videos to their values.
type About struct {
	Title         string         `json:"title"`
	Subtitle      string         `json:"subtitle"`
	Mission       string         `json:"mission"`
	CoreAbilities []string       `json:"coreAbilities"`
	Stats         map[string]int `json:"stats"`
}

// Normalize replaces absent sequences and mappings with empty ones.
func (a About) Normalize() About {
	a.CoreAbilities = strs(a.CoreAbilities)
	if a.Stats == nil {
		a.Stats = map[string]int{}
	}
	return a
}

// Contact is the contact card. Discord is optional and reads back as ""
// when unset.
type Contact struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Bio     string `json:"bio"`
	Email   string `json:"email"`
	Discord string `json:"discord"`
	Status  string `json:"status"`
}

// Normalize is the identity for Contact; it has no sequences.
func (c Contact) Normalize() Contact { return c }

// NewHeroSection returns the hero singleton store.
func NewHeroSection(db *database.DB) *Section[Hero] {
	return &Section[Hero]{db: db, codec: sectionCodec[Hero]{
		table:       "hero",
		columns:     []string{"title", "subtitle", "description", "tags", "mini_cards"},
		selectExprs: []string{"title", "subtitle", "description", "tags", "mini_cards"},
		values: func(h Hero) []any {
			return []any{h.Title, h.Subtitle, h.Description, h.Tags, h.MiniCards}
		},
		scan: func(row pgx.Row) (Hero, error) {
			var h Hero
			err := row.Scan(&h.Title, &h.Subtitle, &h.Description, &h.Tags, &h.MiniCards)
			return h, err
		},
		empty:     func() Hero { return Hero{}.Normalize() },
		normalize: Hero.Normalize,
	}}
}

// NewAboutSection returns the about singleton store.
func NewAboutSection(db *database.DB) *Section[About] {
	return &Section[About]{db: db, codec: sectionCodec[About]{
		table:       "about",
		columns:     []string{"title", "subtitle", "mission", "core_abilities", "stats"},
		selectExprs: []string{"title", "subtitle", "mission", "core_abilities", "stats"},
		values: func(a About) []any {
			return []any{a.Title, a.Subtitle, a.Mission, a.CoreAbilities, a.Stats}
		},
		scan: func(row pgx.Row) (About, error) {
			var a About
			err := row.Scan(&a.Title, &a.Subtitle, &a.Mission, &a.CoreAbilities, &a.Stats)
			return a, err
		},
		empty:     func() About { return About{}.Normalize() },
		normalize: About.Normalize,
	}}
}

// NewContactSection returns the contact singleton store. An empty
// Discord handle is stored as NULL.
func NewContactSection(db *database.DB) *Section[Contact] {
	return &Section[Contact]{db: db, codec: sectionCodec[Contact]{
		table:       "contact",
		columns:     []string{"name", "role", "bio", "email", "discord", "status"},
		selectExprs: []string{"name", "role", "bio", "email", "COALESCE(discord, '')", "status"},
		values: func(c Contact) []any {
			var discord *string
			if c.Discord != "" {
				discord = &c.Discord
			}
			return []any{c.Name, c.Role, c.Bio, c.Email, discord, c.Status}
		},
		scan: func(row pgx.Row) (Contact, error) {
			var c Contact
			err := row.Scan(&c.Name, &c.Role, &c.Bio, &c.Email, &c.Discord, &c.Status)
			return c, err
		},
		empty:     func() Contact { return Contact{} },
		normalize: Contact.Normalize,
	}}
}
