package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/primal-host/primal-folio/internal/auth"
	"github.com/primal-host/primal-folio/internal/content"
)

// Health is the /health response.
type Health struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
}

// Health checks that the API is up.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &h)
	return h, err
}

// Login exchanges the admin password for a session token and keeps the
// token for later calls.
func (c *Client) Login(ctx context.Context, password string) (auth.Token, error) {
	var tok auth.Token
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"password": password}, &tok)
	if err != nil {
		return auth.Token{}, err
	}
	c.SetToken(tok.Token)
	return tok, nil
}

// ChangePassword rotates the admin password. Requires a session.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPut, "/auth/password", map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	}, nil)
}

// SendMessage submits the public contact form.
func (c *Client) SendMessage(ctx context.Context, name, email, message string) error {
	return c.do(ctx, http.MethodPost, "/contact/send", map[string]string{
		"name":    name,
		"email":   email,
		"message": message,
	}, nil)
}

// Section is a singleton section endpoint.
type Section[T any] struct {
	c    *Client
	path string
}

// Get fetches the section.
func (s Section[T]) Get(ctx context.Context) (T, error) {
	var v T
	err := s.c.do(ctx, http.MethodGet, s.path, nil, &v)
	return v, err
}

// Set replaces the section and returns the stored shape.
func (s Section[T]) Set(ctx context.Context, v T) (T, error) {
	var out T
	err := s.c.do(ctx, http.MethodPut, s.path, v, &out)
	return out, err
}

// Hero returns the hero section endpoint.
func (c *Client) Hero() Section[content.Hero] {
	return Section[content.Hero]{c: c, path: "/sections/hero"}
}

// About returns the about section endpoint.
func (c *Client) About() Section[content.About] {
	return Section[content.About]{c: c, path: "/sections/about"}
}

// Contact returns the contact section endpoint.
func (c *Client) Contact() Section[content.Contact] {
	return Section[content.Contact]{c: c, path: "/sections/contact"}
}

// Resource is a multi-row collection endpoint.
type Resource[T any] struct {
	c    *Client
	path string
}

func (r Resource[T]) item(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// List fetches every item, newest first.
func (r Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get fetches one item.
func (r Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var v T
	err := r.c.do(ctx, http.MethodGet, r.item(id), nil, &v)
	return v, err
}

// Create adds an item and returns it with its generated id.
func (r Resource[T]) Create(ctx context.Context, v T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.path, v, &out)
	return out, err
}

// Update replaces the item with id.
func (r Resource[T]) Update(ctx context.Context, id int64, v T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPut, r.item(id), v, &out)
	return out, err
}

// Delete removes the item with id.
func (r Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, http.MethodDelete, r.item(id), nil, nil)
}

// Projects returns the projects endpoint.
func (c *Client) Projects() Resource[content.Project] {
	return Resource[content.Project]{c: c, path: "/projects"}
}

// Experiences returns the experiences endpoint.
func (c *Client) Experiences() Resource[content.Experience] {
	return Resource[content.Experience]{c: c, path: "/experiences"}
}

// Testimonials returns the testimonials endpoint.
func (c *Client) Testimonials() Resource[content.Testimonial] {
	return Resource[content.Testimonial]{c: c, path: "/testimonials"}
}

// Skills is the skills taxonomy endpoint.
type Skills struct {
	c *Client
}

// Skills returns the skills endpoint.
func (c *Client) Skills() Skills {
	return Skills{c: c}
}

func categoryPath(id string) string {
	return "/skills/" + url.PathEscape(id)
}

// List fetches every category keyed by id.
func (s Skills) List(ctx context.Context) (map[string]content.SkillsCategory, error) {
	var cats map[string]content.SkillsCategory
	if err := s.c.do(ctx, http.MethodGet, "/skills", nil, &cats); err != nil {
		return nil, err
	}
	if cats == nil {
		cats = map[string]content.SkillsCategory{}
	}
	return cats, nil
}

// Get fetches one category.
func (s Skills) Get(ctx context.Context, id string) (content.SkillsCategory, error) {
	var cat content.SkillsCategory
	err := s.c.do(ctx, http.MethodGet, categoryPath(id), nil, &cat)
	return cat, err
}

// Create adds a category under id. The API answers 409 if id is taken.
func (s Skills) Create(ctx context.Context, id string, cat content.SkillsCategory) (content.SkillsCategory, error) {
	cat = cat.Normalize()
	req := struct {
		CategoryID   string   `json:"categoryId"`
		Label        string   `json:"label"`
		Skills       []string `json:"skills"`
		Achievements []string `json:"achievements"`
	}{id, cat.Label, cat.Skills, cat.Achievements}

	var out content.SkillsCategory
	err := s.c.do(ctx, http.MethodPost, "/skills", req, &out)
	return out, err
}

// Update writes the whole category under id.
func (s Skills) Update(ctx context.Context, id string, cat content.SkillsCategory) (content.SkillsCategory, error) {
	var out content.SkillsCategory
	err := s.c.do(ctx, http.MethodPut, categoryPath(id), cat.Normalize(), &out)
	return out, err
}

// Delete removes the category with id.
func (s Skills) Delete(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, categoryPath(id), nil, nil)
}
