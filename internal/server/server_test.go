package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/primal-host/primal-folio/internal/auth"
	"github.com/primal-host/primal-folio/internal/config"
	"github.com/primal-host/primal-folio/internal/content"
	"github.com/primal-host/primal-folio/internal/credential"
	"github.com/primal-host/primal-folio/internal/events"
	"github.com/primal-host/primal-folio/internal/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "admin123"

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, m mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fixture struct {
	srv    *Server
	cfg    *config.Config
	tokens *auth.Manager
	events *events.Manager
	mailer *fakeMailer
	token  string
}

type option func(*config.Config, *Deps)

func withCredentials(g CredentialGate) option {
	return func(_ *config.Config, d *Deps) { d.Credentials = g }
}

func withConfig(fn func(*config.Config)) option {
	return func(c *config.Config, _ *Deps) { fn(c) }
}

func newFixture(t *testing.T, opts ...option) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.LoginRatePerMinute = 0

	creds, err := credential.NewMemory(testPassword)
	require.NoError(t, err)

	tokens := auth.NewManager(cfg.Auth.JWTSecret, "primal-folio", time.Hour)
	ev := events.NewManager(nil)
	mailer := &fakeMailer{}

	deps := Deps{
		Stores: Stores{
			Hero:         content.NewMemorySection[content.Hero](),
			About:        content.NewMemorySection[content.About](),
			Contact:      content.NewMemorySection[content.Contact](),
			Skills:       content.NewMemorySkills(),
			Projects:     content.NewMemoryItems[content.Project]("project"),
			Experiences:  content.NewMemoryItems[content.Experience]("experience"),
			Testimonials: content.NewMemoryItems[content.Testimonial]("testimonial"),
		},
		Credentials: creds,
		Tokens:      tokens,
		Events:      ev,
		Mailer:      mailer,
	}
	for _, o := range opts {
		o(cfg, &deps)
	}

	tok, err := tokens.Issue()
	require.NoError(t, err)

	t.Cleanup(ev.Shutdown)
	return &fixture{
		srv:    New(cfg, deps),
		cfg:    cfg,
		tokens: tokens,
		events: ev,
		mailer: mailer,
		token:  tok.Token,
	}
}

// do sends a request with an optional JSON body. A non-empty token is
// sent as the Bearer credential.
func (f *fixture) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body != nil {
		var buf []byte
		switch b := body.(type) {
		case string:
			buf = []byte(b)
		default:
			var err error
			buf, err = json.Marshal(b)
			require.NoError(t, err)
		}
		r = httptest.NewRequest(method, path, bytes.NewReader(buf))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code, message string) {
	t.Helper()
	assert.Equal(t, status, w.Code, w.Body.String())
	body := decode[map[string]string](t, w)
	assert.Equal(t, code, body["error"])
	if message != "" {
		assert.Equal(t, message, body["message"])
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","message":"Server is running","database":"none"}`, w.Body.String())

	down := newFixture(t, func(_ *config.Config, d *Deps) { d.DB = fakePinger{err: errors.New("refused")} })
	w = down.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unreachable", decode[map[string]string](t, w)["database"])
}

func TestUnknownRouteReturnsJSONError(t *testing.T) {
	f := newFixture(t)
	assertError(t, f.do(t, http.MethodGet, "/api/nope", "", nil), http.StatusNotFound, "NotFound", "")
}

func TestSectionEmptyShape(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/sections/hero", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"title":"","subtitle":"","description":"","tags":[],"miniCards":[]}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/sections/about", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"title":"","subtitle":"","mission":"","coreAbilities":[],"stats":{}}`, w.Body.String())
}

func TestSectionWriteRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	hero := map[string]any{"title": "Hi"}

	assertError(t, f.do(t, http.MethodPut, "/api/sections/hero", "", hero),
		http.StatusUnauthorized, "AuthRequired", "")
	assertError(t, f.do(t, http.MethodPut, "/api/sections/hero", "garbage", hero),
		http.StatusUnauthorized, "InvalidToken", "")

	w := f.do(t, http.MethodPut, "/api/sections/hero", f.token, map[string]any{
		"title":     "Game Developer",
		"tags":      []string{"Unity"},
		"miniCards": []map[string]string{{"title": "Now", "desc": "Shipping"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decode[content.Hero](t, f.do(t, http.MethodGet, "/api/sections/hero", "", nil))
	assert.Equal(t, "Game Developer", got.Title)
	assert.Equal(t, []string{"Unity"}, got.Tags)
	assert.Equal(t, []content.MiniCard{{Title: "Now", Desc: "Shipping"}}, got.MiniCards)
}

func TestStaticAdminKey(t *testing.T) {
	f := newFixture(t, withConfig(func(c *config.Config) { c.Auth.AdminKey = "static-key" }))

	w := f.do(t, http.MethodPut, "/api/sections/contact", "static-key", map[string]string{"name": "Alex"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Alex", decode[content.Contact](t, w).Name)
}

func TestETagNotModified(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/sections/contact", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w = f.do(t, http.MethodGet, "/api/sections/contact", "", nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	f.do(t, http.MethodPut, "/api/sections/contact", f.token, map[string]string{"name": "Alex"})
	w = f.do(t, http.MethodGet, "/api/sections/contact", "", nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, etag, w.Header().Get("ETag"))
}

func TestMatchesETag(t *testing.T) {
	assert.False(t, matchesETag("", `"a"`))
	assert.True(t, matchesETag(`"a"`, `"a"`))
	assert.True(t, matchesETag(`"b", W/"a"`, `"a"`))
	assert.True(t, matchesETag("*", `"a"`))
	assert.False(t, matchesETag(`"b"`, `"a"`))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	assertError(t, f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{}),
		http.StatusBadRequest, "InvalidRequest", "Password is required")
	assertError(t, f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": "nope"}),
		http.StatusUnauthorized, "InvalidPassword", "Invalid password")
	assertError(t, f.do(t, http.MethodPost, "/api/auth/login", "", "{not json"),
		http.StatusBadRequest, "InvalidRequest", "Invalid JSON body")

	w := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Message       string    `json:"message"`
		Authenticated bool      `json:"authenticated"`
		Token         string    `json:"token"`
		ExpiresAt     time.Time `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Login successful", body.Message)
	assert.True(t, body.Authenticated)
	assert.NoError(t, f.tokens.Validate(body.Token))
	assert.True(t, body.ExpiresAt.After(time.Now()))
}

func TestLoginNotConfigured(t *testing.T) {
	empty, err := credential.NewMemory("")
	require.NoError(t, err)
	f := newFixture(t, withCredentials(empty))

	assertError(t, f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": "x"}),
		http.StatusInternalServerError, "InternalError", "Admin not configured. Please run seed script.")
}

func TestLoginRateLimit(t *testing.T) {
	f := newFixture(t, withConfig(func(c *config.Config) { c.Auth.LoginRatePerMinute = 2 }))

	for i := 0; i < 2; i++ {
		w := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	assertError(t, f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": testPassword}),
		http.StatusTooManyRequests, "RateLimited", "")
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	path := "/api/auth/password"

	assertError(t, f.do(t, http.MethodPut, path, "", map[string]string{}),
		http.StatusUnauthorized, "AuthRequired", "")
	assertError(t, f.do(t, http.MethodPut, path, f.token, map[string]string{"currentPassword": testPassword}),
		http.StatusBadRequest, "InvalidRequest", "Current and new passwords are required")
	assertError(t, f.do(t, http.MethodPut, path, f.token, map[string]string{
		"currentPassword": testPassword, "newPassword": "short",
	}), http.StatusBadRequest, "InvalidRequest", "New password must be at least 6 characters")
	assertError(t, f.do(t, http.MethodPut, path, f.token, map[string]string{
		"currentPassword": "wrong-one", "newPassword": "secret-2",
	}), http.StatusUnauthorized, "InvalidPassword", "Current password is incorrect")

	w := f.do(t, http.MethodPut, path, f.token, map[string]string{
		"currentPassword": testPassword, "newPassword": "secret-2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Password changed successfully"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized,
		f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": testPassword}).Code)
	assert.Equal(t, http.StatusOK,
		f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": "secret-2"}).Code)
}

func TestChangePasswordAdminMissing(t *testing.T) {
	empty, err := credential.NewMemory("")
	require.NoError(t, err)
	f := newFixture(t, withCredentials(empty))

	assertError(t, f.do(t, http.MethodPut, "/api/auth/password", f.token, map[string]string{
		"currentPassword": "whatever", "newPassword": "secret-2",
	}), http.StatusNotFound, "NotFound", "Admin not found")
}

func TestSkillsLifecycle(t *testing.T) {
	f := newFixture(t)

	assertError(t, f.do(t, http.MethodPost, "/api/skills", f.token, map[string]any{"label": "Systems"}),
		http.StatusBadRequest, "InvalidRequest", "")

	w := f.do(t, http.MethodPost, "/api/skills", f.token, map[string]any{
		"categoryId": "c-and-systems",
		"label":      "C++ & Systems",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"label":"C++ & Systems","skills":[],"achievements":[]}`, w.Body.String())

	assertError(t, f.do(t, http.MethodPost, "/api/skills", f.token, map[string]any{
		"categoryId": "c-and-systems", "label": "Again",
	}), http.StatusConflict, "Conflict", "Category already exists")

	w = f.do(t, http.MethodPut, "/api/skills/c-and-systems", f.token, map[string]any{
		"label":  "C++ & Systems",
		"skills": []string{"RUST"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"RUST"}, decode[content.SkillsCategory](t, w).Skills)

	// PUT creates when absent.
	w = f.do(t, http.MethodPut, "/api/skills/tools", f.token, map[string]any{"label": "Tools"})
	require.Equal(t, http.StatusOK, w.Code)

	cats := decode[map[string]content.SkillsCategory](t, f.do(t, http.MethodGet, "/api/skills", "", nil))
	assert.Len(t, cats, 2)
	assert.Equal(t, []string{}, cats["tools"].Achievements)

	got := decode[content.SkillsCategory](t, f.do(t, http.MethodGet, "/api/skills/c-and-systems", "", nil))
	assert.Equal(t, "C++ & Systems", got.Label)

	w = f.do(t, http.MethodDelete, "/api/skills/c-and-systems", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Category deleted successfully", decode[map[string]any](t, w)["message"])

	assertError(t, f.do(t, http.MethodGet, "/api/skills/c-and-systems", "", nil),
		http.StatusNotFound, "NotFound", "Category not found")
	assertError(t, f.do(t, http.MethodDelete, "/api/skills/c-and-systems", f.token, nil),
		http.StatusNotFound, "NotFound", "Category not found")
}

func TestTestimonialRatingNormalized(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		body string
		want int
	}{
		{`{"text":"Great","author":"Sam","role":"Lead"}`, 5},
		{`{"text":"Great","author":"Sam","role":"Lead","rating":9}`, 5},
		{`{"text":"Great","author":"Sam","role":"Lead","rating":-3}`, 1},
		{`{"text":"Great","author":"Sam","role":"Lead","rating":4}`, 4},
	}
	for _, tc := range cases {
		w := f.do(t, http.MethodPost, "/api/testimonials", f.token, tc.body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, tc.want, decode[content.Testimonial](t, w).Rating, tc.body)
	}
}

func TestItemsLifecycle(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/projects", f.token, map[string]any{
		"id":    99,
		"title": "Orbit",
		"tags":  []string{"Unity"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[content.Project](t, w)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, []string{}, created.Features)

	second := decode[content.Project](t, f.do(t, http.MethodPost, "/api/projects", f.token,
		map[string]any{"title": "Drift"}))
	assert.Equal(t, int64(2), second.ID)

	list := decode[[]content.Project](t, f.do(t, http.MethodGet, "/api/projects", "", nil))
	require.Len(t, list, 2)
	assert.Equal(t, "Drift", list[0].Title)

	w = f.do(t, http.MethodPut, "/api/projects/1", f.token, map[string]any{"title": "Orbit 2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Orbit 2", decode[content.Project](t, w).Title)

	w = f.do(t, http.MethodDelete, "/api/projects/1", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]json.RawMessage](t, w)
	assert.JSONEq(t, `"Project deleted successfully"`, string(body["message"]))
	assert.Contains(t, string(body["project"]), "Orbit 2")

	assertError(t, f.do(t, http.MethodGet, "/api/projects/1", "", nil), http.StatusNotFound, "NotFound", "Project not found")
	assertError(t, f.do(t, http.MethodPut, "/api/projects/1", f.token, map[string]any{}), http.StatusNotFound, "NotFound", "Project not found")
	assertError(t, f.do(t, http.MethodGet, "/api/experiences/abc", "", nil), http.StatusNotFound, "NotFound", "Experience not found")
	assertError(t, f.do(t, http.MethodDelete, "/api/testimonials/7", f.token, nil), http.StatusNotFound, "NotFound", "Testimonial not found")

	w = f.do(t, http.MethodGet, "/api/experiences", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestSendMessage(t *testing.T) {
	f := newFixture(t)
	path := "/api/contact/send"

	assertError(t, f.do(t, http.MethodPost, path, "", map[string]string{"name": "Ann", "email": "a@b.co"}),
		http.StatusBadRequest, "InvalidRequest", "All fields are required")
	assertError(t, f.do(t, http.MethodPost, path, "", map[string]string{
		"name": "Ann", "email": "not-an-email", "message": "hi",
	}), http.StatusBadRequest, "InvalidRequest", "Invalid email address")

	w := f.do(t, http.MethodPost, path, "", map[string]string{
		"name": "Ann", "email": "ann@example.com", "message": "Hello there",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"message":"Message sent successfully!"}`, w.Body.String())
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ann@example.com", f.mailer.sent[0].Email)

	f.mailer.err = errors.New("smtp down")
	assertError(t, f.do(t, http.MethodPost, path, "", map[string]string{
		"name": "Ann", "email": "ann@example.com", "message": "Hello there",
	}), http.StatusInternalServerError, "InternalError", "Failed to send message. Please try again later.")
}

func TestSendMessageNotConfigured(t *testing.T) {
	f := newFixture(t, func(_ *config.Config, d *Deps) { d.Mailer = mail.Disabled{} })

	assertError(t, f.do(t, http.MethodPost, "/api/contact/send", "", map[string]string{
		"name": "Ann", "email": "ann@example.com", "message": "Hello",
	}), http.StatusInternalServerError, "InternalError", "Email service not configured")
}

func dialFeed(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readChange(t *testing.T, conn *websocket.Conn) events.Change {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var c events.Change
	require.NoError(t, conn.ReadJSON(&c))
	return c
}

func TestFeedLive(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()

	conn := dialFeed(t, ts, "")

	w := f.do(t, http.MethodPost, "/api/testimonials", f.token, map[string]any{"text": "Nice"})
	require.Equal(t, http.StatusCreated, w.Code)

	c := readChange(t, conn)
	assert.Equal(t, int64(1), c.Seq)
	assert.Equal(t, events.DomainTestimonials, c.Domain)
	assert.Equal(t, events.ActionCreate, c.Action)
	assert.Equal(t, "1", c.Key)
}

func TestFeedReplayFromCursor(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()

	f.do(t, http.MethodPut, "/api/sections/hero", f.token, map[string]string{"title": "a"})
	f.do(t, http.MethodPut, "/api/skills/tools", f.token, map[string]string{"label": "Tools"})
	f.do(t, http.MethodDelete, "/api/skills/tools", f.token, nil)

	conn := dialFeed(t, ts, "?cursor=1")

	c := readChange(t, conn)
	assert.Equal(t, int64(2), c.Seq)
	assert.Equal(t, events.DomainSkills, c.Domain)
	assert.Equal(t, "tools", c.Key)
	c = readChange(t, conn)
	assert.Equal(t, int64(3), c.Seq)
	assert.Equal(t, events.ActionDelete, c.Action)

	f.do(t, http.MethodPut, "/api/sections/about", f.token, map[string]string{"title": "b"})
	c = readChange(t, conn)
	assert.Equal(t, int64(4), c.Seq)
	assert.Equal(t, events.DomainAbout, c.Domain)
}

func TestFeedBadCursor(t *testing.T) {
	f := newFixture(t)
	assertError(t, f.do(t, http.MethodGet, "/api/events?cursor=-2", "", nil),
		http.StatusBadRequest, "InvalidRequest", "")
}
