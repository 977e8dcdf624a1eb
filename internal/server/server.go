// Package server provides the Content API for the portfolio, built on
// Echo v4. Public routes serve content; mutating routes require an admin
// session token issued by POST /auth/login.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/primal-host/primal-folio/internal/auth"
	"github.com/primal-host/primal-folio/internal/config"
	"github.com/primal-host/primal-folio/internal/content"
	"github.com/primal-host/primal-folio/internal/events"
	"github.com/primal-host/primal-folio/internal/logging"
	"github.com/primal-host/primal-folio/internal/mail"
	"github.com/primal-host/primal-folio/internal/metrics"
	"github.com/primal-host/primal-folio/internal/validation"
)

// SectionStore persists a singleton section.
type SectionStore[T any] interface {
	Get(ctx context.Context) (T, error)
	Set(ctx context.Context, v T) (T, error)
}

// ItemStore persists a multi-row entity keyed by a generated id.
type ItemStore[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id int64, v T) (T, error)
	Delete(ctx context.Context, id int64) (T, error)
}

// SkillStore persists skills categories keyed by category id.
type SkillStore interface {
	List(ctx context.Context) (map[string]content.SkillsCategory, error)
	Get(ctx context.Context, id string) (content.SkillsCategory, error)
	Create(ctx context.Context, id string, c content.SkillsCategory) (content.SkillsCategory, error)
	Upsert(ctx context.Context, id string, c content.SkillsCategory) (content.SkillsCategory, error)
	Delete(ctx context.Context, id string) (content.SkillsCategory, error)
}

// CredentialGate validates and rotates the admin password.
type CredentialGate interface {
	Authenticate(ctx context.Context, password string) error
	Change(ctx context.Context, current, next string) error
}

// Pinger reports database reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Stores groups one store per content domain.
type Stores struct {
	Hero         SectionStore[content.Hero]
	About        SectionStore[content.About]
	Contact      SectionStore[content.Contact]
	Skills       SkillStore
	Projects     ItemStore[content.Project]
	Experiences  ItemStore[content.Experience]
	Testimonials ItemStore[content.Testimonial]
}

// Deps holds the server's collaborators. Events, Mailer and DB are
// optional.
type Deps struct {
	Stores      Stores
	Credentials CredentialGate
	Tokens      *auth.Manager
	Events      *events.Manager
	Mailer      mail.Mailer
	DB          Pinger
}

// Server wraps the Echo instance and application dependencies.
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	stores Stores
	creds  CredentialGate
	tokens *auth.Manager
	events *events.Manager
	mailer mail.Mailer
	db     Pinger
}

// New creates a configured Echo server with all routes registered.
func New(cfg *config.Config, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true // We log the listen address ourselves.
	e.JSONSerializer = goccySerializer{}
	e.Validator = validation.Validate{}
	e.HTTPErrorHandler = handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, headerIfNoneMatch},
		ExposeHeaders:    []string{headerETag},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("1M"))

	if deps.Events == nil {
		deps.Events = events.NewManager(nil)
	}
	if deps.Mailer == nil {
		deps.Mailer = mail.Disabled{}
	}

	s := &Server{
		echo:   e,
		cfg:    cfg,
		stores: deps.Stores,
		creds:  deps.Credentials,
		tokens: deps.Tokens,
		events: deps.Events,
		mailer: deps.Mailer,
		db:     deps.DB,
	}

	s.registerRoutes()
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// requestLogger writes one zerolog event per request and records the
// request metrics.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			route := v.RoutePath
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordRequest(v.Method, route, v.Status, v.Latency)

			ev := logging.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = logging.Error()
			}
			if v.Error != nil {
				ev = ev.Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", route).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

const adminContextKey = "admin"

// requireAdmin is middleware that accepts either the configured static
// admin key or a valid session token as the Bearer credential.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractBearer(c)
		if token == "" {
			return errorJSON(c, http.StatusUnauthorized, "AuthRequired",
				"Authorization header with Bearer token is required")
		}

		if s.cfg.Auth.AdminKey != "" && token == s.cfg.Auth.AdminKey {
			c.Set(adminContextKey, true)
			return next(c)
		}

		if err := s.tokens.Validate(token); err != nil {
			return errorJSON(c, http.StatusUnauthorized, "InvalidToken",
				"Invalid or expired session token")
		}

		c.Set(adminContextKey, true)
		return next(c)
	}
}

// extractBearer extracts the Bearer token from the Authorization header.
func extractBearer(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}

// emit records a successful mutation on the change feed. Emission is
// best-effort: failures are logged and never fail the request.
func (s *Server) emit(ctx context.Context, domain, action, key string) {
	metrics.RecordMutation(domain, action)
	if _, err := s.events.Emit(ctx, domain, action, key); err != nil {
		logging.Warn().Err(err).Str("domain", domain).Str("action", action).Msg("emit change")
	}
}

// Start begins listening for HTTP requests. It blocks until the context
// is cancelled, then performs a graceful shutdown allowing in-flight
// requests to complete.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.cfg.ListenAddr).Str("prefix", s.cfg.APIPrefix).Msg("listening")
		if err := s.echo.Start(s.cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logging.Info().Msg("shutting down HTTP server")
		s.events.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}
