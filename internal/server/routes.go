package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/primal-host/primal-folio/internal/events"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes sets up all HTTP routes. Reads are public; every
// mutation requires an admin credential.
func (s *Server) registerRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	g := s.echo.Group(s.cfg.APIPrefix)

	// --- Public endpoints (no auth) ---
	g.GET("/health", s.handleHealth)
	g.GET("/events", s.handleEvents)
	g.POST("/contact/send", s.handleSendMessage)

	// --- Auth ---
	g.POST("/auth/login", s.handleLogin, s.loginRateLimit())
	g.PUT("/auth/password", s.handleChangePassword, s.requireAdmin)

	// --- Content ---
	registerSection(s, g, events.DomainHero, s.stores.Hero)
	registerSection(s, g, events.DomainAbout, s.stores.About)
	registerSection(s, g, events.DomainContact, s.stores.Contact)

	g.GET("/skills", s.handleListSkills)
	g.GET("/skills/:categoryId", s.handleGetCategory)
	g.POST("/skills", s.handleCreateCategory, s.requireAdmin)
	g.PUT("/skills/:categoryId", s.handleUpdateCategory, s.requireAdmin)
	g.DELETE("/skills/:categoryId", s.handleDeleteCategory, s.requireAdmin)

	registerItems(s, g, events.DomainProjects, "Project", s.stores.Projects)
	registerItems(s, g, events.DomainExperiences, "Experience", s.stores.Experiences)
	registerItems(s, g, events.DomainTestimonials, "Testimonial", s.stores.Testimonials)
}

// handleHealth reports liveness. The status stays 200 when the database
// is unreachable so the frontend can still tell the API is up.
func (s *Server) handleHealth(c echo.Context) error {
	dbStatus := "ok"
	if s.db == nil {
		dbStatus = "none"
	} else {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			dbStatus = "unreachable"
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":   "OK",
		"message":  "Server is running",
		"database": dbStatus,
	})
}
