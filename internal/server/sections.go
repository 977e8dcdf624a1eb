package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/primal-host/primal-folio/internal/events"
)

// normalizer is implemented by every content shape; Normalize fills
// absent sequences and clamps bounded fields.
type normalizer[T any] interface {
	Normalize() T
}

// sectionHandlers serves one singleton section. Reads before the first
// write return the empty shape.
type sectionHandlers[T normalizer[T]] struct {
	s     *Server
	name  string
	store SectionStore[T]
}

func (h sectionHandlers[T]) get(c echo.Context) error {
	v, err := h.store.Get(c.Request().Context())
	if err != nil {
		return internalError(c, "Failed to fetch "+h.name, err)
	}
	return respondCached(c, v.Normalize())
}

func (h sectionHandlers[T]) put(c echo.Context) error {
	var v T
	if err := c.Bind(&v); err != nil {
		return badRequest(c, "Invalid JSON body")
	}

	stored, err := h.store.Set(c.Request().Context(), v.Normalize())
	if err != nil {
		return internalError(c, "Failed to update "+h.name, err)
	}

	h.s.emit(c.Request().Context(), h.name, events.ActionUpdate, "")
	return c.JSON(http.StatusOK, stored.Normalize())
}

func registerSection[T normalizer[T]](s *Server, g *echo.Group, name string, store SectionStore[T]) {
	h := sectionHandlers[T]{s: s, name: name, store: store}
	g.GET("/sections/"+name, h.get)
	g.PUT("/sections/"+name, h.put, s.requireAdmin)
}
