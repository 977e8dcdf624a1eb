package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/primal-host/primal-folio/internal/content"
	"github.com/primal-host/primal-folio/internal/events"
)

// entity is a multi-row content shape with a generated id.
type entity[T any] interface {
	normalizer[T]
	Key() int64
	WithKey(id int64) T
}

// itemHandlers serves list/get/create/update/delete for one item domain.
// noun is the capitalized singular used in messages ("Project").
type itemHandlers[T entity[T]] struct {
	s      *Server
	domain string
	noun   string
	store  ItemStore[T]
}

func (h itemHandlers[T]) parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h itemHandlers[T]) lower() string {
	return strings.ToLower(h.noun)
}

func (h itemHandlers[T]) list(c echo.Context) error {
	items, err := h.store.List(c.Request().Context())
	if err != nil {
		return internalError(c, "Failed to fetch "+h.domain, err)
	}
	out := make([]T, len(items))
	for i, v := range items {
		out[i] = v.Normalize()
	}
	return respondCached(c, out)
}

func (h itemHandlers[T]) get(c echo.Context) error {
	id, ok := h.parseID(c)
	if !ok {
		return notFound(c, h.noun+" not found")
	}

	v, err := h.store.Get(c.Request().Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		return notFound(c, h.noun+" not found")
	}
	if err != nil {
		return internalError(c, "Failed to fetch "+h.lower(), err)
	}
	return respondCached(c, v.Normalize())
}

func (h itemHandlers[T]) create(c echo.Context) error {
	var v T
	if err := c.Bind(&v); err != nil {
		return badRequest(c, "Invalid JSON body")
	}

	stored, err := h.store.Create(c.Request().Context(), v.WithKey(0).Normalize())
	if err != nil {
		return internalError(c, "Failed to create "+h.lower(), err)
	}

	h.s.emit(c.Request().Context(), h.domain, events.ActionCreate, strconv.FormatInt(stored.Key(), 10))
	return c.JSON(http.StatusCreated, stored.Normalize())
}

func (h itemHandlers[T]) update(c echo.Context) error {
	id, ok := h.parseID(c)
	if !ok {
		return notFound(c, h.noun+" not found")
	}

	var v T
	if err := c.Bind(&v); err != nil {
		return badRequest(c, "Invalid JSON body")
	}

	stored, err := h.store.Update(c.Request().Context(), id, v.WithKey(id).Normalize())
	if errors.Is(err, content.ErrNotFound) {
		return notFound(c, h.noun+" not found")
	}
	if err != nil {
		return internalError(c, "Failed to update "+h.lower(), err)
	}

	h.s.emit(c.Request().Context(), h.domain, events.ActionUpdate, strconv.FormatInt(id, 10))
	return c.JSON(http.StatusOK, stored.Normalize())
}

func (h itemHandlers[T]) delete(c echo.Context) error {
	id, ok := h.parseID(c)
	if !ok {
		return notFound(c, h.noun+" not found")
	}

	deleted, err := h.store.Delete(c.Request().Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		return notFound(c, h.noun+" not found")
	}
	if err != nil {
		return internalError(c, "Failed to delete "+h.lower(), err)
	}

	h.s.emit(c.Request().Context(), h.domain, events.ActionDelete, strconv.FormatInt(id, 10))
	return c.JSON(http.StatusOK, map[string]any{
		"message": h.noun + " deleted successfully",
		h.lower(): deleted.Normalize(),
	})
}

func registerItems[T entity[T]](s *Server, g *echo.Group, domain, noun string, store ItemStore[T]) {
	h := itemHandlers[T]{s: s, domain: domain, noun: noun, store: store}
	g.GET("/"+domain, h.list)
	g.GET("/"+domain+"/:id", h.get)
	g.POST("/"+domain, h.create, s.requireAdmin)
	g.PUT("/"+domain+"/:id", h.update, s.requireAdmin)
	g.DELETE("/"+domain+"/:id", h.delete, s.requireAdmin)
}
