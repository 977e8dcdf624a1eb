package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/primal-host/primal-folio/internal/content"
	"github.com/primal-host/primal-folio/internal/events"
)

type createCategoryRequest struct {
	CategoryID   string   `json:"categoryId" validate:"required"`
	Label        string   `json:"label" validate:"required"`
	Skills       []string `json:"skills"`
	Achievements []string `json:"achievements"`
}

func (s *Server) handleListSkills(c echo.Context) error {
	cats, err := s.stores.Skills.List(c.Request().Context())
	if err != nil {
		return internalError(c, "Failed to fetch skills", err)
	}
	for id, cat := range cats {
		cats[id] = cat.Normalize()
	}
	return respondCached(c, cats)
}

func (s *Server) handleGetCategory(c echo.Context) error {
	id := c.Param("categoryId")
	cat, err := s.stores.Skills.Get(c.Request().Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		return notFound(c, "Category not found")
	}
	if err != nil {
		return internalError(c, "Failed to fetch category", err)
	}
	return respondCached(c, cat.Normalize())
}

func (s *Server) handleCreateCategory(c echo.Context) error {
	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid JSON body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	cat := content.SkillsCategory{
		Label:        req.Label,
		Skills:       req.Skills,
		Achievements: req.Achievements,
	}.Normalize()

	stored, err := s.stores.Skills.Create(c.Request().Context(), req.CategoryID, cat)
	if errors.Is(err, content.ErrConflict) {
		return errorJSON(c, http.StatusConflict, "Conflict", "Category already exists")
	}
	if err != nil {
		return internalError(c, "Failed to create category", err)
	}

	s.emit(c.Request().Context(), events.DomainSkills, events.ActionCreate, req.CategoryID)
	return c.JSON(http.StatusCreated, stored.Normalize())
}

// handleUpdateCategory writes the whole category, creating it if absent.
func (s *Server) handleUpdateCategory(c echo.Context) error {
	id := c.Param("categoryId")

	var cat content.SkillsCategory
	if err := c.Bind(&cat); err != nil {
		return badRequest(c, "Invalid JSON body")
	}

	stored, err := s.stores.Skills.Upsert(c.Request().Context(), id, cat.Normalize())
	if err != nil {
		return internalError(c, "Failed to update category", err)
	}

	s.emit(c.Request().Context(), events.DomainSkills, events.ActionUpdate, id)
	return c.JSON(http.StatusOK, stored.Normalize())
}

func (s *Server) handleDeleteCategory(c echo.Context) error {
	id := c.Param("categoryId")
	deleted, err := s.stores.Skills.Delete(c.Request().Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		return notFound(c, "Category not found")
	}
	if err != nil {
		return internalError(c, "Failed to delete category", err)
	}

	s.emit(c.Request().Context(), events.DomainSkills, events.ActionDelete, id)
	return c.JSON(http.StatusOK, map[string]any{
		"message":  "Category deleted successfully",
		"category": deleted.Normalize(),
	})
}
