package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
	"github.com/primal-host/primal-folio/internal/credential"
	"github.com/primal-host/primal-folio/internal/metrics"
)

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// loginRateLimit bounds login attempts per client IP.
func (s *Server) loginRateLimit() echo.MiddlewareFunc {
	limit := s.cfg.Auth.LoginRatePerMinute
	if limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echo.WrapMiddleware(httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"RateLimited","message":"Too many login attempts, try again later"}`))
		}),
	))
}

// handleLogin checks the password and issues a session token. The
// response never distinguishes a missing credential from a wrong one
// beyond the status code.
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid JSON body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "Password is required")
	}

	err := s.creds.Authenticate(c.Request().Context(), req.Password)
	switch {
	case errors.Is(err, credential.ErrInvalidPassword):
		metrics.RecordLogin("failure")
		return errorJSON(c, http.StatusUnauthorized, "InvalidPassword", "Invalid password")
	case errors.Is(err, credential.ErrNotConfigured):
		metrics.RecordLogin("error")
		return internalError(c, "Admin not configured. Please run seed script.", err)
	case err != nil:
		metrics.RecordLogin("error")
		return internalError(c, "Failed to login", err)
	}

	tok, err := s.tokens.Issue()
	if err != nil {
		metrics.RecordLogin("error")
		return internalError(c, "Failed to login", err)
	}

	metrics.RecordLogin("success")
	return c.JSON(http.StatusOK, map[string]any{
		"message":       "Login successful",
		"authenticated": true,
		"token":         tok.Token,
		"expiresAt":     tok.ExpiresAt,
	})
}

func (s *Server) handleChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid JSON body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "Current and new passwords are required")
	}

	err := s.creds.Change(c.Request().Context(), req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, credential.ErrPasswordTooShort):
		return badRequest(c, "New password must be at least 6 characters")
	case errors.Is(err, credential.ErrInvalidPassword):
		return errorJSON(c, http.StatusUnauthorized, "InvalidPassword", "Current password is incorrect")
	case errors.Is(err, credential.ErrNotConfigured):
		return notFound(c, "Admin not found")
	case err != nil:
		return internalError(c, "Failed to change password", err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Password changed successfully",
	})
}
