package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/primal-host/primal-folio/internal/logging"
	"github.com/primal-host/primal-folio/internal/mail"
	"github.com/primal-host/primal-folio/internal/metrics"
)

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// handleSendMessage relays a contact-form submission to the owner.
func (s *Server) handleSendMessage(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid JSON body")
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return badRequest(c, "All fields are required")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "Invalid email address")
	}

	err := s.mailer.Send(c.Request().Context(), mail.Message{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if errors.Is(err, mail.ErrNotConfigured) {
		metrics.MailSent.WithLabelValues("disabled").Inc()
		logging.Warn().Msg("contact form used but mail is not configured")
		return errorJSON(c, http.StatusInternalServerError, "InternalError",
			"Email service not configured")
	}
	if err != nil {
		metrics.MailSent.WithLabelValues("error").Inc()
		return internalError(c, "Failed to send message. Please try again later.", err)
	}

	metrics.MailSent.WithLabelValues("sent").Inc()
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Message sent successfully!",
	})
}
