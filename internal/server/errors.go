package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/primal-host/primal-folio/internal/logging"
)

// errorJSON writes the standard error body.
func errorJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func badRequest(c echo.Context, message string) error {
	return errorJSON(c, http.StatusBadRequest, "InvalidRequest", message)
}

func notFound(c echo.Context, message string) error {
	return errorJSON(c, http.StatusNotFound, "NotFound", message)
}

// internalError logs err with full detail and responds with message only.
func internalError(c echo.Context, message string, err error) error {
	logging.Error().Err(err).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Str("path", c.Path()).
		Msg(message)
	return errorJSON(c, http.StatusInternalServerError, "InternalError", message)
}

// errorCodes maps statuses produced by Echo itself (unknown route, body
// too large, ...) to error codes.
var errorCodes = map[int]string{
	http.StatusBadRequest:            "InvalidRequest",
	http.StatusUnauthorized:          "AuthRequired",
	http.StatusNotFound:              "NotFound",
	http.StatusMethodNotAllowed:      "MethodNotAllowed",
	http.StatusRequestEntityTooLarge: "PayloadTooLarge",
	http.StatusTooManyRequests:       "RateLimited",
}

// handleError renders errors returned by handlers and middleware in the
// standard error body.
func handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
	}

	code, ok := errorCodes[status]
	if !ok {
		code = "InternalError"
		logging.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = errorJSON(c, status, code, message)
}
