package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// APIError is a business-rule failure with a safe message and the HTTP
// status it maps to. Lifecycle handlers return these instead of writing
// responses themselves; the centralized error handler does the formatting.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// ValidationError carries every field failure found while validating a
// request, not just the first.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string { return strings.Join(e.Messages, "; ") }

func badRequest(msg string) *APIError   { return &APIError{Status: http.StatusBadRequest, Message: msg} }
func unauthorized(msg string) *APIError { return &APIError{Status: http.StatusUnauthorized, Message: msg} }
func conflict(msg string) *APIError     { return &APIError{Status: http.StatusConflict, Message: msg} }

// HTTPErrorHandler is the single error-formatting stage: every error a
// handler returns is converted to a JSON body and status here. Unexpected
// errors are logged by echo and reported with a generic message so internal
// detail never leaks.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"errors": vErr.Messages})
		return
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		_ = c.JSON(apiErr.Status, echo.Map{"error": apiErr.Message})
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, echo.Map{"error": httpErr.Message})
		return
	}

	c.Logger().Error(err)
	_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "Something went wrong"})
}
