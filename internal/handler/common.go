package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-blog/api/internal/middleware"
)

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

// reqContext derives a bounded context from the request.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// principalID returns the authenticated user's id from the request context,
// or "" when the request is anonymous.
func principalID(c echo.Context) string {
	id, _ := c.Get(middleware.ContextUserID).(string)
	return id
}
