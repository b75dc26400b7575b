// Package middleware provides the request gates that run ahead of handlers:
// principal deserialization from bearer tokens, the logged-in check and the
// admin check.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-blog/api/internal/model"
	"github.com/inkwell-blog/api/internal/utils"
)

// Context keys under which the deserialized principal is stored.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// DeserializeUser parses an Authorization bearer token, if present, and
// attaches the principal to the request context. It never rejects the
// request itself: routes decide what they require via RequireLogin and
// RequireAdmin. A malformed or expired token simply leaves the request
// anonymous.
func DeserializeUser(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				raw := strings.TrimPrefix(auth, "Bearer ")
				if p, err := utils.ParseAccessToken(secret, raw); err == nil {
					c.Set(ContextUserID, p.UserID)
					c.Set(ContextRole, p.Role)
				}
			}
			return next(c)
		}
	}
}

// RequireLogin rejects requests that carry no authenticated principal.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id, _ := c.Get(ContextUserID).(string); id == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "You must be logged in to access this route"})
		}
		return next(c)
	}
}

// RequireAdmin rejects requests whose principal is missing or not an admin.
// A failed check is terminal: the response is written here and the next
// stage is never invoked.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get(ContextRole).(string)
		if role != model.RoleAdmin {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "You must be an admin to access this route"})
		}
		return next(c)
	}
}
