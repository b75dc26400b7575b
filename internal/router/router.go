// Package router wires the HTTP surface: every route passes its validation
// inside the handler, and the auth gates run as middleware in front.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/inkwell-blog/api/internal/config"
	"github.com/inkwell-blog/api/internal/handler"
	"github.com/inkwell-blog/api/internal/middleware"
)

// Handlers bundles the constructed handlers for registration.
type Handlers struct {
	Users    *handler.UserHandler
	Sessions *handler.SessionHandler
	Blogs    *handler.BlogHandler
	Comments *handler.CommentHandler
}

// Register mounts all routes under /api/v1 plus the health probe. The
// principal deserializer runs on the whole group so any route can see who
// is calling; RequireLogin/RequireAdmin gate the protected ones. The public
// blog reads sit behind the Redis response cache when one is configured.
func Register(e *echo.Echo, cfg config.Config, h Handlers, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/api/v1")
	v1.Use(middleware.DeserializeUser(cfg.JWTSecret))

	// Account lifecycle
	v1.POST("/users/register", h.Users.Register)
	v1.GET("/users/verify", h.Users.Verify)
	v1.POST("/users/forgotPassword", h.Users.ForgotPassword)
	v1.POST("/users/resetPassword", h.Users.ResetPassword)
	v1.PUT("/users/updatePassword", h.Users.UpdatePassword, middleware.RequireLogin)
	v1.GET("/users", h.Users.FetchUsers)

	// Sessions
	v1.POST("/sessions", h.Sessions.Create)

	// Content lifecycle
	cache := middleware.ResponseCache(cacheCfg, rdb)
	v1.POST("/blogs/create", h.Blogs.Create, middleware.RequireLogin, middleware.RequireAdmin)
	v1.PUT("/blogs/update/:blogId", h.Blogs.Update, middleware.RequireLogin, middleware.RequireAdmin)
	v1.GET("/blogs/:slug", h.Blogs.FetchOne, cache)
	v1.GET("/blogs", h.Blogs.FetchMany, cache)
	v1.DELETE("/blogs/delete/:blogId", h.Blogs.Delete, middleware.RequireLogin, middleware.RequireAdmin)

	// Comments
	v1.POST("/comments", h.Comments.Create, middleware.RequireLogin)
}
