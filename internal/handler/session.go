package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-blog/api/internal/config"
	"github.com/inkwell-blog/api/internal/repository"
	"github.com/inkwell-blog/api/internal/utils"
)

// SessionHandler exchanges credentials for an access token. The bearer
// token it issues is what the deserialization middleware later turns back
// into a principal.
type SessionHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewSessionHandler(cfg config.Config, users UserStore) *SessionHandler {
	return &SessionHandler{Cfg: cfg, Users: users}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Create handles POST /sessions: verifies credentials against the stored
// digest and returns a signed access token. Unverified accounts cannot log
// in; missing accounts and wrong passwords are indistinguishable to the
// caller.
func (h *SessionHandler) Create(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	var msgs []string
	if req.Email == "" {
		msgs = append(msgs, "Email is required")
	}
	if req.Password == "" {
		msgs = append(msgs, "Password is required")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return unauthorized("Invalid credentials")
		}
		log.Printf("login: lookup failed: %v", err)
		return badRequest("Error creating session")
	}
	if !u.PasswordHash.Valid || !utils.VerifyPassword(u.PasswordHash.String, req.Password) {
		return unauthorized("Invalid credentials")
	}
	if !u.Verified {
		return badRequest("Account not verified")
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		log.Printf("login: token signing failed: %v", err)
		return badRequest("Error creating session")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":        u.Public(),
		"accessToken": token.Token,
		"expires":     token.Exp,
	})
}
