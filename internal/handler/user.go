package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/inkwell-blog/api/internal/config"
	"github.com/inkwell-blog/api/internal/mailer"
	"github.com/inkwell-blog/api/internal/model"
	"github.com/inkwell-blog/api/internal/queue"
	"github.com/inkwell-blog/api/internal/repository"
	queue_publisher "github.com/inkwell-blog/api/internal/service"
	"github.com/inkwell-blog/api/internal/utils"
)

// UserStore is the persistence capability the account lifecycle needs.
// *repository.UserRepo satisfies it; tests use an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	Count(ctx context.Context) (int64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	MarkVerified(ctx context.Context, id string) error
	SetRecoveryCode(ctx context.Context, id, code string) error
	ResetPassword(ctx context.Context, id, digest string) error
	UpdatePassword(ctx context.Context, id, digest string) error
	List(ctx context.Context, q repository.ListQuery, role string) ([]model.User, int64, error)
}

// UserHandler owns the account lifecycle: registration, verification,
// password recovery and the user listing.
type UserHandler struct {
	Cfg    config.Config
	Users  UserStore
	Mail   mailer.Mailer
	Events queue_publisher.Publisher
}

func NewUserHandler(cfg config.Config, users UserStore, m mailer.Mailer, ev queue_publisher.Publisher) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Mail: m, Events: ev}
}

// publish emits a lifecycle event, best effort. A broker failure is already
// logged by the publisher and never affects the request outcome.
func (h *UserHandler) publish(ctx context.Context, eventType string, u model.User) {
	if h.Events == nil {
		return
	}
	_ = h.Events.Publish(ctx, queue.AccountEvent{
		Type:       eventType,
		UserID:     u.ID,
		Email:      u.Email,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// ----- register -----

type registerReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerReq) validate() []string {
	var msgs []string
	if r.FullName == "" {
		msgs = append(msgs, "Full name is required")
	}
	if r.Email == "" {
		msgs = append(msgs, "Email is required")
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		msgs = append(msgs, "Not a valid email")
	}
	if r.Password == "" {
		msgs = append(msgs, "Password is required")
	} else if len(r.Password) < 8 {
		msgs = append(msgs, "Password must be a minimum of 8 characters")
	}
	return msgs
}

// Register creates an unverified account and mails a verification link. The
// very first account in an empty store becomes the admin. Mail failure
// after the account has been persisted is reported as a degraded success,
// never an error.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if msgs := req.validate(); len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return conflict("Account already exists")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		log.Printf("register: lookup failed: %v", err)
		return badRequest("Error creating user")
	}

	// The first registered user administers the platform.
	count, err := h.Users.Count(ctx)
	if err != nil {
		log.Printf("register: count failed: %v", err)
		return badRequest("Error creating user")
	}
	role := model.RoleUser
	if count == 0 {
		role = model.RoleAdmin
	}

	digest, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		log.Printf("register: hash failed: %v", err)
		return badRequest("Error creating user")
	}

	u := model.User{
		ID:               uuid.NewString(),
		FullName:         req.FullName,
		Email:            req.Email,
		PasswordHash:     sql.NullString{String: digest, Valid: true},
		VerificationCode: utils.GenerateCode(16),
		Role:             role,
	}
	if err := h.Users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return conflict("Account already exists")
		}
		log.Printf("register: insert failed: %v", err)
		return badRequest("Error creating user")
	}

	link := fmt.Sprintf("%s/api/v1/users/verify?verificationCode=%s&userId=%s",
		h.Cfg.Origin, u.VerificationCode, u.ID)
	log.Printf("register: verification link for %s: %s", u.Email, link)

	h.publish(ctx, queue.EventUserRegistered, u)

	body := mailer.VerificationEmail(u.FullName, link)
	if err := h.Mail.Send(ctx, u.Email, "Verify Your Account", body); err != nil {
		log.Printf("register: verification mail failed: %v", err)
		return c.JSON(http.StatusCreated, echo.Map{"msg": "Could not send verification mail"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"msg": "User successfully created. Check your email to verify your account"})
}

// ----- verify -----

// Verify consumes a verification code from the mailed link. Verifying an
// already verified account is an idempotent success; both paths redirect to
// the configured URL.
func (h *UserHandler) Verify(c echo.Context) error {
	code := c.QueryParam("verificationCode")
	userID := c.QueryParam("userId")
	var msgs []string
	if code == "" {
		msgs = append(msgs, "Verification code is required")
	}
	if userID == "" {
		msgs = append(msgs, "User ID is required")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return badRequest("User not found")
		}
		log.Printf("verify: lookup failed: %v", err)
		return badRequest("Error verifying user")
	}
	if u.Verified {
		return c.Redirect(http.StatusFound, h.Cfg.VerifyRedirectURL)
	}
	if u.VerificationCode != code {
		return badRequest("Invalid verification code")
	}
	if err := h.Users.MarkVerified(ctx, u.ID); err != nil {
		log.Printf("verify: update failed: %v", err)
		return badRequest("Error verifying user")
	}

	h.publish(ctx, queue.EventUserVerified, u)
	return c.Redirect(http.StatusFound, h.Cfg.VerifyRedirectURL)
}

// ----- forgot password -----

type forgotPasswordReq struct {
	Email string `json:"email"`
}

// ForgotPassword issues a recovery code to a verified account and mails the
// reset link. As with registration, mail failure downgrades the response
// rather than rolling back the persisted code.
func (h *UserHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if req.Email == "" {
		return &ValidationError{Messages: []string{"Email is required"}}
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return &ValidationError{Messages: []string{"Invalid email provided"}}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return badRequest("User not found")
		}
		log.Printf("forgot-password: lookup failed: %v", err)
		return badRequest("Error requesting password reset")
	}
	if !u.Verified {
		return badRequest("Account not verified")
	}

	code := utils.GenerateCode(16)
	if err := h.Users.SetRecoveryCode(ctx, u.ID, code); err != nil {
		log.Printf("forgot-password: update failed: %v", err)
		return badRequest("Error requesting password reset")
	}

	link := fmt.Sprintf("%s/api/v1/users/resetPassword?passwordResetCode=%s&userId=%s",
		h.Cfg.Origin, code, u.ID)
	log.Printf("forgot-password: reset link for %s: %s", u.Email, link)

	h.publish(ctx, queue.EventRecoveryStarted, u)

	body := mailer.RecoveryEmail(u.FullName, link)
	if err := h.Mail.Send(ctx, u.Email, "Reset Your Password", body); err != nil {
		log.Printf("forgot-password: recovery mail failed: %v", err)
		return c.JSON(http.StatusOK, echo.Map{"msg": "Password reset mail could not be sent"})
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "Please visit your email to reset your password"})
}

// ----- reset password -----

type resetPasswordReq struct {
	Password string `json:"password"`
}

// ResetPassword consumes a recovery code. The code is single use: a
// successful reset clears it, so replaying the same link fails.
func (h *UserHandler) ResetPassword(c echo.Context) error {
	code := c.QueryParam("passwordResetCode")
	userID := c.QueryParam("userId")
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	var msgs []string
	if code == "" {
		msgs = append(msgs, "Password Reset Code is required")
	}
	if userID == "" {
		msgs = append(msgs, "User ID is required")
	}
	if req.Password == "" {
		msgs = append(msgs, "Password is required")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return badRequest("User not found")
		}
		log.Printf("reset-password: lookup failed: %v", err)
		return badRequest("Error resetting password")
	}
	if !u.RecoveryCode.Valid || u.RecoveryCode.String != code {
		return badRequest("Invalid or expired password reset code")
	}

	digest, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		log.Printf("reset-password: hash failed: %v", err)
		return badRequest("Error resetting password")
	}
	if err := h.Users.ResetPassword(ctx, u.ID, digest); err != nil {
		log.Printf("reset-password: update failed: %v", err)
		return badRequest("Error resetting password")
	}

	h.publish(ctx, queue.EventPasswordReset, u)
	return c.Redirect(http.StatusFound, h.Cfg.VerifyRedirectURL)
}

// ----- update password -----

type updatePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdatePassword changes an authenticated user's password after checking
// the current one.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	var req updatePasswordReq
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	var msgs []string
	if req.CurrentPassword == "" {
		msgs = append(msgs, "Current Password is required")
	}
	if req.NewPassword == "" {
		msgs = append(msgs, "New Password is required")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, principalID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return badRequest("User not found")
		}
		log.Printf("update-password: lookup failed: %v", err)
		return badRequest("Error updating password")
	}
	if !u.PasswordHash.Valid || !utils.VerifyPassword(u.PasswordHash.String, req.CurrentPassword) {
		return badRequest("Password is incorrect")
	}

	digest, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		log.Printf("update-password: hash failed: %v", err)
		return badRequest("Error updating password")
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, digest); err != nil {
		log.Printf("update-password: update failed: %v", err)
		return badRequest("Error updating password")
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "Password successfully updated"})
}

// ----- list -----

// FetchUsers returns a filtered, paginated page of safe user projections.
func (h *UserHandler) FetchUsers(c echo.Context) error {
	q, role, msgs := parseUserListQuery(c)
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	users, total, err := h.Users.List(ctx, q, role)
	if err != nil {
		log.Printf("fetch-users: query failed: %v", err)
		return badRequest("Error fetching users")
	}

	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	q = q.Normalize()
	return c.JSON(http.StatusOK, echo.Map{
		"users":      out,
		"isNext":     total > int64(q.Offset()+len(out)),
		"numOfPages": repository.Pages(total, q.PageSize),
	})
}

func parseUserListQuery(c echo.Context) (repository.ListQuery, string, []string) {
	var msgs []string
	q := repository.ListQuery{SearchQuery: c.QueryParam("searchQuery")}

	if s := c.QueryParam("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			msgs = append(msgs, "Page must be a positive number")
		} else {
			q.Page = n
		}
	}
	if s := c.QueryParam("pageSize"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			msgs = append(msgs, "Page size must be a positive number")
		} else {
			q.PageSize = n
		}
	}
	if f := c.QueryParam("filter"); f != "" {
		if f != repository.FilterNewest && f != repository.FilterOldest {
			msgs = append(msgs, "Filter must be one of: newest, oldest")
		} else {
			q.Filter = f
		}
	}
	role := c.QueryParam("userType")
	if role != "" && role != model.RoleAdmin && role != model.RoleUser {
		msgs = append(msgs, "User type must be one of: admin, user")
		role = ""
	}
	return q, role, msgs
}
