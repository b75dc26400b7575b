package model

import (
	"database/sql"
	"time"
)

// Roles assignable to a user. The first account ever registered becomes the
// admin; everyone after that is a regular user.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User mirrors the `users` table. PasswordHash is nullable because a reset
// flow may momentarily observe an account before its first password is set,
// and RecoveryCode is null whenever no reset is pending.
type User struct {
	ID               string
	FullName         string
	Email            string
	PasswordHash     sql.NullString
	VerificationCode string
	Verified         bool
	RecoveryCode     sql.NullString
	Role             string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PublicUser is the safe projection of a user returned by list and session
// endpoints. Password digests and lifecycle codes never leave the server.
type PublicUser struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public strips the sensitive fields off a user record.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
