package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/inkwell-blog/api/internal/model"
)

const userColumns = "id,full_name,email,password_hash,verification_code,verified,recovery_code,role,created_at,updated_at"

// UserRepo persists user accounts and their lifecycle state.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a new account row. The caller supplies the id, digest,
// verification code and role; timestamps come from the database.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, full_name, email, password_hash, verification_code, role) VALUES (?,?,?,?,?,?)",
		u.ID, u.FullName, strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, u.VerificationCode, u.Role)
	if err != nil {
		// 1062 = duplicate entry on the unique email index
		if strings.Contains(err.Error(), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// Count returns the total number of registered accounts. Registration uses
// it to decide whether the incoming user is the very first (and so admin).
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// GetByEmail fetches an account by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches an account by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.VerificationCode,
		&u.Verified, &u.RecoveryCode, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// MarkVerified flips the verified flag. The verification code stays on the
// record; it has no further use once the account is verified.
func (r *UserRepo) MarkVerified(ctx context.Context, id string) error {
	return r.exec(ctx, "UPDATE users SET verified=1, updated_at=NOW() WHERE id=?", id)
}

// SetRecoveryCode stores a freshly issued password recovery code.
func (r *UserRepo) SetRecoveryCode(ctx context.Context, id, code string) error {
	return r.exec(ctx, "UPDATE users SET recovery_code=?, updated_at=NOW() WHERE id=?", code, id)
}

// ResetPassword replaces the password digest and consumes the recovery code
// in one statement, so a stale code can never survive a successful reset.
func (r *UserRepo) ResetPassword(ctx context.Context, id, digest string) error {
	return r.exec(ctx, "UPDATE users SET password_hash=?, recovery_code=NULL, updated_at=NOW() WHERE id=?", digest, id)
}

// UpdatePassword replaces the password digest for an authenticated change.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, digest string) error {
	return r.exec(ctx, "UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", digest, id)
}

func (r *UserRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// List returns one page of accounts plus the total match count. Search is a
// case-insensitive substring match over the name-like fields, role narrows
// to a single user type, and filter picks the sort order (default: most
// recently updated first).
func (r *UserRepo) List(ctx context.Context, q ListQuery, role string) ([]model.User, int64, error) {
	q = q.Normalize()

	where := []string{}
	args := []any{}
	if q.SearchQuery != "" {
		needle := "%" + strings.ToLower(q.SearchQuery) + "%"
		where = append(where, "(LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?)")
		args = append(args, needle, needle)
	}
	if role != "" {
		where = append(where, "role=?")
		args = append(args, role)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "updated_at DESC"
	switch q.Filter {
	case FilterNewest:
		order = "created_at DESC"
	case FilterOldest:
		order = "created_at ASC"
	}

	dataSQL := "SELECT " + userColumns + " FROM users WHERE " + cond +
		" ORDER BY " + order + " LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), q.PageSize, q.Offset())

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.User, 0, q.PageSize)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.VerificationCode,
			&u.Verified, &u.RecoveryCode, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}
