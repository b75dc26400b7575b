package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/inkwell-blog/api/internal/model"
)

const blogColumns = "id,slug,title,image_url,overview,description,views,likes,user_id,created_at,updated_at"

// BlogRepo persists blog entries.
type BlogRepo struct{ DB *sql.DB }

func NewBlogRepo(db *sql.DB) *BlogRepo { return &BlogRepo{DB: db} }

// Create inserts a blog row. Slug uniqueness is enforced by the database;
// the random suffix makes a clash practically impossible, so a constraint
// error here is surfaced as-is.
func (r *BlogRepo) Create(ctx context.Context, b *model.Blog) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO blogs (id, slug, title, image_url, overview, description, user_id) VALUES (?,?,?,?,?,?,?)",
		b.ID, b.Slug, b.Title, b.ImageURL, b.Overview, b.Description, b.UserID)
	return err
}

// GetByID fetches a blog by id without resolving comments. Used by the
// mutation paths for the ownership check.
func (r *BlogRepo) GetByID(ctx context.Context, id string) (model.Blog, error) {
	return r.get(ctx, "SELECT "+blogColumns+" FROM blogs WHERE id=? LIMIT 1", id)
}

// GetBySlug fetches a blog by its slug.
func (r *BlogRepo) GetBySlug(ctx context.Context, slug string) (model.Blog, error) {
	return r.get(ctx, "SELECT "+blogColumns+" FROM blogs WHERE slug=? LIMIT 1", slug)
}

func (r *BlogRepo) get(ctx context.Context, query string, arg any) (model.Blog, error) {
	var b model.Blog
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&b.ID, &b.Slug, &b.Title, &b.ImageURL, &b.Overview, &b.Description,
		&b.Views, &b.Likes, &b.UserID, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Blog{}, ErrBlogNotFound
	}
	return b, err
}

// Update persists the merged field values of a blog. The slug is immutable
// and deliberately not part of the statement.
func (r *BlogRepo) Update(ctx context.Context, b *model.Blog) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE blogs SET title=?, image_url=?, overview=?, description=?, updated_at=NOW() WHERE id=?",
		b.Title, b.ImageURL, b.Overview, b.Description, b.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// IncrementViews bumps the view counter for a fetched blog. Best effort;
// callers ignore a failure rather than failing the read.
func (r *BlogRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE blogs SET views=views+1 WHERE id=?", id)
	return err
}

// Delete hard-deletes a blog and its comments.
func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE blog_id=?", id); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM blogs WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// List returns one page of blogs plus the total match count. Search matches
// title, overview and description; trending sorts by views with likes as
// the tie-break. The batch is always limited by the page size.
func (r *BlogRepo) List(ctx context.Context, q ListQuery) ([]model.Blog, int64, error) {
	q = q.Normalize()

	cond := "1=1"
	args := []any{}
	if q.SearchQuery != "" {
		needle := "%" + strings.ToLower(q.SearchQuery) + "%"
		cond = "(LOWER(title) LIKE ? OR LOWER(overview) LIKE ? OR LOWER(description) LIKE ?)"
		args = append(args, needle, needle, needle)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM blogs WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	switch q.Filter {
	case FilterOldest:
		order = "created_at ASC"
	case FilterTrending:
		order = "views DESC, likes DESC"
	}

	dataSQL := "SELECT " + blogColumns + " FROM blogs WHERE " + cond +
		" ORDER BY " + order + " LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), q.PageSize, q.Offset())

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Blog, 0, q.PageSize)
	for rows.Next() {
		var b model.Blog
		if err := rows.Scan(
			&b.ID, &b.Slug, &b.Title, &b.ImageURL, &b.Overview, &b.Description,
			&b.Views, &b.Likes, &b.UserID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}
