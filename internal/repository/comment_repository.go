package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/inkwell-blog/api/internal/model"
)

// CommentRepo persists blog comments.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a comment. A foreign key violation on the blog or author
// reference is surfaced as ErrBlogRefMissing so handlers can report a
// domain error instead of a server failure.
func (r *CommentRepo) Create(ctx context.Context, cm *model.Comment) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (id, content, author_id, blog_id) VALUES (?,?,?,?)",
		cm.ID, cm.Content, cm.AuthorID, cm.BlogID)
	if err != nil {
		// 1452 = foreign key constraint fails
		if strings.Contains(err.Error(), "1452") {
			return ErrBlogRefMissing
		}
		return err
	}
	return nil
}

// ListByBlog returns a blog's comments oldest first. Fetching a single blog
// resolves its comments through this query.
func (r *CommentRepo) ListByBlog(ctx context.Context, blogID string) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,content,author_id,blog_id,created_at,updated_at FROM comments WHERE blog_id=? ORDER BY created_at ASC",
		blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Comment{}
	for rows.Next() {
		var cm model.Comment
		if err := rows.Scan(&cm.ID, &cm.Content, &cm.AuthorID, &cm.BlogID, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}
