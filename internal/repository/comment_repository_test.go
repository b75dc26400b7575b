package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/api/internal/model"
)

func newCommentRepoMock(t *testing.T) (*CommentRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCommentRepo(db), mock
}

func TestCommentRepo_Create(t *testing.T) {
	repo, mock := newCommentRepoMock(t)

	mock.ExpectExec("INSERT INTO comments (id, content, author_id, blog_id) VALUES (?,?,?,?)").
		WithArgs("c1", "great post", "u2", "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cm := model.Comment{ID: "c1", Content: "great post", AuthorID: "u2", BlogID: "b1"}
	require.NoError(t, repo.Create(context.Background(), &cm))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepo_Create_DanglingBlog(t *testing.T) {
	repo, mock := newCommentRepoMock(t)

	mock.ExpectExec("INSERT INTO comments (id, content, author_id, blog_id) VALUES (?,?,?,?)").
		WillReturnError(errors.New("Error 1452 (23000): Cannot add or update a child row: a foreign key constraint fails"))

	cm := model.Comment{ID: "c1", Content: "great post", AuthorID: "u2", BlogID: "missing"}
	assert.ErrorIs(t, repo.Create(context.Background(), &cm), ErrBlogRefMissing)
}

func TestCommentRepo_ListByBlog(t *testing.T) {
	repo, mock := newCommentRepoMock(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "content", "author_id", "blog_id", "created_at", "updated_at"}).
		AddRow("c1", "first", "u2", "b1", now.Add(-time.Minute), now.Add(-time.Minute)).
		AddRow("c2", "second", "u3", "b1", now, now)
	mock.ExpectQuery("SELECT id,content,author_id,blog_id,created_at,updated_at FROM comments WHERE blog_id=? ORDER BY created_at ASC").
		WithArgs("b1").
		WillReturnRows(rows)

	got, err := repo.ListByBlog(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
}
