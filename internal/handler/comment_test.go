package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/api/internal/model"
	"github.com/inkwell-blog/api/internal/repository"
)

func TestCreateComment(t *testing.T) {
	comments := &fakeCommentStore{}
	h := NewCommentHandler(comments)

	rec := doRequest(t, http.MethodPost, "/comments",
		`{"blogId":"b1","content":"great post"}`,
		func(e *echo.Echo) {
			e.POST("/comments", h.Create, asPrincipal("u2", model.RoleUser))
		})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := jsonBody(t, rec)
	assert.Equal(t, "great post", body["content"])
	assert.Equal(t, "u2", body["authorId"])
	assert.Equal(t, "b1", body["blogId"])

	require.Len(t, comments.comments, 1)
	assert.Equal(t, "u2", comments.comments[0].AuthorID)
}

func TestCreateComment_DanglingBlog(t *testing.T) {
	comments := &fakeCommentStore{fail: repository.ErrBlogRefMissing}
	h := NewCommentHandler(comments)

	rec := doRequest(t, http.MethodPost, "/comments",
		`{"blogId":"missing","content":"great post"}`,
		func(e *echo.Echo) {
			e.POST("/comments", h.Create, asPrincipal("u2", model.RoleUser))
		})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Blog not found", jsonBody(t, rec)["error"])
}

func TestCreateComment_MissingFields(t *testing.T) {
	h := NewCommentHandler(&fakeCommentStore{})

	rec := doRequest(t, http.MethodPost, "/comments", `{}`,
		func(e *echo.Echo) {
			e.POST("/comments", h.Create, asPrincipal("u2", model.RoleUser))
		})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := jsonBody(t, rec)["errors"].([]any)
	assert.ElementsMatch(t, []any{"Blog ID is required", "Content is required"}, errs)
}
