package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/inkwell-blog/api/internal/model"
	"github.com/inkwell-blog/api/internal/repository"
)

// CommentHandler creates comments on behalf of authenticated users.
type CommentHandler struct {
	Comments CommentStore
}

func NewCommentHandler(comments CommentStore) *CommentHandler {
	return &CommentHandler{Comments: comments}
}

type createCommentReq struct {
	BlogID  string `json:"blogId"`
	Content string `json:"content"`
}

// Create adds a comment to a blog. The author is the calling principal; a
// dangling blog reference is a domain error, not a server failure.
func (h *CommentHandler) Create(c echo.Context) error {
	var req createCommentReq
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	var msgs []string
	if req.BlogID == "" {
		msgs = append(msgs, "Blog ID is required")
	}
	if req.Content == "" {
		msgs = append(msgs, "Content is required")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	cm := model.Comment{
		ID:       uuid.NewString(),
		Content:  req.Content,
		AuthorID: principalID(c),
		BlogID:   req.BlogID,
	}
	if err := h.Comments.Create(ctx, &cm); err != nil {
		if errors.Is(err, repository.ErrBlogRefMissing) {
			return badRequest("Blog not found")
		}
		log.Printf("create-comment: insert failed: %v", err)
		return badRequest("Error creating comment")
	}
	return c.JSON(http.StatusCreated, cm)
}
