package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/inkwell-blog/api/internal/model"
	"github.com/inkwell-blog/api/internal/repository"
	"github.com/inkwell-blog/api/internal/utils"
)

// BlogStore is the persistence capability the content lifecycle needs.
// *repository.BlogRepo satisfies it.
type BlogStore interface {
	Create(ctx context.Context, b *model.Blog) error
	GetByID(ctx context.Context, id string) (model.Blog, error)
	GetBySlug(ctx context.Context, slug string) (model.Blog, error)
	Update(ctx context.Context, b *model.Blog) error
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q repository.ListQuery) ([]model.Blog, int64, error)
}

// CommentStore resolves and stores blog comments.
type CommentStore interface {
	Create(ctx context.Context, cm *model.Comment) error
	ListByBlog(ctx context.Context, blogID string) ([]model.Comment, error)
}

// BlogHandler owns the content lifecycle: create, partial update, fetch and
// delete, with ownership enforced on every mutation.
type BlogHandler struct {
	Blogs    BlogStore
	Comments CommentStore
}

func NewBlogHandler(blogs BlogStore, comments CommentStore) *BlogHandler {
	return &BlogHandler{Blogs: blogs, Comments: comments}
}

// ----- create -----

type createBlogReq struct {
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`
	Overview    string `json:"overview"`
	Description string `json:"description"`
}

func (r createBlogReq) validate() []string {
	var msgs []string
	if r.Title == "" {
		msgs = append(msgs, "Title is required")
	}
	if r.ImageURL == "" {
		msgs = append(msgs, "Image Url is required")
	}
	if r.Overview == "" {
		msgs = append(msgs, "Overview is required")
	}
	if r.Description == "" {
		msgs = append(msgs, "Description is required")
	}
	return msgs
}

// Create persists a new blog owned by the calling admin. The slug is
// derived from the title once, here, and never changes.
func (h *BlogHandler) Create(c echo.Context) error {
	var req createBlogReq
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if msgs := req.validate(); len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	b := model.Blog{
		ID:          uuid.NewString(),
		Slug:        utils.Slugify(req.Title),
		Title:       req.Title,
		ImageURL:    req.ImageURL,
		Overview:    req.Overview,
		Description: req.Description,
		UserID:      principalID(c),
	}
	if err := h.Blogs.Create(ctx, &b); err != nil {
		log.Printf("create-blog: insert failed: %v", err)
		return badRequest("Error creating blog")
	}

	created, err := h.Blogs.GetByID(ctx, b.ID)
	if err != nil {
		// Insert succeeded; fall back to the in-memory value.
		created = b
	}
	return c.JSON(http.StatusCreated, created)
}

// ----- update -----

// blogPatch models the partial update: nil means "keep the stored value",
// so an explicitly supplied empty string still overwrites.
type blogPatch struct {
	Title       *string `json:"title"`
	ImageURL    *string `json:"imageUrl"`
	Overview    *string `json:"overview"`
	Description *string `json:"description"`
}

func (p blogPatch) apply(b *model.Blog) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.ImageURL != nil {
		b.ImageURL = *p.ImageURL
	}
	if p.Overview != nil {
		b.Overview = *p.Overview
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
}

// Update merges the supplied fields over the stored blog. Only the owner
// may update; a non-owner gets 401 and the entity is left untouched.
func (h *BlogHandler) Update(c echo.Context) error {
	blogID := c.Param("blogId")
	if blogID == "" {
		return &ValidationError{Messages: []string{"Blog ID is required"}}
	}
	var patch blogPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest("invalid request body")
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	b, err := h.Blogs.GetByID(ctx, blogID)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return badRequest("Blog not found")
		}
		log.Printf("update-blog: lookup failed: %v", err)
		return badRequest("Error updating blog")
	}
	if b.UserID != principalID(c) {
		return unauthorized("User not authorised")
	}

	patch.apply(&b)
	if err := h.Blogs.Update(ctx, &b); err != nil {
		log.Printf("update-blog: update failed: %v", err)
		return badRequest("Error updating blog")
	}

	updated, err := h.Blogs.GetByID(ctx, blogID)
	if err != nil {
		updated = b
	}
	return c.JSON(http.StatusOK, updated)
}

// ----- fetch one -----

// FetchOne returns a blog by slug with its comments resolved, bumping the
// view counter as a side effect.
func (h *BlogHandler) FetchOne(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return &ValidationError{Messages: []string{"Slug is required"}}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	b, err := h.Blogs.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return badRequest("Blog not found")
		}
		log.Printf("fetch-blog: lookup failed: %v", err)
		return badRequest("Error fetching blog")
	}

	comments, err := h.Comments.ListByBlog(ctx, b.ID)
	if err != nil {
		log.Printf("fetch-blog: comments failed: %v", err)
		return badRequest("Error fetching blog")
	}

	// View counting is best effort; a failed bump never fails the read.
	if err := h.Blogs.IncrementViews(ctx, b.ID); err == nil {
		b.Views++
	}

	return c.JSON(http.StatusOK, model.BlogWithComments{Blog: b, Comments: comments})
}

// ----- fetch many -----

// FetchMany returns a filtered, paginated page of blogs plus the total page
// count. The batch size is always the page size.
func (h *BlogHandler) FetchMany(c echo.Context) error {
	q, msgs := parseBlogListQuery(c)
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	blogs, total, err := h.Blogs.List(ctx, q)
	if err != nil {
		log.Printf("fetch-blogs: query failed: %v", err)
		return badRequest("Error fetching blogs")
	}

	q = q.Normalize()
	return c.JSON(http.StatusOK, echo.Map{
		"blogs":      blogs,
		"numOfPages": repository.Pages(total, q.PageSize),
	})
}

func parseBlogListQuery(c echo.Context) (repository.ListQuery, []string) {
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
		switch f {
		case repository.FilterNewest, repository.FilterOldest, repository.FilterTrending:
			q.Filter = f
		default:
			msgs = append(msgs, "Filter must be one of: newest, oldest, trending")
		}
	}
	return q, msgs
}

// ----- delete -----

// Delete removes a blog and its comments. Same ownership rule as Update.
func (h *BlogHandler) Delete(c echo.Context) error {
	blogID := c.Param("blogId")
	if blogID == "" {
		return &ValidationError{Messages: []string{"Blog ID is required"}}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	b, err := h.Blogs.GetByID(ctx, blogID)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return badRequest("Blog not found")
		}
		log.Printf("delete-blog: lookup failed: %v", err)
		return badRequest("Error deleting blog")
	}
	if b.UserID != principalID(c) {
		return unauthorized("User not authorised")
	}

	if err := h.Blogs.Delete(ctx, b.ID); err != nil {
		log.Printf("delete-blog: delete failed: %v", err)
		return badRequest("Error deleting blog")
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "Blog successfully deleted"})
}
