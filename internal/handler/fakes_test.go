package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell-blog/api/internal/config"
	"github.com/inkwell-blog/api/internal/model"
	"github.com/inkwell-blog/api/internal/queue"
	"github.com/inkwell-blog/api/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		Env:               "test",
		JWTSecret:         "test-secret",
		AccessTTLMin:      15,
		BcryptCost:        bcrypt.MinCost,
		Origin:            "http://localhost:8080",
		VerifyRedirectURL: "http://localhost:3000/login",
	}
}

// doRequest dispatches a request through echo so middleware, binding and the
// centralized error handler all run, and returns the recorded response.
func doRequest(t *testing.T, method, target string, body string, setup func(*echo.Echo)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	setup(e)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// asPrincipal is test middleware that plants an authenticated principal the
// way the deserialization middleware would.
func asPrincipal(userID, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", userID)
			c.Set("role", role)
			return next(c)
		}
	}
}

// ----- user store fake -----

type fakeUserStore struct {
	users map[string]*model.User
	fail  error // returned by every call when set
}

func newFakeUserStore(seed ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: map[string]*model.User{}}
	for _, u := range seed {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	if s.fail != nil {
		return s.fail
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrEmailExists
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) Count(context.Context) (int64, error) {
	if s.fail != nil {
		return 0, s.fail
	}
	return int64(len(s.users)), nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	if s.fail != nil {
		return model.User{}, s.fail
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (model.User, error) {
	if s.fail != nil {
		return model.User{}, s.fail
	}
	if u, ok := s.users[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) MarkVerified(_ context.Context, id string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Verified = true
	return nil
}

func (s *fakeUserStore) SetRecoveryCode(_ context.Context, id, code string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.RecoveryCode.String, u.RecoveryCode.Valid = code, true
	return nil
}

func (s *fakeUserStore) ResetPassword(_ context.Context, id, digest string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash.String, u.PasswordHash.Valid = digest, true
	u.RecoveryCode = sql.NullString{}
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id, digest string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash.String, u.PasswordHash.Valid = digest, true
	return nil
}

func (s *fakeUserStore) List(_ context.Context, q repository.ListQuery, role string) ([]model.User, int64, error) {
	if s.fail != nil {
		return nil, 0, s.fail
	}
	q = q.Normalize()
	var all []model.User
	for _, u := range s.users {
		if role != "" && u.Role != role {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	start := q.Offset()
	if start > len(all) {
		return nil, total, nil
	}
	end := start + q.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// ----- blog store fake -----

type fakeBlogStore struct {
	blogs map[string]*model.Blog
	fail  error
}

func newFakeBlogStore(seed ...*model.Blog) *fakeBlogStore {
	s := &fakeBlogStore{blogs: map[string]*model.Blog{}}
	for _, b := range seed {
		s.blogs[b.ID] = b
	}
	return s
}

func (s *fakeBlogStore) Create(_ context.Context, b *model.Blog) error {
	if s.fail != nil {
		return s.fail
	}
	cp := *b
	s.blogs[b.ID] = &cp
	return nil
}

func (s *fakeBlogStore) GetByID(_ context.Context, id string) (model.Blog, error) {
	if b, ok := s.blogs[id]; ok {
		return *b, nil
	}
	return model.Blog{}, repository.ErrBlogNotFound
}

func (s *fakeBlogStore) GetBySlug(_ context.Context, slug string) (model.Blog, error) {
	for _, b := range s.blogs {
		if b.Slug == slug {
			return *b, nil
		}
	}
	return model.Blog{}, repository.ErrBlogNotFound
}

func (s *fakeBlogStore) Update(_ context.Context, b *model.Blog) error {
	if s.fail != nil {
		return s.fail
	}
	stored, ok := s.blogs[b.ID]
	if !ok {
		return repository.ErrBlogNotFound
	}
	stored.Title, stored.ImageURL = b.Title, b.ImageURL
	stored.Overview, stored.Description = b.Overview, b.Description
	return nil
}

func (s *fakeBlogStore) IncrementViews(_ context.Context, id string) error {
	b, ok := s.blogs[id]
	if !ok {
		return repository.ErrBlogNotFound
	}
	b.Views++
	return nil
}

func (s *fakeBlogStore) Delete(_ context.Context, id string) error {
	if _, ok := s.blogs[id]; !ok {
		return repository.ErrBlogNotFound
	}
	delete(s.blogs, id)
	return nil
}

func (s *fakeBlogStore) List(_ context.Context, q repository.ListQuery) ([]model.Blog, int64, error) {
	if s.fail != nil {
		return nil, 0, s.fail
	}
	q = q.Normalize()
	var all []model.Blog
	for _, b := range s.blogs {
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	start := q.Offset()
	if start > len(all) {
		return nil, total, nil
	}
	end := start + q.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// ----- comment store fake -----

type fakeCommentStore struct {
	comments []model.Comment
	fail     error
}

func (s *fakeCommentStore) Create(_ context.Context, cm *model.Comment) error {
	if s.fail != nil {
		return s.fail
	}
	s.comments = append(s.comments, *cm)
	return nil
}

func (s *fakeCommentStore) ListByBlog(_ context.Context, blogID string) ([]model.Comment, error) {
	var out []model.Comment
	for _, cm := range s.comments {
		if cm.BlogID == blogID {
			out = append(out, cm)
		}
	}
	return out, nil
}

// ----- mailer and publisher fakes -----

type fakeMailer struct {
	sent   []string // recipient addresses
	bodies []string // html bodies, same order as sent
	fail   bool
}

func (m *fakeMailer) Send(_ context.Context, to, _, html string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, to)
	m.bodies = append(m.bodies, html)
	return nil
}

type fakePublisher struct {
	events []queue.AccountEvent
}

func (p *fakePublisher) Publish(_ context.Context, ev queue.AccountEvent) error {
	p.events = append(p.events, ev)
	return nil
}
