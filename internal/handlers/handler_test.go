// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogpress/internal/identity"
	"blogpress/internal/models"
	"blogpress/internal/sanitize"
	"blogpress/internal/store"
	"blogpress/internal/visitor"
)

// --- in-memory fakes ---

type fakeCategories struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*models.Category
	err  error
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{byID: make(map[uuid.UUID]*models.Category)}
}

func (f *fakeCategories) add(name string) models.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	c := &models.Category{ID: uuid.New(), Name: name, CreatedAt: now, UpdatedAt: now}
	f.byID[c.ID] = c
	return *c
}

func (f *fakeCategories) List(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Category, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCategories) nameTaken(name string, except uuid.UUID) bool {
	for _, c := range f.byID {
		if c.Name == name && c.ID != except {
			return true
		}
	}
	return false
}

func (f *fakeCategories) Create(_ context.Context, name string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nameTaken(name, uuid.Nil) {
		return nil, store.ErrDuplicateName
	}
	now := time.Now()
	c := &models.Category{ID: uuid.New(), Name: name, CreatedAt: now, UpdatedAt: now}
	f.byID[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeCategories) Rename(_ context.Context, id uuid.UUID, name string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if f.nameTaken(name, id) {
		return nil, store.ErrDuplicateName
	}
	c.Name = name
	cp := *c
	return &cp, nil
}

func (f *fakeCategories) Delete(_ context.Context, id uuid.UUID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(f.byID, id)
	return c, nil
}

func (f *fakeCategories) ExistAll(_ context.Context, ids []uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if _, ok := f.byID[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

type fakePosts struct {
	mu         sync.Mutex
	byID       map[uuid.UUID]*models.Post
	categories *fakeCategories
	likes      *fakeLikes
	updateErr  error
}

func newFakePosts(cats *fakeCategories, likes *fakeLikes) *fakePosts {
	return &fakePosts{byID: make(map[uuid.UUID]*models.Post), categories: cats, likes: likes}
}

func (f *fakePosts) resolve(ids []uuid.UUID) ([]models.Category, error) {
	f.categories.mu.Lock()
	defer f.categories.mu.Unlock()
	out := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		c, ok := f.categories.byID[id]
		if !ok {
			return nil, store.ErrUnknownCategory
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakePosts) withCount(p models.Post) models.Post {
	p.LikeCount = f.likes.count(models.PostSubject(p.ID))
	return p
}

func (f *fakePosts) List(_ context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Post, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, f.withCount(*p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePosts) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := f.withCount(*p)
	return &cp, nil
}

func (f *fakePosts) Create(_ context.Context, in models.PostInput) (*models.Post, error) {
	cats, err := f.resolve(in.CategoryIDs)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	p := &models.Post{
		ID: uuid.New(), Title: in.Title, Content: in.Content, CoverImageKey: in.CoverImageKey,
		CreatedAt: now, UpdatedAt: now, Categories: cats,
	}
	f.byID[p.ID] = p
	cp := *p
	return &cp, nil
}

// Update applies all changes or none, like the transactional store.
func (f *fakePosts) Update(_ context.Context, id uuid.UUID, in models.PostInput) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cats, err := f.resolve(in.CategoryIDs)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Title, p.Content, p.CoverImageKey, p.Categories = in.Title, in.Content, in.CoverImageKey, cats
	p.UpdatedAt = time.Now()
	return nil
}

func (f *fakePosts) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeLikes enforces one row per (subject, visitor) under a lock, which
// stands in for the unique index.
type fakeLikes struct {
	mu      sync.Mutex
	rows    map[models.Subject]map[string]bool
	missing map[uuid.UUID]bool
	err     error
}

func newFakeLikes() *fakeLikes {
	return &fakeLikes{rows: make(map[models.Subject]map[string]bool), missing: make(map[uuid.UUID]bool)}
}

func (f *fakeLikes) Like(_ context.Context, s models.Subject, visitorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.missing[s.ID] {
		return store.ErrNotFound
	}
	if f.rows[s] == nil {
		f.rows[s] = make(map[string]bool)
	}
	if f.rows[s][visitorID] {
		return store.ErrAlreadyLiked
	}
	f.rows[s][visitorID] = true
	return nil
}

func (f *fakeLikes) Unlike(_ context.Context, s models.Subject, visitorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.rows[s], visitorID)
	return nil
}

func (f *fakeLikes) Status(_ context.Context, s models.Subject, visitorID string) (models.LikeStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.LikeStatus{Count: len(f.rows[s]), Liked: visitorID != "" && f.rows[s][visitorID]}, nil
}

func (f *fakeLikes) count(s models.Subject) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows[s])
}

type fakeComments struct {
	mu    sync.Mutex
	posts *fakePosts
	likes *fakeLikes
	byID  map[uuid.UUID]*models.Comment
}

func (f *fakeComments) ListByPost(_ context.Context, postID uuid.UUID, visitorID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Comment{}
	for _, c := range f.byID {
		if c.PostID != postID {
			continue
		}
		cp := *c
		st, _ := f.likes.Status(context.Background(), models.CommentSubject(c.ID), visitorID)
		cp.LikeCount, cp.LikedByMe = st.Count, st.Liked
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeComments) Create(ctx context.Context, postID uuid.UUID, content string) (*models.Comment, error) {
	if _, err := f.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &models.Comment{ID: uuid.New(), PostID: postID, Content: content, CreatedAt: time.Now()}
	f.byID[c.ID] = c
	cp := *c
	return &cp, nil
}

type fakeStorage struct {
	mu   sync.Mutex
	puts map[string][]byte
	err  error
}

func (f *fakeStorage) PutCover(_ context.Context, data []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := "private/" + uuid.NewSHA1(uuid.Nil, data).String()
	f.puts[key] = data
	return key, nil
}

func (f *fakeStorage) CoverURL(_ context.Context, key string) (string, error) {
	return "https://cdn.test/" + key, nil
}

type fakeSignIn struct {
	email, password string
	err             error
}

func (f *fakeSignIn) SignIn(_ context.Context, email, password string) (*identity.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	if email != f.email || password != f.password {
		return nil, identity.ErrInvalidCredentials
	}
	return &identity.Token{AccessToken: "token-" + email, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// --- test environment ---

type testEnv struct {
	Public *Public
	Admin  *Admin
	Auth   *Auth
	Router chi.Router

	Posts      *fakePosts
	Categories *fakeCategories
	Comments   *fakeComments
	Likes      *fakeLikes
	Storage    *fakeStorage
	SignIn     *fakeSignIn
}

type envOption func(*Deps)

func withoutStorage() envOption {
	return func(d *Deps) { d.Storage = nil }
}

func withCache(c ResponseCache) envOption {
	return func(d *Deps) { d.Cache = c }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	likes := newFakeLikes()
	cats := newFakeCategories()
	posts := newFakePosts(cats, likes)
	comments := &fakeComments{posts: posts, likes: likes, byID: make(map[uuid.UUID]*models.Comment)}
	storage := &fakeStorage{puts: make(map[string][]byte)}
	signIn := &fakeSignIn{email: "admin@example.com", password: "secret"}

	deps := Deps{
		Posts:      posts,
		Categories: cats,
		Comments:   comments,
		Likes:      likes,
		Visitors:   visitor.NewProvider(false),
		Storage:    storage,
		Sanitizer:  sanitize.New(),
		Validator:  NewValidator(),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	env := &testEnv{
		Public:     NewPublic(deps),
		Admin:      NewAdmin(deps),
		Auth:       NewAuth(signIn, deps.Validator),
		Posts:      posts,
		Categories: cats,
		Comments:   comments,
		Likes:      likes,
		Storage:    storage,
		SignIn:     signIn,
	}

	// Routes are mounted without the bearer gate; that is covered by the
	// router and middleware tests.
	r := chi.NewRouter()
	r.Get("/api/posts", env.Public.ListPosts)
	r.Get("/api/posts/{id}", env.Public.GetPost)
	r.Get("/api/posts/{id}/comments", env.Public.ListComments)
	r.Post("/api/posts/{id}/comments", env.Public.CreateComment)
	r.Get("/api/posts/{id}/like", env.Public.PostLikeStatus)
	r.Post("/api/posts/{id}/like", env.Public.LikePost)
	r.Delete("/api/posts/{id}/like", env.Public.UnlikePost)
	r.Get("/api/comments/{id}/like", env.Public.CommentLikeStatus)
	r.Post("/api/comments/{id}/like", env.Public.LikeComment)
	r.Delete("/api/comments/{id}/like", env.Public.UnlikeComment)
	r.Get("/api/categories", env.Public.ListCategories)
	r.Get("/api/admin/posts", env.Admin.ListPosts)
	r.Post("/api/admin/posts", env.Admin.CreatePost)
	r.Get("/api/admin/posts/{id}", env.Admin.GetPost)
	r.Put("/api/admin/posts/{id}", env.Admin.UpdatePost)
	r.Delete("/api/admin/posts/{id}", env.Admin.DeletePost)
	r.Post("/api/admin/categories", env.Admin.CreateCategory)
	r.Put("/api/admin/categories/{id}", env.Admin.RenameCategory)
	r.Delete("/api/admin/categories/{id}", env.Admin.DeleteCategory)
	r.Post("/api/admin/uploads/cover-image", env.Admin.UploadCover)
	r.Post("/api/auth/login", env.Auth.Login)
	env.Router = r

	return env
}

// do sends a request through the test router. body is JSON-encoded unless
// it is already a []byte.
func (env *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case []byte:
		buf.Write(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) seedPost(t *testing.T, title string, cats ...models.Category) *models.Post {
	t.Helper()
	ids := make([]uuid.UUID, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	p, err := env.Posts.Create(context.Background(), models.PostInput{Title: title, Content: "body of " + title, CategoryIDs: ids})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return p
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func visitorCookie(id string) *http.Cookie {
	return &http.Cookie{Name: visitor.CookieName, Value: id}
}

var errBoom = errors.New("boom")
