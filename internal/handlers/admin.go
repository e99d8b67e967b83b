// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"blogpress/internal/cache"
	"blogpress/internal/models"
	"blogpress/internal/store"
)

const (
	msgUnknownCategories = "指定されたカテゴリのいくつかが存在しません"
	msgDuplicateCategory = "同じ名前のカテゴリが既に存在します。"
	msgCategoryNotFound  = "カテゴリが見つかりません"
	msgUpdated           = "更新しました"
	msgDeleted           = "削除しました"
)

// Admin serves the bearer-protected content management routes. Every
// mutation drops the cached collections it affects.
type Admin struct {
	posts      PostStore
	categories CategoryStore
	storage    CoverStorage
	cache      ResponseCache
	validate   *Validator
}

// NewAdmin creates the admin handler group.
func NewAdmin(d Deps) *Admin {
	return &Admin{
		posts:      d.Posts,
		categories: d.Categories,
		storage:    d.Storage,
		cache:      cacheOrNoop(d.Cache),
		validate:   d.Validator,
	}
}

// ListPosts handles GET /api/admin/posts.
func (h *Admin) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		serverError(w, r, writeError, "list admin posts", err)
		return
	}

	views := make([]adminPostSummary, 0, len(posts))
	for _, p := range posts {
		views = append(views, adminPostSummary{
			ID:         p.ID,
			Title:      p.Title,
			CreatedAt:  p.CreatedAt,
			Categories: categoryRefs(p.Categories),
			LikeCount:  p.LikeCount,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// GetPost handles GET /api/admin/posts/{id}.
func (h *Admin) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	post, err := h.posts.FindByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		serverError(w, r, writeError, "get admin post", err)
		return
	}

	writeJSON(w, http.StatusOK, postForm{
		ID:            post.ID,
		Title:         post.Title,
		Content:       post.Content,
		CoverImageKey: post.CoverImageKey,
		Categories:    categoryRefs(post.Categories),
	})
}

// CreatePost handles POST /api/admin/posts.
func (h *Admin) CreatePost(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readPost(w, r)
	if !ok {
		return
	}

	post, err := h.posts.Create(r.Context(), in)
	if errors.Is(err, store.ErrUnknownCategory) {
		writeError(w, http.StatusBadRequest, msgUnknownCategories)
		return
	}
	if err != nil {
		serverError(w, r, writeError, "create post", err)
		return
	}

	h.cache.Invalidate(r.Context(), cache.KeyPosts)
	writeJSON(w, http.StatusOK, post)
}

// UpdatePost handles PUT /api/admin/posts/{id}. The scalar update and the
// category reassignment commit together.
func (h *Admin) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	in, ok := h.readPost(w, r)
	if !ok {
		return
	}

	err := h.posts.Update(r.Context(), id, in)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, msgPostNotFound)
		return
	case errors.Is(err, store.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, msgUnknownCategories)
		return
	case err != nil:
		serverError(w, r, writeError, "update post", err)
		return
	}

	h.cache.Invalidate(r.Context(), cache.KeyPosts)
	writeMessage(w, http.StatusOK, msgUpdated)
}

// DeletePost handles DELETE /api/admin/posts/{id}.
func (h *Admin) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	err := h.posts.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		serverError(w, r, writeError, "delete post", err)
		return
	}

	h.cache.Invalidate(r.Context(), cache.KeyPosts)
	writeMessage(w, http.StatusOK, msgDeleted)
}

// readPost decodes and validates a post body, then checks that every
// referenced category exists. It writes the error response itself.
func (h *Admin) readPost(w http.ResponseWriter, r *http.Request) (models.PostInput, bool) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return models.PostInput{}, false
	}
	req.normalize()
	if msg := h.validate.Check(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return models.PostInput{}, false
	}

	if len(req.CategoryIDs) > 0 {
		exist, err := h.categories.ExistAll(r.Context(), req.CategoryIDs)
		if err != nil {
			serverError(w, r, writeError, "check categories", err)
			return models.PostInput{}, false
		}
		if !exist {
			writeError(w, http.StatusBadRequest, msgUnknownCategories)
			return models.PostInput{}, false
		}
	}

	return models.PostInput{
		Title:         req.Title,
		Content:       req.Content,
		CoverImageKey: req.CoverImageKey,
		CategoryIDs:   req.CategoryIDs,
	}, true
}

// CreateCategory handles POST /api/admin/categories.
func (h *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	name, ok := h.readCategoryName(w, r)
	if !ok {
		return
	}

	cat, err := h.categories.Create(r.Context(), name)
	if errors.Is(err, store.ErrDuplicateName) {
		writeError(w, http.StatusBadRequest, msgDuplicateCategory)
		return
	}
	if err != nil {
		serverError(w, r, writeError, "create category", err)
		return
	}

	h.cache.Invalidate(r.Context(), cache.KeyCategories)
	writeJSON(w, http.StatusCreated, cat)
}

// RenameCategory handles PUT /api/admin/categories/{id}.
func (h *Admin) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	name, ok := h.readCategoryName(w, r)
	if !ok {
		return
	}

	cat, err := h.categories.Rename(r.Context(), id, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, msgCategoryNotFound)
		return
	case errors.Is(err, store.ErrDuplicateName):
		writeError(w, http.StatusBadRequest, msgDuplicateCategory)
		return
	case err != nil:
		serverError(w, r, writeError, "rename category", err)
		return
	}

	// Post entries embed category names.
	h.cache.Invalidate(r.Context(), cache.KeyCategories, cache.KeyPosts)
	writeJSON(w, http.StatusOK, cat)
}

// DeleteCategory handles DELETE /api/admin/categories/{id}. Posts keep
// existing; only their join rows go.
func (h *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	cat, err := h.categories.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgCategoryNotFound)
		return
	}
	if err != nil {
		serverError(w, r, writeError, "delete category", err)
		return
	}

	h.cache.Invalidate(r.Context(), cache.KeyCategories, cache.KeyPosts)
	writeJSON(w, http.StatusOK, map[string]string{"msg": "「" + cat.Name + "」を削除しました。"})
}

func (h *Admin) readCategoryName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return "", false
	}
	req.normalize()
	if msg := h.validate.Check(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return "", false
	}
	return req.Name, true
}
