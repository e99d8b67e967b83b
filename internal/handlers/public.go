// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"blogpress/internal/cache"
	"blogpress/internal/metrics"
	"blogpress/internal/models"
	"blogpress/internal/sanitize"
	"blogpress/internal/store"
	"blogpress/internal/visitor"
)

const (
	msgAlreadyLiked    = "既にいいね済み"
	msgCommentNotFound = "コメントが見つかりません"
)

// Public serves the unauthenticated routes: reading posts and categories,
// commenting and liking.
type Public struct {
	posts      PostStore
	categories CategoryStore
	comments   CommentStore
	likes      LikeLedger
	visitors   *visitor.Provider
	storage    CoverStorage
	cache      ResponseCache
	sanitizer  *sanitize.Sanitizer
	validate   *Validator
}

// NewPublic creates the public handler group.
func NewPublic(d Deps) *Public {
	return &Public{
		posts:      d.Posts,
		categories: d.Categories,
		comments:   d.Comments,
		likes:      d.Likes,
		visitors:   d.Visitors,
		storage:    d.Storage,
		cache:      cacheOrNoop(d.Cache),
		sanitizer:  d.Sanitizer,
		validate:   d.Validator,
	}
}

// ListPosts handles GET /api/posts.
func (h *Public) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if body, ok := h.cache.Get(ctx, cache.KeyPosts); ok {
		writeRaw(w, http.StatusOK, body)
		return
	}

	posts, err := h.posts.List(ctx)
	if err != nil {
		serverError(w, r, writeError, "list posts", err)
		return
	}

	views := make([]postSummary, 0, len(posts))
	for _, p := range posts {
		views = append(views, postSummary{
			ID:         p.ID,
			Title:      p.Title,
			Content:    p.Content,
			CreatedAt:  p.CreatedAt,
			Categories: categoryRefs(p.Categories),
			LikeCount:  p.LikeCount,
		})
	}
	h.writeCached(w, r, cache.KeyPosts, views)
}

// GetPost handles GET /api/posts/{id}.
func (h *Public) GetPost(w http.ResponseWriter, r *http.Request) {
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
		serverError(w, r, writeError, "get post", err)
		return
	}

	writeJSON(w, http.StatusOK, postDetail{
		ID:            post.ID,
		Title:         post.Title,
		Content:       post.Content,
		SafeContent:   h.sanitizer.Inline(post.Content),
		CoverImageKey: post.CoverImageKey,
		CoverImageURL: coverURL(r.Context(), h.storage, post),
		CreatedAt:     post.CreatedAt,
		Categories:    categoryRefs(post.Categories),
		LikeCount:     post.LikeCount,
	})
}

// ListCategories handles GET /api/categories and the public
// GET /api/admin/categories.
func (h *Public) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if body, ok := h.cache.Get(ctx, cache.KeyCategories); ok {
		writeRaw(w, http.StatusOK, body)
		return
	}

	cats, err := h.categories.List(ctx)
	if err != nil {
		serverError(w, r, writeError, "list categories", err)
		return
	}
	h.writeCached(w, r, cache.KeyCategories, cats)
}

// ListComments handles GET /api/posts/{id}/comments. The visitor cookie is
// only read here, never minted.
func (h *Public) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	comments, err := h.comments.ListByPost(r.Context(), id, visitor.Peek(r))
	if err != nil {
		serverError(w, r, writeMessage, "list comments", err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// CreateComment handles POST /api/posts/{id}/comments.
func (h *Public) CreateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	req.normalize()
	if msg := h.validate.Check(&req); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	comment, err := h.comments.Create(r.Context(), id, req.Content)
	if errors.Is(err, store.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		serverError(w, r, writeMessage, "create comment", err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// LikePost handles POST /api/posts/{id}/like.
func (h *Public) LikePost(w http.ResponseWriter, r *http.Request) {
	h.like(w, r, models.SubjectPost)
}

// UnlikePost handles DELETE /api/posts/{id}/like.
func (h *Public) UnlikePost(w http.ResponseWriter, r *http.Request) {
	h.unlike(w, r, models.SubjectPost)
}

// PostLikeStatus handles GET /api/posts/{id}/like.
func (h *Public) PostLikeStatus(w http.ResponseWriter, r *http.Request) {
	h.likeStatus(w, r, models.SubjectPost)
}

// LikeComment handles POST /api/comments/{id}/like.
func (h *Public) LikeComment(w http.ResponseWriter, r *http.Request) {
	h.like(w, r, models.SubjectComment)
}

// UnlikeComment handles DELETE /api/comments/{id}/like.
func (h *Public) UnlikeComment(w http.ResponseWriter, r *http.Request) {
	h.unlike(w, r, models.SubjectComment)
}

// CommentLikeStatus handles GET /api/comments/{id}/like.
func (h *Public) CommentLikeStatus(w http.ResponseWriter, r *http.Request) {
	h.likeStatus(w, r, models.SubjectComment)
}

// like inserts a ledger row for the caller. There is no existence
// pre-check: the unique constraint decides, and a second like from the
// same visitor is reported as already liked.
func (h *Public) like(w http.ResponseWriter, r *http.Request, kind models.SubjectKind) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	subject := models.Subject{Kind: kind, ID: id}
	visitorID := h.visitors.ID(w, r)

	err := h.likes.Like(r.Context(), subject, visitorID)
	switch {
	case err == nil:
		metrics.RecordLike(string(kind), "like", "ok")
	case errors.Is(err, store.ErrAlreadyLiked):
		metrics.RecordLike(string(kind), "like", "conflict")
		writeMessage(w, http.StatusBadRequest, msgAlreadyLiked)
		return
	case errors.Is(err, store.ErrNotFound):
		metrics.RecordLike(string(kind), "like", "not_found")
		writeMessage(w, http.StatusNotFound, subjectNotFound(kind))
		return
	default:
		metrics.RecordLike(string(kind), "like", "error")
		serverError(w, r, writeMessage, "like "+string(kind), err)
		return
	}

	h.afterLikeChange(r.Context(), kind)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// unlike removes the caller's ledger row if there is one.
func (h *Public) unlike(w http.ResponseWriter, r *http.Request, kind models.SubjectKind) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	subject := models.Subject{Kind: kind, ID: id}
	visitorID := h.visitors.ID(w, r)

	if err := h.likes.Unlike(r.Context(), subject, visitorID); err != nil {
		metrics.RecordLike(string(kind), "unlike", "error")
		serverError(w, r, writeMessage, "unlike "+string(kind), err)
		return
	}
	metrics.RecordLike(string(kind), "unlike", "ok")

	h.afterLikeChange(r.Context(), kind)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Public) likeStatus(w http.ResponseWriter, r *http.Request, kind models.SubjectKind) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	status, err := h.likes.Status(r.Context(), models.Subject{Kind: kind, ID: id}, visitor.Peek(r))
	if err != nil {
		serverError(w, r, writeMessage, "like status", err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// afterLikeChange drops cached collections that embed like counts.
func (h *Public) afterLikeChange(ctx context.Context, kind models.SubjectKind) {
	if kind == models.SubjectPost {
		h.cache.Invalidate(ctx, cache.KeyPosts)
	}
}

// writeCached encodes v, stores the body under key and writes it.
func (h *Public) writeCached(w http.ResponseWriter, r *http.Request, key string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		serverError(w, r, writeError, "encode "+key, err)
		return
	}
	h.cache.Set(r.Context(), key, body)
	writeRaw(w, http.StatusOK, body)
}

func subjectNotFound(kind models.SubjectKind) string {
	if kind == models.SubjectComment {
		return msgCommentNotFound
	}
	return msgPostNotFound
}

// coverURL resolves the display URL of a post's cover, or "" when there is
// no cover or no storage. Failures only cost the URL.
func coverURL(ctx context.Context, storage CoverStorage, post *models.Post) string {
	if storage == nil || !post.HasCover() {
		return ""
	}
	url, err := storage.CoverURL(ctx, *post.CoverImageKey)
	if err != nil {
		slog.Warn("resolve cover url failed", "error", err, "key", *post.CoverImageKey)
		return ""
	}
	return url
}
