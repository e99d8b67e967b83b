// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for blogpress. Handlers
// are grouped by concern (public, admin, auth) and receive their
// dependencies through the handler struct. Stores are taken as interfaces
// so tests can run against in-memory fakes.
package handlers

import (
	"context"

	"github.com/google/uuid"

	"blogpress/internal/identity"
	"blogpress/internal/models"
	"blogpress/internal/sanitize"
	"blogpress/internal/visitor"
)

// PostStore is the post persistence used by the handlers.
type PostStore interface {
	List(ctx context.Context) ([]models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Create(ctx context.Context, in models.PostInput) (*models.Post, error)
	Update(ctx context.Context, id uuid.UUID, in models.PostInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryStore is the category persistence used by the handlers.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, name string) (*models.Category, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ExistAll(ctx context.Context, ids []uuid.UUID) (bool, error)
}

// CommentStore is the comment persistence used by the handlers.
type CommentStore interface {
	ListByPost(ctx context.Context, postID uuid.UUID, visitorID string) ([]models.Comment, error)
	Create(ctx context.Context, postID uuid.UUID, content string) (*models.Comment, error)
}

// LikeLedger records likes for posts and comments.
type LikeLedger interface {
	Like(ctx context.Context, subject models.Subject, visitorID string) error
	Unlike(ctx context.Context, subject models.Subject, visitorID string) error
	Status(ctx context.Context, subject models.Subject, visitorID string) (models.LikeStatus, error)
}

// CoverStorage stores cover images. A nil CoverStorage disables uploads
// and cover URLs.
type CoverStorage interface {
	PutCover(ctx context.Context, data []byte, contentType string) (string, error)
	CoverURL(ctx context.Context, key string) (string, error)
}

// SignInProvider exchanges admin credentials for a bearer token.
type SignInProvider interface {
	SignIn(ctx context.Context, email, password string) (*identity.Token, error)
}

// ResponseCache caches encoded response bodies. *cache.ResponseCache
// satisfies it, including as a nil pointer.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	Invalidate(ctx context.Context, keys ...string)
}

// Deps bundles everything the handler groups need. Storage may be nil
// when object storage is not configured.
type Deps struct {
	Posts      PostStore
	Categories CategoryStore
	Comments   CommentStore
	Likes      LikeLedger
	Visitors   *visitor.Provider
	Storage    CoverStorage
	Cache      ResponseCache
	Sanitizer  *sanitize.Sanitizer
	Validator  *Validator
}

// noCache is used when Deps.Cache is nil.
type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (noCache) Set(context.Context, string, []byte) {}
func (noCache) Invalidate(context.Context, ...string) {}

func cacheOrNoop(c ResponseCache) ResponseCache {
	if c == nil {
		return noCache{}
	}
	return c
}
