// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for
// blogpress. Routes are split into public reads, rate-limited visitor
// writes, and the bearer-protected admin group.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"blogpress/internal/handlers"
	"blogpress/internal/metrics"
	"blogpress/internal/middleware"
)

// Handlers groups the handler sets mounted by New.
type Handlers struct {
	Public *handlers.Public
	Admin  *handlers.Admin
	Auth   *handlers.Auth
}

// New creates and returns the configured Chi router. verifier backs the
// admin bearer gate; limiter throttles visitor writes and may be nil.
func New(h Handlers, verifier middleware.TokenVerifier, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public reads.
		r.Get("/posts", h.Public.ListPosts)
		r.Get("/posts/{id}", h.Public.GetPost)
		r.Get("/posts/{id}/comments", h.Public.ListComments)
		r.Get("/categories", h.Public.ListCategories)
		r.Get("/admin/categories", h.Public.ListCategories)

		// Per-visitor state is never cached by intermediaries.
		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Get("/posts/{id}/like", h.Public.PostLikeStatus)
			r.Get("/comments/{id}/like", h.Public.CommentLikeStatus)
		})

		// Visitor writes: no token, only the visitor cookie, rate limited per IP.
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Use(middleware.NoStore)

			r.Post("/posts/{id}/comments", h.Public.CreateComment)
			r.Post("/posts/{id}/like", h.Public.LikePost)
			r.Delete("/posts/{id}/like", h.Public.UnlikePost)
			r.Post("/comments/{id}/like", h.Public.LikeComment)
			r.Delete("/comments/{id}/like", h.Public.UnlikeComment)
			r.Post("/auth/login", h.Auth.Login)
		})

		// Admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireBearer(verifier))
			r.Use(middleware.NoStore)

			r.Get("/auth/me", h.Auth.Me)

			r.Get("/admin/posts", h.Admin.ListPosts)
			r.Post("/admin/posts", h.Admin.CreatePost)
			r.Get("/admin/posts/{id}", h.Admin.GetPost)
			r.Put("/admin/posts/{id}", h.Admin.UpdatePost)
			r.Delete("/admin/posts/{id}", h.Admin.DeletePost)

			// Listing categories stays public, mounted above.
			r.Post("/admin/categories", h.Admin.CreateCategory)
			r.Put("/admin/categories/{id}", h.Admin.RenameCategory)
			r.Delete("/admin/categories/{id}", h.Admin.DeleteCategory)

			r.Post("/admin/uploads/cover-image", h.Admin.UploadCover)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
