// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"blogpress/internal/identity"
	"blogpress/internal/metrics"
	"blogpress/internal/middleware"
)

const msgBadCredentials = "メールアドレスまたはパスワードが正しくありません"

// Auth serves the sign-in routes.
type Auth struct {
	provider SignInProvider
	validate *Validator
}

// NewAuth creates the auth handler group.
func NewAuth(provider SignInProvider, v *Validator) *Auth {
	return &Auth{provider: provider, validate: v}
}

// Login handles POST /api/auth/login and returns a bearer token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	req.normalize()
	if msg := h.validate.Check(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	token, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		metrics.RecordAuthFailure("bad_credentials")
		writeError(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	if err != nil {
		serverError(w, r, writeError, "sign in", err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// Me handles GET /api/auth/me behind the bearer gate.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.UserFromCtx(r.Context()))
}
