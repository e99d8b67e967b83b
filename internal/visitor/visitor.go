// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package visitor issues the anonymous visitor identity cookie. The id is
// minted once per browser and is the only key used to tell likers apart;
// it is never tied to an admin account.
package visitor

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// CookieName is the name of the visitor cookie sent to the browser.
	CookieName = "visitorId"

	// Lifetime is how long the browser keeps the cookie.
	Lifetime = 365 * 24 * time.Hour
)

// Provider reads and mints visitor ids.
type Provider struct {
	secure bool
}

// NewProvider returns a Provider. secure marks the cookie Secure, which
// should be set when the site is served over TLS.
func NewProvider(secure bool) *Provider {
	return &Provider{secure: secure}
}

// ID returns the caller's visitor id. When the request carries no cookie a
// new id is generated and set on the response; the id is also attached to
// r so later calls during the same request return it instead of minting
// again.
func (p *Provider) ID(w http.ResponseWriter, r *http.Request) string {
	if id := Peek(r); id != "" {
		return id
	}

	c := &http.Cookie{
		Name:     CookieName,
		Value:    uuid.NewString(),
		Path:     "/",
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(Lifetime.Seconds()),
	}
	http.SetCookie(w, c)
	r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})

	return c.Value
}

// Peek returns the visitor id carried by the request, or "" if there is
// none. It never sets a cookie.
func Peek(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
