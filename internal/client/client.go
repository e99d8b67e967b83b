// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package client is a typed HTTP client for the blogpress API. It keeps the
// visitorId cookie in a cookie jar so likes made through one Client are
// attributed to the same visitor, the way a browser would.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"blogpress/internal/visitor"
)

// maxResponseBody caps decoded response bodies.
const maxResponseBody = 4 << 20

// APIError is a non-2xx response. Message is the server's "error",
// "message" or "msg" field when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Options configures a Client.
type Options struct {
	BaseURL string
	// Token is sent as a bearer token on admin calls.
	Token string
	// VisitorID seeds the cookie jar with an existing visitor identity.
	VisitorID  string
	HTTPClient *http.Client
}

// Client calls the blogpress API.
type Client struct {
	base  *url.URL
	http  *http.Client
	jar   *cookiejar.Jar
	token string
}

// New creates a Client for opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if opts.VisitorID != "" {
		jar.SetCookies(base, []*http.Cookie{{Name: visitor.CookieName, Value: opts.VisitorID, Path: "/"}})
	}

	hc := &http.Client{Timeout: 30 * time.Second}
	if opts.HTTPClient != nil {
		cp := *opts.HTTPClient
		hc = &cp
	}
	hc.Jar = jar

	return &Client{base: base, http: hc, jar: jar, token: opts.Token}, nil
}

// VisitorID returns the visitor id the server assigned, or "" if no like
// has been made yet.
func (c *Client) VisitorID() string {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == visitor.CookieName {
			return ck.Value
		}
	}
	return ""
}

// Token returns the bearer token in use.
func (c *Client) Token() string {
	return c.token
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.token = token
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if json.Unmarshal(data, &body) != nil {
		return strings.TrimSpace(string(data))
	}
	switch {
	case body.Error != "":
		return body.Error
	case body.Message != "":
		return body.Message
	}
	return body.Msg
}
