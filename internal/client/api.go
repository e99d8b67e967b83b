// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"blogpress/internal/identity"
	"blogpress/internal/models"
)

// ListPosts fetches every post, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches one post.
func (c *Client) GetPost(ctx context.Context, id uuid.UUID) (*PostDetail, error) {
	var p PostDetail
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+id.String(), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListCategories fetches every category.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// ListComments fetches the comments of a post, newest first.
func (c *Client) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+postID.String()+"/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment.
func (c *Client) AddComment(ctx context.Context, postID uuid.UUID, content string) (*models.Comment, error) {
	var comment models.Comment
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+postID.String()+"/comments", body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func likePath(s models.Subject) string {
	return fmt.Sprintf("/api/%ss/%s/like", s.Kind, s.ID)
}

// Like likes a subject as this client's visitor. A repeated like fails
// with a 400 APIError.
func (c *Client) Like(ctx context.Context, s models.Subject) error {
	return c.do(ctx, http.MethodPost, likePath(s), nil, nil)
}

// Unlike withdraws this visitor's like, if any.
func (c *Client) Unlike(ctx context.Context, s models.Subject) error {
	return c.do(ctx, http.MethodDelete, likePath(s), nil, nil)
}

// LikeStatus returns the current count and whether this visitor liked s.
func (c *Client) LikeStatus(ctx context.Context, s models.Subject) (models.LikeStatus, error) {
	var st models.LikeStatus
	err := c.do(ctx, http.MethodGet, likePath(s), nil, &st)
	return st, err
}

// Login signs in and keeps the returned token for later admin calls.
func (c *Client) Login(ctx context.Context, email, password string) (*identity.Token, error) {
	var tok identity.Token
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &tok); err != nil {
		return nil, err
	}
	c.token = tok.AccessToken
	return &tok, nil
}

// Me returns the admin behind the current token.
func (c *Client) Me(ctx context.Context) (*identity.User, error) {
	var u identity.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodPost, "/api/admin/categories", map[string]string{"name": name}, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// RenameCategory renames a category.
func (c *Client) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodPut, "/api/admin/categories/"+id.String(), map[string]string{"name": name}, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory deletes a category and returns the server's confirmation.
func (c *Client) DeleteCategory(ctx context.Context, id uuid.UUID) (string, error) {
	var out struct {
		Msg string `json:"msg"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/admin/categories/"+id.String(), nil, &out); err != nil {
		return "", err
	}
	return out.Msg, nil
}

// CreatePost creates a post.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (*Post, error) {
	if in.CategoryIDs == nil {
		in.CategoryIDs = []uuid.UUID{}
	}
	var p Post
	if err := c.do(ctx, http.MethodPost, "/api/admin/posts", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePost replaces a post's fields and categories.
func (c *Client) UpdatePost(ctx context.Context, id uuid.UUID, in PostInput) (string, error) {
	if in.CategoryIDs == nil {
		in.CategoryIDs = []uuid.UUID{}
	}
	return c.message(ctx, http.MethodPut, "/api/admin/posts/"+id.String(), in)
}

// DeletePost deletes a post.
func (c *Client) DeletePost(ctx context.Context, id uuid.UUID) (string, error) {
	return c.message(ctx, http.MethodDelete, "/api/admin/posts/"+id.String(), nil)
}

func (c *Client) message(ctx context.Context, method, path string, in any) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, method, path, in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// UploadCover uploads an image as a post cover.
func (c *Client) UploadCover(ctx context.Context, filename string, r io.Reader) (*CoverUpload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base.String()+"/api/admin/uploads/cover-image", &buf)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var up CoverUpload
	if err := c.send(req, &up); err != nil {
		return nil, err
	}
	return &up, nil
}
