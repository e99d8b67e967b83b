// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"time"

	"github.com/google/uuid"
)

// Category is a category as returned by the API.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Label, Tags and Created make Category a listview entry.
func (c Category) Label() string { return c.Name }
func (c Category) Tags() []string { return nil }
func (c Category) Created() time.Time { return c.CreatedAt }

// Post is an entry of the public post list.
type Post struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"createdAt"`
	Categories []Category `json:"categories"`
	LikeCount  int        `json:"likeCount"`
}

// Label, Tags and Created make Post a listview entry.
func (p Post) Label() string { return p.Title }
func (p Post) Created() time.Time { return p.CreatedAt }
func (p Post) Tags() []string {
	names := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		names[i] = c.Name
	}
	return names
}

// PostDetail is a single post.
type PostDetail struct {
	Post
	SafeContent   string  `json:"safeContent"`
	CoverImageKey *string `json:"coverImageKey"`
	CoverImageURL string  `json:"coverImageUrl"`
}

// PostInput is the body of post create and update.
type PostInput struct {
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	CoverImageKey *string     `json:"coverImageKey,omitempty"`
	CategoryIDs   []uuid.UUID `json:"categoryIds"`
}

// CoverUpload is the result of a cover image upload.
type CoverUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
