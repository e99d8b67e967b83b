// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog article. Categories is populated by store methods from the
// post_categories join table; LikeCount is derived from post_likes at read
// time and never stored on the row.
type Post struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CoverImageKey *string   `json:"coverImageKey"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Categories []Category `json:"categories"`
	LikeCount  int        `json:"likeCount"`
}

// HasCover reports whether a cover image key is set.
func (p *Post) HasCover() bool {
	return p.CoverImageKey != nil && *p.CoverImageKey != ""
}

// PostInput carries the editable fields of a post for create and update.
// An empty CategoryIDs clears all category assignments.
type PostInput struct {
	Title         string
	Content       string
	CoverImageKey *string
	CategoryIDs   []uuid.UUID
}
