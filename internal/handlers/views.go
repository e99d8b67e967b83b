// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"time"

	"github.com/google/uuid"

	"blogpress/internal/models"
)

type categoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func categoryRefs(cats []models.Category) []categoryRef {
	refs := make([]categoryRef, 0, len(cats))
	for _, c := range cats {
		refs = append(refs, categoryRef{ID: c.ID, Name: c.Name})
	}
	return refs
}

// postSummary is an entry of the public post list.
type postSummary struct {
	ID         uuid.UUID     `json:"id"`
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	CreatedAt  time.Time     `json:"createdAt"`
	Categories []categoryRef `json:"categories"`
	LikeCount  int           `json:"likeCount"`
}

// postDetail is the public single-post response.
type postDetail struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	SafeContent   string        `json:"safeContent"`
	CoverImageKey *string       `json:"coverImageKey"`
	CoverImageURL string        `json:"coverImageUrl,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	Categories    []categoryRef `json:"categories"`
	LikeCount     int           `json:"likeCount"`
}

// adminPostSummary is an entry of the admin post list. The body is left
// out since the list only links to the edit page.
type adminPostSummary struct {
	ID         uuid.UUID     `json:"id"`
	Title      string        `json:"title"`
	CreatedAt  time.Time     `json:"createdAt"`
	Categories []categoryRef `json:"categories"`
	LikeCount  int           `json:"likeCount"`
}

// postForm is the editable form of a post.
type postForm struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	CoverImageKey *string       `json:"coverImageKey"`
	Categories    []categoryRef `json:"categories"`
}

type coverUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
