// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is an anonymous visitor comment on a post. Comments are never
// edited. LikeCount and LikedByMe are computed per request.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"postId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`

	LikeCount int  `json:"likeCount"`
	LikedByMe bool `json:"likedByMe"`
}
