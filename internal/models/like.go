// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// SubjectKind names what a like ledger row points at.
type SubjectKind string

const (
	SubjectPost    SubjectKind = "post"
	SubjectComment SubjectKind = "comment"
)

// Subject identifies a likeable post or comment.
type Subject struct {
	Kind SubjectKind
	ID   uuid.UUID
}

// PostSubject returns the subject for a post id.
func PostSubject(id uuid.UUID) Subject { return Subject{Kind: SubjectPost, ID: id} }

// CommentSubject returns the subject for a comment id.
func CommentSubject(id uuid.UUID) Subject { return Subject{Kind: SubjectComment, ID: id} }

func (s Subject) String() string {
	return string(s.Kind) + ":" + s.ID.String()
}

// LikeStatus is the like count of a subject and whether the asking visitor
// is one of the likers.
type LikeStatus struct {
	Count int  `json:"count"`
	Liked bool `json:"liked"`
}
