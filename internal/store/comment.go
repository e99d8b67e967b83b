// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"blogpress/internal/models"
)

// CommentStore manages visitor comments.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// ListByPost returns a post's comments, newest first. LikedByMe is computed
// for visitorID; pass "" for an anonymous listing.
func (s *CommentStore) ListByPost(ctx context.Context, postID uuid.UUID, visitorID string) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.content, c.created_at,
		       (SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id),
		       EXISTS (SELECT 1 FROM comment_likes cl
		               WHERE cl.comment_id = c.id AND cl.visitor_id = $2)
		FROM comments c
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC`, postID, visitorID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	items := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Content, &c.CreatedAt, &c.LikeCount, &c.LikedByMe); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Create adds a comment to a post. An unknown post yields ErrNotFound.
func (s *CommentStore) Create(ctx context.Context, postID uuid.UUID, content string) (*models.Comment, error) {
	var c models.Comment
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, content) VALUES ($1, $2)
		RETURNING id, post_id, content, created_at`,
		postID, content,
	).Scan(&c.ID, &c.PostID, &c.Content, &c.CreatedAt)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &c, nil
}
