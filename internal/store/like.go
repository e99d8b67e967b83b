// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"blogpress/internal/models"
)

// LikeStore is the like ledger for posts and comments. One row per
// (subject, visitor) pair; the unique constraint on each table is the only
// thing that rejects a second like, so Like never reads before it writes.
type LikeStore struct {
	db *sql.DB
}

// NewLikeStore returns a new LikeStore.
func NewLikeStore(db *sql.DB) *LikeStore {
	return &LikeStore{db: db}
}

// ledger maps a subject kind to its table and subject column.
func ledger(kind models.SubjectKind) (table, column string, err error) {
	switch kind {
	case models.SubjectPost:
		return "post_likes", "post_id", nil
	case models.SubjectComment:
		return "comment_likes", "comment_id", nil
	}
	return "", "", fmt.Errorf("unknown like subject %q", kind)
}

// Like records that visitorID likes the subject. A second like by the same
// visitor yields ErrAlreadyLiked; a missing subject yields ErrNotFound.
func (s *LikeStore) Like(ctx context.Context, subject models.Subject, visitorID string) error {
	table, column, err := ledger(subject.Kind)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (`+column+`, visitor_id) VALUES ($1, $2)`,
		subject.ID, visitorID,
	)
	if err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return ErrAlreadyLiked
		case pgForeignKeyViolation:
			return ErrNotFound
		}
		return fmt.Errorf("like %s: %w", subject, err)
	}
	return nil
}

// Unlike deletes every ledger row for the pair. Deleting nothing is not an
// error.
func (s *LikeStore) Unlike(ctx context.Context, subject models.Subject, visitorID string) error {
	table, column, err := ledger(subject.Kind)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE `+column+` = $1 AND visitor_id = $2`,
		subject.ID, visitorID,
	); err != nil {
		return fmt.Errorf("unlike %s: %w", subject, err)
	}
	return nil
}

// Status counts the subject's likes and reports whether visitorID is among
// them. An empty visitorID is never a liker.
func (s *LikeStore) Status(ctx context.Context, subject models.Subject, visitorID string) (models.LikeStatus, error) {
	table, column, err := ledger(subject.Kind)
	if err != nil {
		return models.LikeStatus{}, err
	}

	var st models.LikeStatus
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(BOOL_OR(visitor_id = $2), false)
		FROM `+table+` WHERE `+column+` = $1`,
		subject.ID, visitorID,
	).Scan(&st.Count, &st.Liked)
	if err != nil {
		return models.LikeStatus{}, fmt.Errorf("like status %s: %w", subject, err)
	}
	return st, nil
}
