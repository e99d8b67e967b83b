// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"blogpress/internal/models"
)

// PostStore provides access to posts and their category assignments.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore backed by the given database.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postSelect returns posts with their like count derived from the ledger.
const postSelect = `
	SELECT p.id, p.title, p.content, p.cover_image_key, p.created_at, p.updated_at,
	       (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count
	FROM posts p`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Content, &p.CoverImageKey,
		&p.CreatedAt, &p.UpdatedAt, &p.LikeCount,
	)
	if err != nil {
		return nil, err
	}
	p.Categories = []models.Category{}
	return &p, nil
}

// List returns every post, newest first, with categories attached.
func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, postSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	ids := make([]uuid.UUID, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	cats, err := s.categoriesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if c, ok := cats[posts[i].ID]; ok {
			posts[i].Categories = c
		}
	}
	return posts, nil
}

// FindByID returns a single post with its categories, or ErrNotFound.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}

	cats, err := s.categoriesFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if c, ok := cats[id]; ok {
		p.Categories = c
	}
	return p, nil
}

// categoriesFor loads the categories of the given posts keyed by post id,
// each list in name order.
func (s *PostStore) categoriesFor(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]models.Category, error) {
	out := make(map[uuid.UUID][]models.Category, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pc.post_id, c.id, c.name, c.created_at, c.updated_at
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = ANY($1::uuid[])
		ORDER BY c.name`, idStrings(postIDs))
	if err != nil {
		return nil, fmt.Errorf("load post categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var c models.Category
		if err := rows.Scan(&postID, &c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post category: %w", err)
		}
		out[postID] = append(out[postID], c)
	}
	return out, rows.Err()
}

// Create inserts a post and its category assignments in one transaction.
// A category id that does not exist yields ErrUnknownCategory.
func (s *PostStore) Create(ctx context.Context, in models.PostInput) (*models.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO posts (title, content, cover_image_key)
		VALUES ($1, $2, $3)
		RETURNING id`,
		in.Title, in.Content, in.CoverImageKey,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := insertPostCategories(ctx, tx, id, in.CategoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit post: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update replaces a post's scalar fields and its full category set. The
// scalar update, the removal of old join rows and the insert of new ones
// commit together or not at all.
func (s *PostStore) Update(ctx context.Context, id uuid.UUID, in models.PostInput) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE posts SET title = $1, content = $2, cover_image_key = $3, updated_at = NOW()
		WHERE id = $4`,
		in.Title, in.Content, in.CoverImageKey, id,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_categories WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("clear post categories: %w", err)
	}

	if err := insertPostCategories(ctx, tx, id, in.CategoryIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a post. Comments, likes and join rows cascade.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// insertPostCategories bulk-inserts join rows in a single statement.
func insertPostCategories(ctx context.Context, tx *sql.Tx, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO post_categories (post_id, category_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT (post_id, category_id) DO NOTHING`,
		postID, idStrings(categoryIDs),
	)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return ErrUnknownCategory
		}
		return fmt.Errorf("insert post categories: %w", err)
	}
	return nil
}
