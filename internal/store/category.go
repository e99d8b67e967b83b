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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	if err := scanner.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories, oldest first.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Create inserts a category. A taken name yields ErrDuplicateName.
func (s *CategoryStore) Create(ctx context.Context, name string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING `+categoryColumns, name))
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Rename changes a category's name.
func (s *CategoryStore) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, `
		UPDATE categories SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+categoryColumns, name, id))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNotFound
	case pgCode(err) == pgUniqueViolation:
		return nil, ErrDuplicateName
	case err != nil:
		return nil, fmt.Errorf("rename category: %w", err)
	}
	return c, nil
}

// Delete removes a category and returns it as it was. Join rows go with it;
// posts are kept.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`DELETE FROM categories WHERE id = $1 RETURNING `+categoryColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}
	return c, nil
}

// ExistAll reports whether every id in ids names an existing category.
// Duplicate ids are counted once.
func (s *CategoryStore) ExistAll(ctx context.Context, ids []uuid.UUID) (bool, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return true, nil
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE id = ANY($1::uuid[])`, idStrings(unique),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check categories: %w", err)
	}
	return n == len(unique), nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// idStrings renders ids for a uuid[] parameter.
func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
