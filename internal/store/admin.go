// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"blogpress/internal/models"
)

// AdminStore provides access to accounts of the built-in token issuer.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore returns a new AdminStore.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

// FindByEmail returns the admin with the given email, or ErrNotFound.
func (s *AdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`, email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return &a, nil
}

// Create inserts a new admin with a bcrypt-hashed password.
func (s *AdminStore) Create(ctx context.Context, email, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := models.Admin{Email: email, PasswordHash: string(hash)}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO admins (email, password_hash) VALUES ($1, $2) RETURNING id, created_at`,
		email, a.PasswordHash,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return &a, nil
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials.
func (s *AdminStore) Authenticate(ctx context.Context, email, password string) (*models.Admin, error) {
	a, err := s.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}
