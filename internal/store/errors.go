// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements PostgreSQL persistence for posts, categories,
// comments, likes and admin accounts.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyLiked is returned when a visitor likes the same subject twice.
	ErrAlreadyLiked = errors.New("already liked")
	// ErrDuplicateName is returned when a category name is already taken.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrUnknownCategory is returned when a post references a category id
	// that does not exist.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidCredentials is returned by AdminStore.Authenticate.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// SQLSTATE codes the stores translate into sentinel errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgCode returns the SQLSTATE of a PostgreSQL error, or "" for anything else.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
