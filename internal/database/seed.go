// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// defaultCategories gives a fresh development database something to file
// posts under.
var defaultCategories = []string{"お知らせ", "技術", "日記"}

// Seed populates the database with initial development data: an admin
// account for the built-in token issuer and a few categories. It is a
// no-op for each table that already has rows.
func Seed(db *sql.DB, adminEmail, adminPassword string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return fmt.Errorf("seed check admins: %w", err)
	}

	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}
		if _, err := db.Exec(
			`INSERT INTO admins (email, password_hash) VALUES ($1, $2)`,
			adminEmail, string(hash),
		); err != nil {
			return fmt.Errorf("seed insert admin: %w", err)
		}
		slog.Info("database seeded with default admin", "email", adminEmail)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping categories")
		return nil
	}

	for _, name := range defaultCategories {
		if _, err := db.Exec(`INSERT INTO categories (name) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("seed insert category %q: %w", name, err)
		}
	}
	slog.Info("database seeded with default categories", "count", len(defaultCategories))
	return nil
}
