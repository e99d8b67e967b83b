// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"blogpress/internal/database"
	"blogpress/internal/models"
)

// containerDSN is set by TestMain when the suite runs with -tags integration.
var containerDSN string

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	if containerDSN != "" {
		return containerDSN
	}
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blogpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blogpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// newCategory creates a uniquely named category removed at cleanup.
func newCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(context.Background(), "cat-"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return c
}

// newPost creates a post removed at cleanup.
func newPost(t *testing.T, db *sql.DB, categoryIDs ...uuid.UUID) *models.Post {
	t.Helper()
	p, err := NewPostStore(db).Create(context.Background(), models.PostInput{
		Title:       "Test Post " + uuid.NewString()[:8],
		Content:     "<b>body</b>",
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM posts WHERE id = $1", p.ID) })
	return p
}
