// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"blogpress/internal/models"
)

func TestPostStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()

	cat := newCategory(t, db)
	p := newPost(t, db, cat.ID)

	found, err := s.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Title != p.Title {
		t.Errorf("title: got %q, want %q", found.Title, p.Title)
	}
	if found.CoverImageKey != nil {
		t.Errorf("cover: got %v, want nil", *found.CoverImageKey)
	}
	if len(found.Categories) != 1 || found.Categories[0].ID != cat.ID {
		t.Errorf("categories: got %+v, want [%s]", found.Categories, cat.ID)
	}
	if found.LikeCount != 0 {
		t.Errorf("like count: got %d, want 0", found.LikeCount)
	}

	if _, err := s.FindByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID missing: got %v, want ErrNotFound", err)
	}
}

func TestPostStoreCreateUnknownCategory(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	title := "orphan-" + uuid.NewString()[:8]
	_, err := s.Create(context.Background(), models.PostInput{
		Title:       title,
		Content:     "x",
		CategoryIDs: []uuid.UUID{uuid.New()},
	})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("Create: got %v, want ErrUnknownCategory", err)
	}

	// The transaction must not leave the post behind.
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts WHERE title = $1", title).Scan(&n); err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if n != 0 {
		t.Errorf("expected rollback, found %d posts", n)
	}
}

func TestPostStoreUpdateReplacesCategories(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()

	a := newCategory(t, db)
	b := newCategory(t, db)
	c := newCategory(t, db)
	p := newPost(t, db, a.ID, b.ID)

	key := "private/abc"
	err := s.Update(ctx, p.ID, models.PostInput{
		Title:         "Updated",
		Content:       "new body",
		CoverImageKey: &key,
		CategoryIDs:   []uuid.UUID{c.ID},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, err := s.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Title != "Updated" || found.Content != "new body" {
		t.Errorf("scalars not updated: %+v", found)
	}
	if found.CoverImageKey == nil || *found.CoverImageKey != key {
		t.Errorf("cover key: got %v, want %q", found.CoverImageKey, key)
	}
	if got := found.Categories; len(got) != 1 || got[0].ID != c.ID {
		t.Errorf("categories: got %v, want [%s]", got, c.ID)
	}
}

func TestPostStoreUpdateRollsBackOnUnknownCategory(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()

	a := newCategory(t, db)
	p := newPost(t, db, a.ID)

	err := s.Update(ctx, p.ID, models.PostInput{
		Title:       "Should not stick",
		Content:     "x",
		CategoryIDs: []uuid.UUID{uuid.New()},
	})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("Update: got %v, want ErrUnknownCategory", err)
	}

	found, err := s.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Title != p.Title {
		t.Errorf("title changed despite rollback: %q", found.Title)
	}
	if got := found.Categories; len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("categories changed despite rollback: %v", got)
	}
}

func TestPostStoreUpdateAndDeleteMissing(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()

	if err := s.Update(ctx, uuid.New(), models.PostInput{Title: "x", Content: "y"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing: got %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete missing: got %v, want ErrNotFound", err)
	}
}

func TestPostStoreListNewestFirst(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	cat := newCategory(t, db)
	older := newPost(t, db)
	newer := newPost(t, db, cat.ID)

	posts, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	pos := map[uuid.UUID]int{}
	for i, p := range posts {
		pos[p.ID] = i
		if p.Categories == nil {
			t.Errorf("post %s has nil categories", p.ID)
		}
	}
	if pos[newer.ID] > pos[older.ID] {
		t.Error("expected newer post before older post")
	}
	if got := posts[pos[newer.ID]].Categories; len(got) != 1 || got[0].Name != cat.Name {
		t.Errorf("newer categories: got %v", got)
	}
}

func TestPostStoreDeleteCascades(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := newPost(t, db)
	comment, err := NewCommentStore(db).Create(ctx, p.ID, "hello")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if err := NewLikeStore(db).Like(ctx, models.PostSubject(p.ID), "v-cascade"); err != nil {
		t.Fatalf("like: %v", err)
	}

	if err := NewPostStore(db).Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var n int
	db.QueryRow("SELECT COUNT(*) FROM comments WHERE id = $1", comment.ID).Scan(&n)
	if n != 0 {
		t.Errorf("comment survived post delete")
	}
	db.QueryRow("SELECT COUNT(*) FROM post_likes WHERE post_id = $1", p.ID).Scan(&n)
	if n != 0 {
		t.Errorf("likes survived post delete")
	}
}
