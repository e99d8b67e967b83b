// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"blogpress/internal/models"
)

func TestLikeStoreLikeTwiceConflicts(t *testing.T) {
	db := testDB(t)
	s := NewLikeStore(db)
	ctx := context.Background()

	subject := models.PostSubject(newPost(t, db).ID)
	visitor := uuid.NewString()

	if err := s.Like(ctx, subject, visitor); err != nil {
		t.Fatalf("first Like: %v", err)
	}
	if err := s.Like(ctx, subject, visitor); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("second Like: got %v, want ErrAlreadyLiked", err)
	}

	st, err := s.Status(ctx, subject, visitor)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Count != 1 || !st.Liked {
		t.Errorf("status: got %+v, want {1 true}", st)
	}
}

func TestLikeStoreUnlikeIsIdempotent(t *testing.T) {
	db := testDB(t)
	s := NewLikeStore(db)
	ctx := context.Background()

	subject := models.PostSubject(newPost(t, db).ID)
	visitor := uuid.NewString()

	if err := s.Like(ctx, subject, visitor); err != nil {
		t.Fatalf("Like: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.Unlike(ctx, subject, visitor); err != nil {
			t.Fatalf("Unlike #%d: %v", i+1, err)
		}
	}

	st, err := s.Status(ctx, subject, visitor)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Count != 0 || st.Liked {
		t.Errorf("status: got %+v, want {0 false}", st)
	}

	// Liking again after an unlike is allowed.
	if err := s.Like(ctx, subject, visitor); err != nil {
		t.Errorf("Like after Unlike: %v", err)
	}
}

func TestLikeStoreCountsPerVisitor(t *testing.T) {
	db := testDB(t)
	s := NewLikeStore(db)
	ctx := context.Background()

	subject := models.PostSubject(newPost(t, db).ID)
	for i := 0; i < 3; i++ {
		if err := s.Like(ctx, subject, uuid.NewString()); err != nil {
			t.Fatalf("Like: %v", err)
		}
	}

	st, err := s.Status(ctx, subject, "")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Count != 3 || st.Liked {
		t.Errorf("status: got %+v, want {3 false}", st)
	}
}

func TestLikeStoreUnknownSubject(t *testing.T) {
	db := testDB(t)
	s := NewLikeStore(db)
	ctx := context.Background()

	for _, subject := range []models.Subject{
		models.PostSubject(uuid.New()),
		models.CommentSubject(uuid.New()),
	} {
		if err := s.Like(ctx, subject, "v"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Like %s: got %v, want ErrNotFound", subject, err)
		}
	}

	if err := s.Like(ctx, models.Subject{Kind: "page", ID: uuid.New()}, "v"); err == nil {
		t.Error("expected error for unknown subject kind")
	}
}

func TestLikeStoreCommentLikes(t *testing.T) {
	db := testDB(t)
	s := NewLikeStore(db)
	ctx := context.Background()

	p := newPost(t, db)
	c, err := NewCommentStore(db).Create(ctx, p.ID, "nice")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	subject := models.CommentSubject(c.ID)

	if err := s.Like(ctx, subject, "v1"); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if err := s.Like(ctx, subject, "v1"); !errors.Is(err, ErrAlreadyLiked) {
		t.Errorf("second Like: got %v, want ErrAlreadyLiked", err)
	}
	if err := s.Unlike(ctx, subject, "v1"); err != nil {
		t.Errorf("Unlike: %v", err)
	}
}

// TestLikeStoreConcurrentLikes fires simultaneous likes from one visitor
// and expects exactly one to win.
func TestLikeStoreConcurrentLikes(t *testing.T) {
	db := testDB(t)
	s := NewLikeStore(db)
	ctx := context.Background()

	subject := models.PostSubject(newPost(t, db).ID)
	visitor := uuid.NewString()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Like(ctx, subject, visitor)
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyLiked):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != n-1 {
		t.Errorf("got %d successes and %d conflicts, want 1 and %d", ok, conflicts, n-1)
	}

	var rows int
	db.QueryRow("SELECT COUNT(*) FROM post_likes WHERE post_id = $1", subject.ID).Scan(&rows)
	if rows != 1 {
		t.Errorf("ledger rows: got %d, want 1", rows)
	}
}
