package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"plant-disease-history/internal/domain/predictions"
	"plant-disease-history/internal/domain/users"
	"plant-disease-history/internal/ports/auth"
)

func TestPredictionRepo_OrderAndOwnerFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewPredictionRepo()

	for _, rec := range []predictions.Record{
		{ID: "p1", Owner: "alice"},
		{ID: "p2", Owner: "bob"},
		{ID: "p3", Owner: "alice"},
	} {
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("Append(%s): %v", rec.ID, err)
		}
	}

	all, _ := repo.List(ctx)
	if len(all) != 3 || all[0].ID != "p3" || all[2].ID != "p1" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	mine, _ := repo.ListByOwner(ctx, "alice")
	if len(mine) != 2 || mine[0].ID != "p3" || mine[1].ID != "p1" {
		t.Fatalf("unexpected owner list: %+v", mine)
	}

	if err := repo.Append(ctx, predictions.Record{ID: "p1", Owner: "alice"}); err == nil {
		t.Fatalf("duplicate id must be rejected")
	}
}

func TestPredictionRepo_FeedbackIsCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewPredictionRepo()
	_ = repo.Append(ctx, predictions.Record{ID: "p1", Owner: "alice"})

	fb := predictions.Feedback{Author: "alice", Text: "wrong", SubmittedAt: time.Now().UTC()}
	if err := repo.AttachFeedback(ctx, "p1", fb); err != nil {
		t.Fatalf("AttachFeedback: %v", err)
	}

	got, err := repo.GetByID(ctx, "p1")
	if err != nil || got.Feedback == nil || got.Feedback.Text != "wrong" {
		t.Fatalf("unexpected record: %+v err=%v", got, err)
	}

	// Mutar la copia no afecta lo guardado.
	got.Feedback.Text = "tampered"
	again, _ := repo.GetByID(ctx, "p1")
	if again.Feedback.Text != "wrong" {
		t.Fatalf("stored feedback leaked through copy: %q", again.Feedback.Text)
	}

	if err := repo.AttachFeedback(ctx, "missing", fb); !errors.Is(err, predictions.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, predictions.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = repo.Create(ctx, users.User{ID: "u2", Username: "bob", Email: "bob@example.com", Role: auth.RoleUser, CreatedAt: t0.Add(time.Minute)})
	_ = repo.Create(ctx, users.User{ID: "u1", Username: "alice", Email: "Alice@Example.com", Role: auth.RoleAdmin, CreatedAt: t0})

	if err := repo.Create(ctx, users.User{ID: "u3", Username: "x", Email: "ALICE@example.com"}); !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := repo.Create(ctx, users.User{ID: "u4", Username: "ALICE", Email: "mallory@example.com"}); !errors.Is(err, users.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	u, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil || u.ID != "u1" {
		t.Fatalf("case-insensitive lookup failed: %+v err=%v", u, err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, _ := repo.List(ctx)
	if len(list) != 2 || list[0].Username != "alice" || list[1].Username != "bob" {
		t.Fatalf("expected creation order, got %+v", list)
	}
}
