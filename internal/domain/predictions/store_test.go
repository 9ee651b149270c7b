package predictions

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"plant-disease-history/internal/platform/logger"
	"plant-disease-history/internal/ports/classifier"
)

func newTestStore(repo Repository, now time.Time) *Store {
	s := NewStore(repo, logger.Nop())
	s.now = func() time.Time { return now }
	return s
}

func TestStore_AppendThenGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	s := newTestStore(newTestRepo(), now)

	out := classifier.Prediction{Label: "Potato___Early_blight", Confidence: 0.77, Advice: "Use fungicide.", HealthStatus: "diseased"}
	id, err := s.Append(ctx, "alice", "uploads/a.jpg", out, "mr")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, found, err := s.GetByID(ctx, id)
	if err != nil || !found {
		t.Fatalf("GetByID: found=%v err=%v", found, err)
	}
	if got.Owner != "alice" || got.ImagePath != "uploads/a.jpg" || got.Label != out.Label ||
		got.Confidence != out.Confidence || got.Advice != out.Advice || got.HealthStatus != out.HealthStatus {
		t.Fatalf("fields mismatch: %+v", got)
	}
	if got.Language != "mr" {
		t.Fatalf("expected lang mr, got %q", got.Language)
	}
	if got.Feedback != nil {
		t.Fatalf("new record must have no feedback")
	}
	if got.CreatedAt.Location() != time.UTC || !got.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt must be now in UTC, got %v", got.CreatedAt)
	}
}

func TestStore_AppendNormalizesLanguageAndUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newTestRepo(), time.Now())

	seen := map[string]bool{}
	for _, lang := range []string{"", "fr", "HI", "en"} {
		id, err := s.Append(ctx, "alice", "uploads/a.jpg", classifier.Prediction{Label: "x"}, lang)
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true

		rec, _, _ := s.GetByID(ctx, id)
		want := map[string]string{"": "en", "fr": "en", "HI": "hi", "en": "en"}[lang]
		if rec.Language != want {
			t.Fatalf("lang %q normalized to %q, want %q", lang, rec.Language, want)
		}
	}
}

func TestStore_AppendRejectsEmptyOwner(t *testing.T) {
	s := newTestStore(newTestRepo(), time.Now())
	if _, err := s.Append(context.Background(), "  ", "uploads/a.jpg", classifier.Prediction{}, "en"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStore_GetByIDAbsentIsNotError(t *testing.T) {
	s := newTestStore(newTestRepo(), time.Now())

	for _, id := range []string{"", "missing"} {
		_, found, err := s.GetByID(context.Background(), id)
		if err != nil || found {
			t.Fatalf("GetByID(%q): found=%v err=%v", id, found, err)
		}
	}
}

func TestStore_ListByOwnerNewestFirstAndIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newTestRepo(), time.Now())

	var aliceIDs []string
	for i := 0; i < 3; i++ {
		id, _ := s.Append(ctx, "alice", fmt.Sprintf("uploads/%d.jpg", i), classifier.Prediction{}, "en")
		aliceIDs = append(aliceIDs, id)
		_, _ = s.Append(ctx, "bob", "uploads/b.jpg", classifier.Prediction{}, "en")
	}

	got, err := s.ListByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != 3 || got[0].ID != aliceIDs[2] || got[2].ID != aliceIDs[0] {
		t.Fatalf("unexpected order: %v", recordIDs(got))
	}

	none, err := s.ListByOwner(ctx, "carol")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty list, got %v %v", none, err)
	}
}

func TestStore_AttachFeedback(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestStore(repo, t1)

	id, _ := s.Append(ctx, "alice", "uploads/a.jpg", classifier.Prediction{Label: "x"}, "en")

	if err := s.AttachFeedback(ctx, id, "alice", "first"); err != nil {
		t.Fatalf("AttachFeedback: %v", err)
	}
	t2 := t1.Add(time.Hour)
	s.now = func() time.Time { return t2 }
	if err := s.AttachFeedback(ctx, id, "root", "second"); err != nil {
		t.Fatalf("AttachFeedback: %v", err)
	}

	got, _, _ := s.GetByID(ctx, id)
	if got.Feedback == nil || got.Feedback.Author != "root" || got.Feedback.Text != "second" || !got.Feedback.SubmittedAt.Equal(t2) {
		t.Fatalf("expected last write to win, got %+v", got.Feedback)
	}
	if got.Label != "x" || got.Owner != "alice" {
		t.Fatalf("feedback must not touch other fields: %+v", got)
	}

	// Empty text is not rejected by the store.
	if err := s.AttachFeedback(ctx, id, "alice", ""); err != nil {
		t.Fatalf("store must accept empty text: %v", err)
	}

	if err := s.AttachFeedback(ctx, "missing", "alice", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_PersistenceFailures(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	s := newTestStore(repo, time.Now())
	id, _ := s.Append(ctx, "alice", "uploads/a.jpg", classifier.Prediction{}, "en")

	repo.failAll = true

	_, err := s.Append(ctx, "alice", "uploads/b.jpg", classifier.Prediction{}, "en")
	assertPersistence(t, "append", err)

	_, _, err = s.GetByID(ctx, id)
	assertPersistence(t, "get", err)

	_, err = s.ListByOwner(ctx, "alice")
	assertPersistence(t, "list_by_owner", err)

	_, err = s.All(ctx)
	assertPersistence(t, "list", err)

	err = s.AttachFeedback(ctx, id, "alice", "x")
	assertPersistence(t, "attach_feedback", err)

	repo.failAll = false
	all, _ := s.All(ctx)
	if len(all) != 1 {
		t.Fatalf("failed append must leave state unchanged, got %d records", len(all))
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newTestRepo(), time.Now())
	id, _ := s.Append(ctx, "alice", "uploads/a.jpg", classifier.Prediction{}, "en")
	_ = s.AttachFeedback(ctx, id, "alice", "original")

	got, _, _ := s.GetByID(ctx, id)
	got.Feedback.Text = "mutated"
	got.Label = "mutated"

	again, _, _ := s.GetByID(ctx, id)
	if again.Feedback.Text != "original" || again.Label == "mutated" {
		t.Fatalf("caller mutation leaked into the store: %+v", again)
	}
}

func TestPersistenceError_DoesNotDoubleWrap(t *testing.T) {
	inner := NewPersistenceError("append", errDiskFull)
	outer := NewPersistenceError("get", inner)
	if outer != inner {
		t.Fatalf("expected same error back")
	}
	if !errors.Is(outer, ErrPersistence) || !errors.Is(outer, errDiskFull) {
		t.Fatalf("expected chain to match both sentinels: %v", outer)
	}
}

func assertPersistence(t *testing.T, op string, err error) {
	t.Helper()
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("%s: expected persistence error, got %v", op, err)
	}
	var pe *PersistenceError
	if !errors.As(err, &pe) || pe.Op != op {
		t.Fatalf("%s: expected op %q, got %+v", op, op, pe)
	}
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("%s: cause lost: %v", op, err)
	}
}

func recordIDs(items []Record) []string {
	out := make([]string, 0, len(items))
	for _, r := range items {
		out = append(out, r.ID)
	}
	return out
}
