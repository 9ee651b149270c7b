package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"plant-disease-history/internal/domain/predictions"
	"plant-disease-history/internal/platform/logger"
	"plant-disease-history/internal/ports/classifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *PredictionRepo {
	t.Helper()
	repo, err := NewPredictionRepo(filepath.Join(t.TempDir(), "data", "predictions_history.json"))
	require.NoError(t, err)
	return repo
}

func sampleRecord(id, owner string, at time.Time) predictions.Record {
	return predictions.Record{
		ID:           id,
		Owner:        owner,
		CreatedAt:    at,
		ImagePath:    "uploads/leaf_" + id + ".jpg",
		Label:        "Tomato___Late_blight",
		Confidence:   0.93,
		Advice:       "Remove infected leaves.",
		HealthStatus: "diseased",
		Language:     "hi",
	}
}

func TestPredictionRepo_AppendThenGet(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	at := time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)
	want := sampleRecord("r1", "alice", at)
	require.NoError(t, repo.Append(ctx, want))

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Nil(t, got.Feedback)

	raw, err := os.ReadFile(repo.Path())
	require.NoError(t, err)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(raw, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "alice", docs[0]["username"])
	assert.Equal(t, "2024-05-01T10:00:00.123456Z", docs[0]["timestamp"])
	assert.Equal(t, "uploads/leaf_r1.jpg", docs[0]["image"])
	assert.Equal(t, "hi", docs[0]["lang"])
	assert.Contains(t, docs[0], "feedback")
	assert.Nil(t, docs[0]["feedback"])
}

func TestPredictionRepo_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, sampleRecord("a", "alice", base)))
	require.NoError(t, repo.Append(ctx, sampleRecord("b", "bob", base.Add(time.Minute))))
	require.NoError(t, repo.Append(ctx, sampleRecord("c", "alice", base.Add(2*time.Minute))))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(all))

	mine, err := repo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(mine))

	none, err := repo.ListByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPredictionRepo_GetByIDMissing(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, predictions.ErrNotFound)
}

func TestPredictionRepo_AttachFeedbackOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.Append(ctx, sampleRecord("r1", "alice", time.Now().UTC())))

	t1 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	require.NoError(t, repo.AttachFeedback(ctx, "r1", predictions.Feedback{Author: "alice", Text: "wrong", SubmittedAt: t1}))
	require.NoError(t, repo.AttachFeedback(ctx, "r1", predictions.Feedback{Author: "admin", Text: "confirmed", SubmittedAt: t2}))

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got.Feedback)
	assert.Equal(t, "admin", got.Feedback.Author)
	assert.Equal(t, "confirmed", got.Feedback.Text)
	assert.True(t, got.Feedback.SubmittedAt.Equal(t2))
}

func TestPredictionRepo_AttachFeedbackUnknownIDLeavesFileUntouched(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.Append(ctx, sampleRecord("r1", "alice", time.Now().UTC())))

	before, err := os.ReadFile(repo.Path())
	require.NoError(t, err)

	err = repo.AttachFeedback(ctx, "missing", predictions.Feedback{Author: "alice", Text: "x", SubmittedAt: time.Now()})
	assert.ErrorIs(t, err, predictions.ErrNotFound)

	after, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPredictionRepo_MissingFileIsEmpty(t *testing.T) {
	repo := newRepo(t)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPredictionRepo_ReadsLegacyDocument(t *testing.T) {
	repo := newRepo(t)
	legacy := `[
  {
    "id": "r9",
    "username": "alice",
    "timestamp": "2024-03-02T09:30:00.5Z",
    "image": "uploads/leaf.png",
    "label": "Potato___healthy",
    "confidence": 0.88,
    "advice": "Keep watering regularly.",
    "health_status": "healthy",
    "feedback": {"user": "alice", "text": "ok", "time": "2024-03-02T10:00:00Z"},
    "lang": "fr"
  },
  {
    "id": "r8",
    "username": "bob",
    "timestamp": "2024-03-01T09:30:00Z",
    "image": "uploads/other.png",
    "label": null,
    "confidence": null,
    "advice": null,
    "health_status": null,
    "feedback": null
  }
]`
	require.NoError(t, os.WriteFile(repo.Path(), []byte(legacy), 0o644))

	got, err := repo.GetByID(context.Background(), "r9")
	require.NoError(t, err)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, time.Date(2024, 3, 2, 9, 30, 0, 500000000, time.UTC), got.CreatedAt)
	require.NotNil(t, got.Feedback)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), got.Feedback.SubmittedAt)

	other, err := repo.GetByID(context.Background(), "r8")
	require.NoError(t, err)
	assert.Equal(t, "en", other.Language)
	assert.Empty(t, other.Label)
	assert.Nil(t, other.Feedback)
}

func TestPredictionRepo_CorruptDocumentFailsWithoutWriting(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	corrupt := []byte(`[{"id": "r1", "username": `)
	require.NoError(t, os.WriteFile(repo.Path(), corrupt, 0o644))

	err := repo.Append(ctx, sampleRecord("r2", "alice", time.Now().UTC()))
	require.Error(t, err)

	after, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	assert.Equal(t, corrupt, after)
}

func TestPredictionRepo_StoreWrapsFailureAsPersistenceError(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, os.WriteFile(repo.Path(), []byte("{not json"), 0o644))

	store := predictions.NewStore(repo, logger.Nop())
	_, err := store.Append(ctx, "alice", "uploads/x.jpg", classifier.Prediction{Label: "x"}, "en")
	require.Error(t, err)
	assert.True(t, errors.Is(err, predictions.ErrPersistence))

	var pe *predictions.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "append", pe.Op)
}

// Dos repos sobre el mismo path simulan dos procesos: el flock debe evitar lost updates.
func TestPredictionRepo_ConcurrentAppendsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "predictions_history.json")

	a, err := NewPredictionRepo(path)
	require.NoError(t, err)
	b, err := NewPredictionRepo(path)
	require.NoError(t, err)

	const perRepo = 20
	var wg sync.WaitGroup
	errs := make(chan error, 2*perRepo)

	for i := 0; i < perRepo; i++ {
		for name, repo := range map[string]*PredictionRepo{"a": a, "b": b} {
			wg.Add(1)
			go func(id string, repo *PredictionRepo) {
				defer wg.Done()
				errs <- repo.Append(ctx, sampleRecord(id, "alice", time.Now().UTC()))
			}(fmt.Sprintf("%s-%d", name, i), repo)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := a.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2*perRepo)

	seen := make(map[string]bool, len(all))
	for _, r := range all {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestPredictionRepo_ConcurrentFeedbackAndAppend(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.Append(ctx, sampleRecord("target", "alice", time.Now().UTC())))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Append(ctx, sampleRecord(fmt.Sprintf("n-%d", i), "bob", time.Now().UTC())))
		}(i)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.AttachFeedback(ctx, "target", predictions.Feedback{
				Author: "alice", Text: fmt.Sprintf("note %d", i), SubmittedAt: time.Now().UTC(),
			}))
		}(i)
	}
	wg.Wait()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 11)

	got, err := repo.GetByID(ctx, "target")
	require.NoError(t, err)
	require.NotNil(t, got.Feedback)
}

func ids(items []predictions.Record) []string {
	out := make([]string, 0, len(items))
	for _, r := range items {
		out = append(out, r.ID)
	}
	return out
}
