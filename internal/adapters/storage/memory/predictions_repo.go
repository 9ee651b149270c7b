package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"plant-disease-history/internal/domain/predictions"
)

// predictionRepo guarda los ids en orden (más nuevo primero) y el registro por id.
type predictionRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]predictions.Record
}

func NewPredictionRepo() predictions.Repository {
	return &predictionRepo{
		byID: make(map[string]predictions.Record),
	}
}

func (r *predictionRepo) Append(ctx context.Context, rec predictions.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("prediction id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("prediction already exists")
	}

	r.byID[rec.ID] = rec.Clone()
	r.order = append([]string{rec.ID}, r.order...)
	return nil
}

func (r *predictionRepo) GetByID(ctx context.Context, id string) (predictions.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return predictions.Record{}, predictions.ErrNotFound
	}
	return rec.Clone(), nil
}

func (r *predictionRepo) ListByOwner(ctx context.Context, owner string) ([]predictions.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]predictions.Record, 0)
	for _, id := range r.order {
		if rec := r.byID[id]; rec.Owner == owner {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (r *predictionRepo) List(ctx context.Context) ([]predictions.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]predictions.Record, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

func (r *predictionRepo) AttachFeedback(ctx context.Context, id string, fb predictions.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return predictions.ErrNotFound
	}
	rec.Feedback = &fb
	r.byID[id] = rec
	return nil
}
