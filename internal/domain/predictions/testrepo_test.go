package predictions

import (
	"context"
	"errors"
	"sync"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errDiskFull = errors.New("repo: disk full")

type testRepo struct {
	mu      sync.Mutex
	records []Record // más nuevo primero
	failAll bool
}

func newTestRepo() *testRepo {
	return &testRepo{}
}

func (r *testRepo) Append(ctx context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return errDiskFull
	}
	r.records = append([]Record{rec.Clone()}, r.records...)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return Record{}, errDiskFull
	}
	for _, rec := range r.records {
		if rec.ID == id {
			return rec.Clone(), nil
		}
	}
	return Record{}, ErrNotFound
}

func (r *testRepo) ListByOwner(ctx context.Context, owner string) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errDiskFull
	}
	out := make([]Record, 0)
	for _, rec := range r.records {
		if rec.Owner == owner {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (r *testRepo) List(ctx context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errDiskFull
	}
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (r *testRepo) AttachFeedback(ctx context.Context, id string, fb Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return errDiskFull
	}
	for i := range r.records {
		if r.records[i].ID == id {
			r.records[i].Feedback = &fb
			return nil
		}
	}
	return ErrNotFound
}

// put inserta al frente sin pasar por el Store (para fijar timestamps en tests).
func (r *testRepo) put(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]Record{rec}, r.records...)
}
