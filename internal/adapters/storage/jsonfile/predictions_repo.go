package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"plant-disease-history/internal/domain/predictions"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 10 * time.Millisecond

// PredictionRepo persiste la colección completa como un único documento JSON (array,
// más nuevo primero). Cada operación relee el archivo bajo lock: no hay cache.
//
// Escritores: mutex de proceso + flock exclusivo sobre "<path>.lock".
// Lectores: RLock + flock compartido. La escritura es temp file + fsync + rename.
// Cada operación abre su propio flock.Flock: el estado de un Flock no se comparte entre goroutines.
type PredictionRepo struct {
	path     string
	lockPath string
	mu       sync.RWMutex
}

func NewPredictionRepo(path string) (*PredictionRepo, error) {
	if path == "" {
		return nil, errors.New("history path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &PredictionRepo{
		path:     path,
		lockPath: path + ".lock",
	}, nil
}

func (r *PredictionRepo) Path() string { return r.path }

func (r *PredictionRepo) Append(ctx context.Context, rec predictions.Record) error {
	return r.mutate(ctx, func(docs []recordDoc) ([]recordDoc, error) {
		for _, d := range docs {
			if d.ID == rec.ID {
				return nil, fmt.Errorf("prediction %s already exists", rec.ID)
			}
		}
		return append([]recordDoc{toDoc(rec)}, docs...), nil
	})
}

func (r *PredictionRepo) GetByID(ctx context.Context, id string) (predictions.Record, error) {
	docs, err := r.read(ctx)
	if err != nil {
		return predictions.Record{}, err
	}
	for _, d := range docs {
		if d.ID == id {
			return fromDoc(d), nil
		}
	}
	return predictions.Record{}, predictions.ErrNotFound
}

func (r *PredictionRepo) ListByOwner(ctx context.Context, owner string) ([]predictions.Record, error) {
	docs, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]predictions.Record, 0)
	for _, d := range docs {
		if d.Username == owner {
			out = append(out, fromDoc(d))
		}
	}
	return out, nil
}

func (r *PredictionRepo) List(ctx context.Context) ([]predictions.Record, error) {
	docs, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]predictions.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDoc(d))
	}
	return out, nil
}

// AttachFeedback: si el id no existe no se escribe nada (el archivo queda intacto).
func (r *PredictionRepo) AttachFeedback(ctx context.Context, id string, fb predictions.Feedback) error {
	return r.mutate(ctx, func(docs []recordDoc) ([]recordDoc, error) {
		for i := range docs {
			if docs[i].ID == id {
				docs[i].Feedback = &feedbackDoc{
					User: fb.Author,
					Text: fb.Text,
					Time: formatTime(fb.SubmittedAt),
				}
				return docs, nil
			}
		}
		return nil, predictions.ErrNotFound
	})
}

func (r *PredictionRepo) read(ctx context.Context) ([]recordDoc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fl := flock.New(r.lockPath)
	locked, err := fl.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire shared lock: %w", err)
	}
	if !locked {
		return nil, errors.New("acquire shared lock: not acquired")
	}
	defer func() { _ = fl.Unlock() }()

	return r.load()
}

func (r *PredictionRepo) mutate(ctx context.Context, fn func([]recordDoc) ([]recordDoc, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fl := flock.New(r.lockPath)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire exclusive lock: %w", err)
	}
	if !locked {
		return errors.New("acquire exclusive lock: not acquired")
	}
	defer func() { _ = fl.Unlock() }()

	docs, err := r.load()
	if err != nil {
		return err
	}
	next, err := fn(docs)
	if err != nil {
		return err
	}
	return r.store(next)
}

// load: archivo inexistente o vacío => colección vacía. JSON inválido => error
// (tratarlo como vacío borraría el historial en la próxima escritura).
func (r *PredictionRepo) load() ([]recordDoc, error) {
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []recordDoc{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []recordDoc{}, nil
	}

	var docs []recordDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if docs == nil {
		docs = []recordDoc{}
	}
	return docs, nil
}

func (r *PredictionRepo) store(docs []recordDoc) error {
	raw, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		cleanup()
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
