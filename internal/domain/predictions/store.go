package predictions

import (
	"context"
	"errors"
	"strings"
	"time"

	"plant-disease-history/internal/platform/i18n"
	"plant-disease-history/internal/platform/logger"
	"plant-disease-history/internal/platform/metrics"
	"plant-disease-history/internal/ports/classifier"

	"github.com/google/uuid"
)

// Store es el dueño de la colección de registros. Los callers solo ven copias.
type Store struct {
	repo  Repository
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

func NewStore(repo Repository, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		repo:  repo,
		log:   log.With(map[string]any{"component": "prediction_store"}),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Append crea el registro (id nuevo, timestamp UTC, feedback vacío), lo inserta
// al frente y persiste. Devuelve el id.
func (s *Store) Append(ctx context.Context, owner, imagePath string, out classifier.Prediction, lang string) (string, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", ErrInvalidInput
	}

	rec := Record{
		ID:           s.newID(),
		Owner:        owner,
		CreatedAt:    s.now().UTC(),
		ImagePath:    imagePath,
		Label:        out.Label,
		Confidence:   out.Confidence,
		Advice:       out.Advice,
		HealthStatus: out.HealthStatus,
		Language:     i18n.Normalize(lang),
	}

	err := s.observe("append", func() error { return s.repo.Append(ctx, rec) })
	if err != nil {
		s.log.Error("append prediction failed", map[string]any{"owner": owner, "error": err.Error()})
		return "", NewPersistenceError("append", err)
	}

	metrics.PredictionsStored.WithLabelValues(rec.HealthStatus).Inc()
	s.log.Info("prediction stored", map[string]any{"id": rec.ID, "owner": owner, "label": rec.Label})
	return rec.ID, nil
}

// GetByID: la ausencia no es error, se informa con found=false.
func (s *Store) GetByID(ctx context.Context, id string) (Record, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, false, nil
	}

	var rec Record
	err := s.observe("get", func() error {
		var err error
		rec, err = s.repo.GetByID(ctx, id)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, NewPersistenceError("get", err)
	}
	return rec.Clone(), true, nil
}

// ListByOwner respeta el orden almacenado (más nuevo primero).
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]Record, error) {
	var out []Record
	err := s.observe("list_by_owner", func() error {
		var err error
		out, err = s.repo.ListByOwner(ctx, owner)
		return err
	})
	if err != nil {
		return nil, NewPersistenceError("list_by_owner", err)
	}
	return cloneAll(out), nil
}

// All devuelve la colección completa en orden almacenado.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	var out []Record
	err := s.observe("list", func() error {
		var err error
		out, err = s.repo.List(ctx)
		return err
	})
	if err != nil {
		return nil, NewPersistenceError("list", err)
	}
	return cloneAll(out), nil
}

// AttachFeedback pisa el feedback existente (last-write-wins).
func (s *Store) AttachFeedback(ctx context.Context, id, author, text string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	fb := Feedback{
		Author:      author,
		Text:        text,
		SubmittedAt: s.now().UTC(),
	}

	err := s.observe("attach_feedback", func() error { return s.repo.AttachFeedback(ctx, id, fb) })
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		s.log.Error("attach feedback failed", map[string]any{"id": id, "error": err.Error()})
		return NewPersistenceError("attach_feedback", err)
	}

	metrics.FeedbackAttached.Inc()
	s.log.Info("feedback attached", map[string]any{"id": id, "author": author})
	return nil
}

func (s *Store) observe(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	outcome := metrics.Outcome(err)
	if errors.Is(err, ErrNotFound) {
		outcome = metrics.OutcomeSuccess
	}
	metrics.StoreOpDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
	return err
}

func cloneAll(in []Record) []Record {
	out := make([]Record, 0, len(in))
	for _, r := range in {
		out = append(out, r.Clone())
	}
	return out
}
