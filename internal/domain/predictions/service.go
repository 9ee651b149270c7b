package predictions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"plant-disease-history/internal/platform/i18n"
	"plant-disease-history/internal/platform/logger"
	"plant-disease-history/internal/platform/metrics"
	"plant-disease-history/internal/ports/classifier"
	"plant-disease-history/internal/ports/images"
	"plant-disease-history/internal/ports/notify"

	"github.com/google/uuid"
)

const DefaultRecentLimit = 5

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".bmp":  {},
}

// Service orquesta los casos de uso: upload -> modelo -> append, vista, feedback, historial.
type Service struct {
	store     *Store
	history   *History
	predictor classifier.Predictor
	images    images.Store
	notifier  notify.Publisher
	log       logger.Logger

	recentLimit int
	newSuffix   func() string
}

type Deps struct {
	Store     *Store
	Predictor classifier.Predictor // puede ser nil: modelo no disponible
	Images    images.Store
	Notifier  notify.Publisher
	Logger    logger.Logger

	RecentLimit int
}

func NewService(d Deps) *Service {
	if d.Notifier == nil {
		d.Notifier = notify.Noop{}
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.RecentLimit <= 0 {
		d.RecentLimit = DefaultRecentLimit
	}
	return &Service{
		store:       d.Store,
		history:     NewHistory(d.Store),
		predictor:   d.Predictor,
		images:      d.Images,
		notifier:    d.Notifier,
		log:         d.Logger.With(map[string]any{"component": "predictions"}),
		recentLimit: d.RecentLimit,
		newSuffix:   func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AllowedFile replica la regla de extensiones aceptadas (png, jpg, jpeg, bmp).
func AllowedFile(filename string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Upload guarda la imagen, llama al modelo y recién si el modelo respondió hace el append.
func (s *Service) Upload(ctx context.Context, caller Caller, in UploadInput) (Record, error) {
	if strings.TrimSpace(caller.Username) == "" {
		return Record{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Filename) == "" || len(in.Data) == 0 {
		return Record{}, fmt.Errorf("%w: no file selected", ErrInvalidInput)
	}
	if !AllowedFile(in.Filename) {
		return Record{}, ErrInvalidFileType
	}

	if s.predictor == nil {
		return Record{}, fmt.Errorf("%w: %w", ErrPredictionFailed, classifier.ErrUnavailable)
	}

	name := s.uniqueName(SecureFilename(in.Filename))
	relPath, err := s.images.Save(ctx, name, in.Data, in.ContentType)
	if err != nil {
		return Record{}, fmt.Errorf("save image: %w", err)
	}

	start := time.Now()
	out, err := s.predictor.Predict(ctx, classifier.Image{
		Path:        relPath,
		ContentType: in.ContentType,
		Data:        in.Data,
	})
	metrics.ClassifierDuration.WithLabelValues(metrics.Outcome(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Warn("classifier call failed", map[string]any{"image": relPath, "error": err.Error()})
		return Record{}, fmt.Errorf("%w: %w", ErrPredictionFailed, err)
	}

	id, err := s.store.Append(ctx, caller.Username, relPath, out, caller.Language)
	if err != nil {
		return Record{}, err
	}

	rec, found, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, NewPersistenceError("append", errors.New("record missing after append"))
	}

	s.publish(ctx, notify.SubjectPredictionCreated, createdEvent{
		ID:           rec.ID,
		Owner:        rec.Owner,
		Label:        rec.Label,
		HealthStatus: rec.HealthStatus,
		CreatedAt:    rec.CreatedAt,
	})
	return rec, nil
}

// View aplica la política de acceso sobre GetByID.
func (s *Service) View(ctx context.Context, caller Caller, id string) (Record, error) {
	rec, found, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, ErrNotFound
	}
	if !CanView(caller, rec) {
		return Record{}, ErrForbidden
	}
	return rec, nil
}

// SubmitFeedback valida el texto en el borde y adjunta el feedback del caller.
func (s *Service) SubmitFeedback(ctx context.Context, caller Caller, id, text string) (Record, error) {
	if strings.TrimSpace(text) == "" {
		return Record{}, fmt.Errorf("%w: feedback missing", ErrInvalidInput)
	}

	rec, found, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, ErrNotFound
	}
	if !CanSubmitFeedback(caller, rec) {
		return Record{}, ErrForbidden
	}

	if err := s.store.AttachFeedback(ctx, rec.ID, caller.Username, text); err != nil {
		return Record{}, err
	}

	updated, found, err := s.store.GetByID(ctx, rec.ID)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, ErrNotFound
	}

	s.publish(ctx, notify.SubjectFeedbackSubmitted, feedbackEvent{
		ID:     updated.ID,
		Owner:  updated.Owner,
		Author: caller.Username,
		Text:   text,
		At:     updated.Feedback.SubmittedAt,
	})
	return updated, nil
}

type Dashboard struct {
	Username string
	Recent   []Record
	Language string
}

func (s *Service) Dashboard(ctx context.Context, caller Caller) (Dashboard, error) {
	recent, err := s.history.RecentForOwner(ctx, caller.Username, s.recentLimit)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Username: caller.Username,
		Recent:   recent,
		Language: i18n.Normalize(caller.Language),
	}, nil
}

func (s *Service) FullHistory(ctx context.Context, caller Caller) ([]Record, error) {
	return s.history.FullHistoryForOwner(ctx, caller.Username)
}

// FeedbackDigest es solo para admins.
func (s *Service) FeedbackDigest(ctx context.Context, caller Caller) ([]DigestEntry, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.history.FeedbackDigest(ctx)
}

// OpenImage sirve una imagen subida por nombre (sin el prefijo uploads/).
func (s *Service) OpenImage(ctx context.Context, name string) (io.ReadCloser, string, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, "", images.ErrNotFound
	}
	return s.images.Open(ctx, name)
}

// DisplayLanguage: idioma del caller, si no el del registro, si no el default.
func DisplayLanguage(caller Caller, rec Record) string {
	if i18n.IsSupported(caller.Language) {
		return i18n.Normalize(caller.Language)
	}
	return i18n.Normalize(rec.Language)
}

func (s *Service) uniqueName(filename string) string {
	ext := filepath.Ext(filename)
	root := strings.TrimSuffix(filename, ext)
	return fmt.Sprintf("%s_%s%s", root, s.newSuffix(), ext)
}

// SecureFilename deja solo [A-Za-z0-9_.-], sin directorios ni puntos iniciales.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}

	clean := b.String()
	ext := filepath.Ext(clean)
	root := strings.TrimLeft(strings.TrimSuffix(clean, ext), "._")
	if root == "" {
		root = "upload"
	}
	return root + ext
}

type createdEvent struct {
	ID           string    `json:"id"`
	Owner        string    `json:"username"`
	Label        string    `json:"label"`
	HealthStatus string    `json:"health_status"`
	CreatedAt    time.Time `json:"timestamp"`
}

type feedbackEvent struct {
	ID     string    `json:"id"`
	Owner  string    `json:"username"`
	Author string    `json:"feedback_user"`
	Text   string    `json:"feedback_text"`
	At     time.Time `json:"feedback_time"`
}

// publish es best-effort: la mutación ya quedó persistida.
func (s *Service) publish(ctx context.Context, subject string, payload any) {
	if err := s.notifier.Publish(ctx, subject, payload); err != nil {
		s.log.Warn("publish event failed", map[string]any{"subject": subject, "error": err.Error()})
	}
}
