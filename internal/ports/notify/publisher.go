package notify

import "context"

const (
	SubjectPredictionCreated = "predictions.created"
	SubjectFeedbackSubmitted = "predictions.feedback"
)

// Publisher emite eventos de dominio (best-effort).
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// Noop descarta todo; se usa cuando no hay broker configurado.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
