package predictions

import (
	"time"

	"plant-disease-history/internal/ports/auth"
)

// Feedback es el sub-registro que deja un usuario sobre una predicción.
// Hay a lo sumo uno por registro: un segundo attach lo reemplaza.
type Feedback struct {
	Author      string
	Text        string
	SubmittedAt time.Time
}

// Record es un evento de predicción. Solo Feedback cambia después de creado.
type Record struct {
	ID        string
	Owner     string
	CreatedAt time.Time
	ImagePath string // "uploads/<name>"

	Label        string
	Confidence   float64
	Advice       string
	HealthStatus string

	Language string // en | hi | mr

	Feedback *Feedback
}

// Clone devuelve una copia que no comparte el puntero de Feedback.
func (r Record) Clone() Record {
	if r.Feedback != nil {
		fb := *r.Feedback
		r.Feedback = &fb
	}
	return r
}

// DigestEntry es la proyección de un registro con feedback para revisión admin.
type DigestEntry struct {
	ID        string
	Owner     string
	Label     string
	CreatedAt time.Time

	FeedbackAuthor string
	FeedbackText   string
	FeedbackTime   time.Time
}

// Caller es la identidad explícita que viaja en cada llamada al core.
type Caller struct {
	Username string
	Role     auth.Role
	Language string // vacío si el request no eligió idioma
}

func (c Caller) IsAdmin() bool { return c.Role == auth.RoleAdmin }
