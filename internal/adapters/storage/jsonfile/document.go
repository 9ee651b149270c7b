package jsonfile

import (
	"strings"
	"time"

	"plant-disease-history/internal/domain/predictions"
	"plant-disease-history/internal/platform/i18n"
)

// timestampLayout: ISO-8601 UTC con microsegundos y sufijo Z.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// recordDoc es la forma persistida de un registro en el documento JSON.
type recordDoc struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Timestamp    string       `json:"timestamp"`
	Image        string       `json:"image"`
	Label        string       `json:"label"`
	Confidence   float64      `json:"confidence"`
	Advice       string       `json:"advice"`
	HealthStatus string       `json:"health_status"`
	Feedback     *feedbackDoc `json:"feedback"`
	Lang         string       `json:"lang"`
}

type feedbackDoc struct {
	User string `json:"user"`
	Text string `json:"text"`
	Time string `json:"time"`
}

func toDoc(r predictions.Record) recordDoc {
	d := recordDoc{
		ID:           r.ID,
		Username:     r.Owner,
		Timestamp:    formatTime(r.CreatedAt),
		Image:        r.ImagePath,
		Label:        r.Label,
		Confidence:   r.Confidence,
		Advice:       r.Advice,
		HealthStatus: r.HealthStatus,
		Lang:         i18n.Normalize(r.Language),
	}
	if r.Feedback != nil {
		d.Feedback = &feedbackDoc{
			User: r.Feedback.Author,
			Text: r.Feedback.Text,
			Time: formatTime(r.Feedback.SubmittedAt),
		}
	}
	return d
}

func fromDoc(d recordDoc) predictions.Record {
	r := predictions.Record{
		ID:           d.ID,
		Owner:        d.Username,
		CreatedAt:    parseTime(d.Timestamp),
		ImagePath:    d.Image,
		Label:        d.Label,
		Confidence:   d.Confidence,
		Advice:       d.Advice,
		HealthStatus: d.HealthStatus,
		Language:     i18n.Normalize(d.Lang),
	}
	if d.Feedback != nil {
		r.Feedback = &predictions.Feedback{
			Author:      d.Feedback.User,
			Text:        d.Feedback.Text,
			SubmittedAt: parseTime(d.Feedback.Time),
		}
	}
	return r
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// parseTime acepta cualquier RFC3339 (con o sin fracción). Vacío o inválido => zero.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
