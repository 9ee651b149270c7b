package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"plant-disease-history/internal/domain/predictions"
	"plant-disease-history/internal/platform/i18n"

	sq "github.com/Masterminds/squirrel"
)

const predictionsTable = "predictions"

var predictionColumns = []string{
	"id", "username", "created_at", "image",
	"label", "confidence", "advice", "health_status", "lang",
	"feedback_user", "feedback_text", "feedback_time",
}

// PredictionsRepo: el orden "más nuevo primero" es seq DESC (orden de inserción).
type PredictionsRepo struct {
	db *sql.DB
}

func NewPredictionsRepo(db *sql.DB) *PredictionsRepo {
	return &PredictionsRepo{db: db}
}

func (r *PredictionsRepo) Append(ctx context.Context, rec predictions.Record) error {
	query, args, err := psql.
		Insert(predictionsTable).
		Columns(
			"id", "username", "created_at", "image",
			"label", "confidence", "advice", "health_status", "lang",
		).
		Values(
			rec.ID, rec.Owner, rec.CreatedAt.UTC(), rec.ImagePath,
			rec.Label, rec.Confidence, rec.Advice, rec.HealthStatus, i18n.Normalize(rec.Language),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("prediction %s already exists: %w", rec.ID, err)
		}
		return err
	}
	return nil
}

func (r *PredictionsRepo) GetByID(ctx context.Context, id string) (predictions.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return predictions.Record{}, predictions.ErrNotFound
	}

	query, args, err := r.selectBuilder().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return predictions.Record{}, fmt.Errorf("build select: %w", err)
	}

	rec, err := scanPrediction(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return predictions.Record{}, predictions.ErrNotFound
	}
	return rec, err
}

func (r *PredictionsRepo) ListByOwner(ctx context.Context, owner string) ([]predictions.Record, error) {
	return r.list(ctx, r.selectBuilder().Where(sq.Eq{"username": owner}))
}

func (r *PredictionsRepo) List(ctx context.Context) ([]predictions.Record, error) {
	return r.list(ctx, r.selectBuilder())
}

// AttachFeedback es un UPDATE de una fila: la atomicidad la da Postgres.
func (r *PredictionsRepo) AttachFeedback(ctx context.Context, id string, fb predictions.Feedback) error {
	query, args, err := psql.
		Update(predictionsTable).
		Set("feedback_user", fb.Author).
		Set("feedback_text", fb.Text).
		Set("feedback_time", nullTime(fb.SubmittedAt)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return predictions.ErrNotFound
	}
	return nil
}

func (r *PredictionsRepo) selectBuilder() sq.SelectBuilder {
	return psql.Select(predictionColumns...).From(predictionsTable).OrderBy("seq DESC")
}

func (r *PredictionsRepo) list(ctx context.Context, b sq.SelectBuilder) ([]predictions.Record, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]predictions.Record, 0)
	for rows.Next() {
		rec, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(s rowScanner) (predictions.Record, error) {
	var (
		rec          predictions.Record
		feedbackUser sql.NullString
		feedbackText sql.NullString
		feedbackTime sql.NullTime
	)
	err := s.Scan(
		&rec.ID,
		&rec.Owner,
		&rec.CreatedAt,
		&rec.ImagePath,
		&rec.Label,
		&rec.Confidence,
		&rec.Advice,
		&rec.HealthStatus,
		&rec.Language,
		&feedbackUser,
		&feedbackText,
		&feedbackTime,
	)
	if err != nil {
		return predictions.Record{}, err
	}

	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.Language = i18n.Normalize(rec.Language)
	if feedbackUser.Valid {
		rec.Feedback = &predictions.Feedback{
			Author: feedbackUser.String,
			Text:   feedbackText.String,
		}
		if feedbackTime.Valid {
			rec.Feedback.SubmittedAt = feedbackTime.Time.UTC()
		}
	}
	return rec, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
