package predictions

import (
	"context"
	"sort"
)

// History arma las vistas de lectura sobre el Store.
type History struct {
	store *Store
}

func NewHistory(store *Store) *History {
	return &History{store: store}
}

// RecentForOwner es un prefijo de ListByOwner (no re-ordena).
func (h *History) RecentForOwner(ctx context.Context, owner string, limit int) ([]Record, error) {
	items, err := h.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		limit = 0
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// FullHistoryForOwner re-ordena explícitamente por CreatedAt desc; no confía en el orden almacenado.
func (h *History) FullHistoryForOwner(ctx context.Context, owner string) ([]Record, error) {
	items, err := h.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// FeedbackDigest: registros con feedback, por hora de feedback desc.
// Un FeedbackTime cero queda al final.
func (h *History) FeedbackDigest(ctx context.Context) ([]DigestEntry, error) {
	items, err := h.store.All(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]DigestEntry, 0)
	for _, r := range items {
		if r.Feedback == nil {
			continue
		}
		out = append(out, DigestEntry{
			ID:             r.ID,
			Owner:          r.Owner,
			Label:          r.Label,
			CreatedAt:      r.CreatedAt,
			FeedbackAuthor: r.Feedback.Author,
			FeedbackText:   r.Feedback.Text,
			FeedbackTime:   r.Feedback.SubmittedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FeedbackTime.After(out[j].FeedbackTime)
	})
	return out, nil
}
