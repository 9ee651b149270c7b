package predictions

import "context"

// Repository es el medio durable de la colección. Orden primario: más nuevo primero.
// Las implementaciones devuelven ErrNotFound en misses y serializan las mutaciones.
type Repository interface {
	// Append inserta r al frente y persiste la colección completa.
	Append(ctx context.Context, r Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	ListByOwner(ctx context.Context, owner string) ([]Record, error)
	List(ctx context.Context) ([]Record, error)
	// AttachFeedback reemplaza el feedback del registro id (last-write-wins).
	AttachFeedback(ctx context.Context, id string, fb Feedback) error
}
