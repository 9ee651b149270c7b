package users

import "context"

// Repository guarda cuentas. Create devuelve ErrEmailTaken si el email ya existe
// y GetByEmail devuelve ErrNotFound en misses.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	// List ordena por fecha de creación asc.
	List(ctx context.Context) ([]User, error)
}
