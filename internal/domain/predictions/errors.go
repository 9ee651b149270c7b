package predictions

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidFileType  = fmt.Errorf("%w: invalid file type", ErrInvalidInput)
	ErrNotFound         = errors.New("prediction not found")
	ErrForbidden        = errors.New("forbidden")
	ErrPersistence      = errors.New("persistence failure")
	ErrPredictionFailed = errors.New("prediction failed")
)

// PersistenceError envuelve una falla de lectura/escritura durable.
// errors.Is(err, ErrPersistence) es true para cualquier *PersistenceError.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, ErrPersistence)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrPersistence, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// NewPersistenceError no re-envuelve si err ya es un *PersistenceError.
func NewPersistenceError(op string, err error) error {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
