package images

import (
	"context"
	"errors"
	"io"
)

// Prefix de los paths relativos guardados en los registros ("uploads/<name>").
const Prefix = "uploads/"

var ErrNotFound = errors.New("image not found")

// Store guarda y sirve las fotos subidas.
type Store interface {
	// Save devuelve el path relativo (Prefix + name).
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
}
