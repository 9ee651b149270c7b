package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"plant-disease-history/internal/ports/images"
)

// Store guarda las fotos en un directorio local (default models/uploads).
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("uploads dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return images.Prefix + name, nil
}

func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, "", images.ErrNotFound
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", images.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	return io.NopCloser(bytes.NewReader(raw)), mime.TypeByExtension(strings.ToLower(filepath.Ext(name))), nil
}

// cleanName no acepta directorios: solo el nombre base.
func cleanName(name string) (string, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), images.Prefix)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	return name, nil
}
