package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"plant-disease-history/internal/ports/images"
)

type storedImage struct {
	data        []byte
	contentType string
}

// imageStore guarda las fotos en memoria (dev/tests).
type imageStore struct {
	mu     sync.RWMutex
	byName map[string]storedImage
}

func NewImageStore() images.Store {
	return &imageStore{byName: make(map[string]storedImage)}
}

func (s *imageStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), images.Prefix)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", errors.New("invalid image name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byName[name] = storedImage{data: append([]byte(nil), data...), contentType: contentType}
	return images.Prefix + name, nil
}

func (s *imageStore) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	img, ok := s.byName[strings.TrimPrefix(name, images.Prefix)]
	if !ok {
		return nil, "", images.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(img.data)), img.contentType, nil
}
