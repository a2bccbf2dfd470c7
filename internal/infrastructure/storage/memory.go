package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"sync"

	settingsapp "github.com/pdv/backend/internal/application/settings"
)

var _ settingsapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// Object is a stored blob with its content type
type Object struct {
	ContentType string
	Data        []byte
}

// MemoryObjectStorage keeps objects in memory. It serves development setups
// without object storage and tests.
type MemoryObjectStorage struct {
	// BaseURL prefixes the URLs returned by PresignGet
	BaseURL string

	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost/storage"
	}
	return &MemoryObjectStorage{BaseURL: baseURL, objects: make(map[string]Object)}
}

// PutObject stores a copy of body
func (m *MemoryObjectStorage) PutObject(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	if key == "" {
		return errEmptyKey
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{ContentType: contentType, Data: buf.Bytes()}
	return nil
}

// PresignGet returns BaseURL/key
func (m *MemoryObjectStorage) PresignGet(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", errEmptyKey
	}
	return m.BaseURL + "/" + url.PathEscape(key), nil
}

// DeleteObject removes key
func (m *MemoryObjectStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Get returns the stored object, if any
func (m *MemoryObjectStorage) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}
