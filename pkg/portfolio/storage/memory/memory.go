package memory

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// Backend is an in-memory implementation of the portfolio.BlobStore interface
type Backend struct {
	mu              sync.RWMutex
	objects         map[string][]byte
	objectsMimeType map[string]string
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:         make(map[string][]byte),
		objectsMimeType: make(map[string]string),
	}
}

// Upload uploads content directly
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = data
	// Set default MIME type if not set
	if _, exists := b.objectsMimeType[key]; !exists {
		b.objectsMimeType[key] = "application/octet-stream"
	}
	return nil
}

// UploadWithParams uploads content with parameters
func (b *Backend) UploadWithParams(ctx context.Context, reader io.Reader, params portfolio.UploadParams) error {
	if err := b.Upload(ctx, params.Key, reader); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if params.MimeType != "" {
		b.objectsMimeType[params.Key] = params.MimeType
	}
	return nil
}

// Download downloads content directly
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, portfolio.ErrObjectNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Bytes returns a copy of the stored object, for tests and tooling
func (b *Backend) Bytes(key string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// MimeType returns the MIME type recorded for key
func (b *Backend) MimeType(key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.objectsMimeType[key]
}

// Keys lists the stored keys in sorted order
func (b *Backend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
