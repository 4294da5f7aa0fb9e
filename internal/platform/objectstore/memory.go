package objectstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
)

// MemoryStore is a thread-safe, in-memory Store for testing and development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Put seeds an object directly. Test helper.
func (m *MemoryStore) Put(ownerID, filename string, data []byte) {
	m.mu.Lock()
	m.objects[objectKey(ownerID, filename)] = data
	m.mu.Unlock()
}

func (m *MemoryStore) Download(_ context.Context, ownerID, filename, destPath string) error {
	m.mu.RLock()
	data, ok := m.objects[objectKey(ownerID, filename)]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return os.WriteFile(destPath, data, 0o644)
}

func (m *MemoryStore) Upload(_ context.Context, ownerID, filename string, body io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[objectKey(ownerID, filename)] = buf.Bytes()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, ownerID, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[objectKey(ownerID, filename)]; !ok {
		return ErrNotFound
	}
	delete(m.objects, objectKey(ownerID, filename))
	return nil
}
