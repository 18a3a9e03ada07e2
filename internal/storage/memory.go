package storage

import (
	"context"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore holds objects in process memory. It backs fallback mode and
// tests: state is initialized empty at startup, never persisted, and reset on
// restart. URLs it synthesizes point back at the API's own serving route.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
}

// NewMemoryStore creates an empty in-memory store. baseURL prefixes the
// synthesized locators (may be empty for relative URLs).
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memoryObject),
		baseURL: baseURL,
	}
}

func (m *MemoryStore) locator(key string) string {
	return m.baseURL + "/api/storage/" + key
}

// UploadText stores text content under key.
func (m *MemoryStore) UploadText(_ context.Context, key, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: []byte(content), contentType: "text/markdown"}
	return m.locator(key), nil
}

// GetText fetches text content by key.
func (m *MemoryStore) GetText(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return "", &Error{Kind: KindNotFound, Key: key}
	}
	return string(obj.data), nil
}

// Delete removes an object. Missing keys are not an error.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// UploadBinary stores binary content under key.
func (m *MemoryStore) UploadBinary(_ context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = memoryObject{data: buf, contentType: contentType}
	return m.locator(key), nil
}

// Object returns the raw bytes and content type for serving fallback URLs.
func (m *MemoryStore) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return obj.data, obj.contentType, true
}

// Len reports how many objects are held.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Reset drops all objects; used for test isolation.
func (m *MemoryStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string]memoryObject)
}
