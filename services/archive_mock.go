package services

import (
	"fmt"
	"sync"
)

// MockArchive is a mock implementation of ArchiveInterface for testing
type MockArchive struct {
	mu     sync.RWMutex
	stored map[string][]byte
	err    error
}

// NewMockArchive creates a new mock archive
func NewMockArchive() *MockArchive {
	return &MockArchive{stored: make(map[string][]byte)}
}

// SetAsMockForTesting sets this mock as the global archive instance for testing
func (m *MockArchive) SetAsMockForTesting() {
	SetArchive(m)
}

// FailWith makes every subsequent operation return the given error
func (m *MockArchive) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// StoreImage stores the content in memory under a deterministic key
func (m *MockArchive) StoreImage(filename string, content []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	key := fmt.Sprintf("analyses/mock_%s", filename)
	m.stored[key] = content
	return key, nil
}

// GetPresignedURL returns a fake URL for a stored image
func (m *MockArchive) GetPresignedURL(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("archive key is required")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return "", m.err
	}
	if _, ok := m.stored[key]; !ok {
		return "", fmt.Errorf("key not found: %s", key)
	}
	return fmt.Sprintf("https://mock-bucket.example.com/%s", key), nil
}

// DeleteImage removes a stored image
func (m *MockArchive) DeleteImage(key string) error {
	if key == "" {
		return fmt.Errorf("archive key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.stored, key)
	return nil
}

// Stored returns the content stored under a key, for assertions
func (m *MockArchive) Stored(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.stored[key]
	return content, ok
}
