package services

import "sync"

// MockDetector is a mock implementation of DetectorInterface for testing
type MockDetector struct {
	mu         sync.Mutex
	detections []Detection
	err        error
	seenPaths  []string
}

// NewMockDetector creates a mock detector that reports the given detections
func NewMockDetector(detections []Detection) *MockDetector {
	return &MockDetector{detections: detections}
}

// SetAsMockForTesting sets this mock as the global detector instance for testing
func (m *MockDetector) SetAsMockForTesting() {
	SetDetector(m)
}

// FailWith makes every subsequent Detect return the given error
func (m *MockDetector) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect records the image path and returns the configured detections
func (m *MockDetector) Detect(imagePath string) ([]Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seenPaths = append(m.seenPaths, imagePath)
	if m.err != nil {
		return nil, m.err
	}
	return m.detections, nil
}

// SeenPaths returns the image paths Detect was called with
func (m *MockDetector) SeenPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.seenPaths))
	copy(out, m.seenPaths)
	return out
}
