package services

import "sync"

// SentMessage records one delivery attempt made through the mock mailer
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// MockMailer is a mock implementation of Mailer for testing
type MockMailer struct {
	mu       sync.Mutex
	messages []SentMessage
	failWith error
}

// NewMockMailer creates a new mock mailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SetAsMockForTesting sets this mock as the global mailer instance for testing
func (m *MockMailer) SetAsMockForTesting() {
	SetMailer(m)
}

// FailWith makes every subsequent Send return the given error
func (m *MockMailer) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Send records the message, or fails when a failure has been injected
func (m *MockMailer) Send(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.messages = append(m.messages, SentMessage{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// Messages returns a copy of all recorded messages
func (m *MockMailer) Messages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.messages))
	copy(out, m.messages)
	return out
}
