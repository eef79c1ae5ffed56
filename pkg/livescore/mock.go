package livescore

import (
	"context"
	"sync"
)

// MockClient is a mock scoreboard client for testing. It records every call.
type MockClient struct {
	mu            sync.Mutex
	baseURL       string
	announceErr   error
	elementErr    error
	scoreErr      error
	announcements []Announcement
	elements      []ElementUpdate
	scores        []ScoreUpdate
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithBaseURL sets the base URL
func WithBaseURL(url string) MockOption {
	return func(m *MockClient) {
		m.baseURL = url
	}
}

// WithAnnounceError sets an error to return from Announce
func WithAnnounceError(err error) MockOption {
	return func(m *MockClient) {
		m.announceErr = err
	}
}

// WithElementError sets an error to return from PushElement
func WithElementError(err error) MockOption {
	return func(m *MockClient) {
		m.elementErr = err
	}
}

// WithScoreError sets an error to return from PushScore
func WithScoreError(err error) MockOption {
	return func(m *MockClient) {
		m.scoreErr = err
	}
}

// NewMockClient creates a new mock scoreboard client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		baseURL: "http://mock-livescore.local/data.php",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseURL
}

// SetBaseURL updates the base URL
func (m *MockClient) SetBaseURL(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseURL = url
}

// Announce records an announcement
func (m *MockClient) Announce(ctx context.Context, a Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.announceErr != nil {
		return m.announceErr
	}
	m.announcements = append(m.announcements, a)
	return nil
}

// PushElement records an element update
func (m *MockClient) PushElement(ctx context.Context, u ElementUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.elementErr != nil {
		return m.elementErr
	}
	m.elements = append(m.elements, u)
	return nil
}

// PushScore records a score update
func (m *MockClient) PushScore(ctx context.Context, u ScoreUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scoreErr != nil {
		return m.scoreErr
	}
	m.scores = append(m.scores, u)
	return nil
}

// Announcements returns the recorded announcements
func (m *MockClient) Announcements() []Announcement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Announcement(nil), m.announcements...)
}

// Elements returns the recorded element updates
func (m *MockClient) Elements() []ElementUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ElementUpdate(nil), m.elements...)
}

// Scores returns the recorded score updates
func (m *MockClient) Scores() []ScoreUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ScoreUpdate(nil), m.scores...)
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
