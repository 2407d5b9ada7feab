package mocks

import (
	"context"
	"sync"

	"github.com/yeasin2002/marketauth/domain"
)

// MockAuditLogger implements domain.AuditLogger interface for testing
type MockAuditLogger struct {
	LogEventFunc func(ctx context.Context, event *domain.AuditEvent) error

	mu     sync.Mutex
	events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger with default behaviors
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent records an audit event
func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	if m.LogEventFunc != nil {
		return m.LogEventFunc(ctx, event)
	}
	// Default behavior: record and succeed
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	return nil
}

// Events returns the events recorded so far.
func (m *MockAuditLogger) Events() []*domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditEvent, len(m.events))
	copy(out, m.events)
	return out
}

// EventTypes returns just the recorded event types, in order.
func (m *MockAuditLogger) EventTypes() []domain.AuditEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]domain.AuditEventType, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType)
	}
	return types
}

// Compile-time interface compliance verification
var _ domain.AuditLogger = (*MockAuditLogger)(nil)
