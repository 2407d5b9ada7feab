package mocks

import "github.com/yeasin2002/marketauth/domain"

// MockNotifier implements domain.Notifier interface for testing
type MockNotifier struct {
	SendSMSFunc   func(to, message string) error
	SendEmailFunc func(to, subject, body string) error

	// SentSMS records delivered messages when no SendSMSFunc is set.
	SentSMS []string
}

// NewMockNotifier creates a new MockNotifier with default behaviors
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// SendSMS delivers a text message
func (m *MockNotifier) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	// Default behavior: record and succeed
	m.SentSMS = append(m.SentSMS, message)
	return nil
}

// SendEmail delivers an email
func (m *MockNotifier) SendEmail(to, subject, body string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.Notifier = (*MockNotifier)(nil)
