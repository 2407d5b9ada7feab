package mocks

import (
	"context"

	"github.com/yeasin2002/marketauth/domain"
)

// MockSessionStore implements domain.SessionStore interface for testing
type MockSessionStore struct {
	RecordFunc    func(ctx context.Context, accountID, jti string) error
	IsActiveFunc  func(ctx context.Context, accountID, jti string) (bool, error)
	RotateFunc    func(ctx context.Context, accountID, oldJTI, newJTI string) error
	RevokeFunc    func(ctx context.Context, accountID, jti string) error
	RevokeAllFunc func(ctx context.Context, accountID string) error
}

// NewMockSessionStore creates a new MockSessionStore with default behaviors
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

// Record appends a jti to the account's active set
func (m *MockSessionStore) Record(ctx context.Context, accountID, jti string) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, accountID, jti)
	}
	// Default behavior: success
	return nil
}

// IsActive reports whether a jti is currently active
func (m *MockSessionStore) IsActive(ctx context.Context, accountID, jti string) (bool, error) {
	if m.IsActiveFunc != nil {
		return m.IsActiveFunc(ctx, accountID, jti)
	}
	// Default behavior: active
	return true, nil
}

// Rotate swaps a spent jti for its successor
func (m *MockSessionStore) Rotate(ctx context.Context, accountID, oldJTI, newJTI string) error {
	if m.RotateFunc != nil {
		return m.RotateFunc(ctx, accountID, oldJTI, newJTI)
	}
	// Default behavior: success
	return nil
}

// Revoke removes a single jti
func (m *MockSessionStore) Revoke(ctx context.Context, accountID, jti string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, accountID, jti)
	}
	// Default behavior: success
	return nil
}

// RevokeAll clears the account's active set
func (m *MockSessionStore) RevokeAll(ctx context.Context, accountID string) error {
	if m.RevokeAllFunc != nil {
		return m.RevokeAllFunc(ctx, accountID)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionStore = (*MockSessionStore)(nil)
