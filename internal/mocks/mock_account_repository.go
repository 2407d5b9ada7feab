package mocks

import (
	"context"
	"time"

	"github.com/yeasin2002/marketauth/domain"
)

// MockAccountRepository implements domain.AccountRepository interface for testing
type MockAccountRepository struct {
	CreateFunc         func(ctx context.Context, account *domain.Account) error
	FindByEmailFunc    func(ctx context.Context, email string) (*domain.Account, error)
	FindByIDFunc       func(ctx context.Context, id string) (*domain.Account, error)
	UpdateFunc         func(ctx context.Context, account *domain.Account) error
	DeleteFunc         func(ctx context.Context, id string) error
	SetResetCodeFunc   func(ctx context.Context, id, code string, expiresAt time.Time) error
	ClearResetCodeFunc func(ctx context.Context, id string) error
	UpdatePasswordFunc func(ctx context.Context, id, passwordHash string) error
}

// NewMockAccountRepository creates a new MockAccountRepository with default behaviors
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

// Create creates a new account
func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	// Default behavior: success, assigning a predictable ID
	if account.ID == "" {
		account.ID = "mock-account-id"
	}
	return nil
}

// FindByEmail finds an account by email
func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// FindByID finds an account by ID
func (m *MockAccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// Update updates an existing account
func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	// Default behavior: success
	return nil
}

// Delete removes an account
func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	// Default behavior: success
	return nil
}

// SetResetCode stores a pending reset code with its expiry
func (m *MockAccountRepository) SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	if m.SetResetCodeFunc != nil {
		return m.SetResetCodeFunc(ctx, id, code, expiresAt)
	}
	// Default behavior: success
	return nil
}

// ClearResetCode removes a pending reset code
func (m *MockAccountRepository) ClearResetCode(ctx context.Context, id string) error {
	if m.ClearResetCodeFunc != nil {
		return m.ClearResetCodeFunc(ctx, id)
	}
	// Default behavior: success
	return nil
}

// UpdatePassword replaces the stored password hash
func (m *MockAccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.AccountRepository = (*MockAccountRepository)(nil)
