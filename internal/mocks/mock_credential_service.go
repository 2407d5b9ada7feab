package mocks

import "github.com/yeasin2002/marketauth/domain"

// MockCredentialService implements domain.CredentialService interface for testing
type MockCredentialService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(passwordHash, password string) bool
}

// NewMockCredentialService creates a new MockCredentialService with default behaviors
func NewMockCredentialService() *MockCredentialService {
	return &MockCredentialService{}
}

// Hash generates a hash for the given password
func (m *MockCredentialService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	// Default behavior: return simple hash (for testing only)
	return "hashed_" + password, nil
}

// Verify verifies a password against its hash
func (m *MockCredentialService) Verify(passwordHash, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(passwordHash, password)
	}
	// Default behavior: simple check for testing
	return passwordHash == "hashed_"+password
}

// Compile-time interface compliance verification
var _ domain.CredentialService = (*MockCredentialService)(nil)
