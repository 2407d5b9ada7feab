package mocks

import (
	"github.com/yeasin2002/marketauth/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	IssueAccessTokenFunc   func(identity domain.Identity) (string, error)
	IssueRefreshTokenFunc  func(identity domain.Identity) (string, string, error)
	VerifyAccessTokenFunc  func(token string) (*domain.Identity, error)
	VerifyRefreshTokenFunc func(token string) (*domain.Identity, string, error)
	GenerateOTPFunc        func() (string, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// IssueAccessToken signs an access token for the identity
func (m *MockTokenService) IssueAccessToken(identity domain.Identity) (string, error) {
	if m.IssueAccessTokenFunc != nil {
		return m.IssueAccessTokenFunc(identity)
	}
	// Default behavior: return a mock access token
	return "access_token_" + identity.Subject, nil
}

// IssueRefreshToken signs a refresh token and reports its jti
func (m *MockTokenService) IssueRefreshToken(identity domain.Identity) (string, string, error) {
	if m.IssueRefreshTokenFunc != nil {
		return m.IssueRefreshTokenFunc(identity)
	}
	// Default behavior: return a mock refresh token and jti
	return "refresh_token_" + identity.Subject, "jti_" + identity.Subject, nil
}

// VerifyAccessToken validates an access token
func (m *MockTokenService) VerifyAccessToken(token string) (*domain.Identity, error) {
	if m.VerifyAccessTokenFunc != nil {
		return m.VerifyAccessTokenFunc(token)
	}
	// Default behavior: accept non-empty tokens as a fixed customer
	if token == "" {
		return nil, domain.ErrInvalidToken
	}
	return &domain.Identity{
		Subject: "mock-account-id",
		Email:   "test@example.com",
		Role:    domain.RoleCustomer,
	}, nil
}

// VerifyRefreshToken validates a refresh token and reports its jti
func (m *MockTokenService) VerifyRefreshToken(token string) (*domain.Identity, string, error) {
	if m.VerifyRefreshTokenFunc != nil {
		return m.VerifyRefreshTokenFunc(token)
	}
	// Default behavior: accept non-empty tokens as a fixed customer
	if token == "" {
		return nil, "", domain.ErrInvalidToken
	}
	identity := &domain.Identity{
		Subject: "mock-account-id",
		Email:   "test@example.com",
		Role:    domain.RoleCustomer,
	}
	return identity, "mock-jti", nil
}

// GenerateOTP produces a passcode
func (m *MockTokenService) GenerateOTP() (string, error) {
	if m.GenerateOTPFunc != nil {
		return m.GenerateOTPFunc()
	}
	// Default behavior: fixed code for assertions
	return "1234", nil
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
