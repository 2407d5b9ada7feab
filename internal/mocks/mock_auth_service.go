package mocks

import (
	"context"

	"github.com/yeasin2002/marketauth/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc            func(ctx context.Context, email, password, role string) (*domain.Account, error)
	LoginFunc               func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	RefreshFunc             func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	LogoutFunc              func(ctx context.Context, refreshToken string) error
	AuthenticateRequestFunc func(ctx context.Context, bearerHeader string) *domain.Identity
	IssueResetCodeFunc      func(ctx context.Context, email string) (string, error)
	RedeemResetCodeFunc     func(ctx context.Context, account *domain.Account, code string) bool
	ResetPasswordFunc       func(ctx context.Context, email, code, newPassword string) error
	HashForStorageFunc      func(password string) (string, error)
	CheckPasswordFunc       func(password, passwordHash string) bool
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register creates an account
func (m *MockAuthService) Register(ctx context.Context, email, password, role string) (*domain.Account, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, role)
	}
	// Default behavior: return an account carrying the submitted email and role
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	return &domain.Account{
		ID:    "mock-account-id",
		Email: email,
		Role:  r,
	}, nil
}

// Login authenticates credentials
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	// Default behavior: reject the credentials
	return nil, domain.ErrInvalidCredentials
}

// Refresh rotates a refresh token
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	// Default behavior: reject the token
	return nil, domain.ErrInvalidToken
}

// Logout revokes a refresh token
func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, refreshToken)
	}
	// Default behavior: success
	return nil
}

// AuthenticateRequest resolves a bearer header to an identity
func (m *MockAuthService) AuthenticateRequest(ctx context.Context, bearerHeader string) *domain.Identity {
	if m.AuthenticateRequestFunc != nil {
		return m.AuthenticateRequestFunc(ctx, bearerHeader)
	}
	// Default behavior: anonymous
	return nil
}

// IssueResetCode starts a password reset
func (m *MockAuthService) IssueResetCode(ctx context.Context, email string) (string, error) {
	if m.IssueResetCodeFunc != nil {
		return m.IssueResetCodeFunc(ctx, email)
	}
	// Default behavior: return a fixed passcode
	return "1234", nil
}

// RedeemResetCode checks and consumes a reset code
func (m *MockAuthService) RedeemResetCode(ctx context.Context, account *domain.Account, code string) bool {
	if m.RedeemResetCodeFunc != nil {
		return m.RedeemResetCodeFunc(ctx, account, code)
	}
	// Default behavior: accept the code
	return true
}

// ResetPassword completes a password reset
func (m *MockAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, code, newPassword)
	}
	// Default behavior: success
	return nil
}

// HashForStorage hashes a password
func (m *MockAuthService) HashForStorage(password string) (string, error) {
	if m.HashForStorageFunc != nil {
		return m.HashForStorageFunc(password)
	}
	// Default behavior: return a predictable hash
	return "hashed_" + password, nil
}

// CheckPassword verifies a password against a hash
func (m *MockAuthService) CheckPassword(password, passwordHash string) bool {
	if m.CheckPasswordFunc != nil {
		return m.CheckPasswordFunc(password, passwordHash)
	}
	// Default behavior: match the predictable hash
	return passwordHash == "hashed_"+password
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
