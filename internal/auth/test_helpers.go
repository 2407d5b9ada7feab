package auth

import (
	"context"
	"testing"
	"time"

	"github.com/yeasin2002/marketauth/domain"
	"github.com/yeasin2002/marketauth/internal/mocks"
)

// createAuthServiceForTest creates an AuthService with mock dependencies for testing
func createAuthServiceForTest(t *testing.T,
	accountRepo domain.AccountRepository,
	sessions domain.SessionStore,
	credentialSvc domain.CredentialService,
	tokenSvc domain.TokenService,
	notifier domain.Notifier,
	audit domain.AuditLogger) *AuthServiceImpl {
	t.Helper()

	// Use provided mocks or create defaults
	if accountRepo == nil {
		accountRepo = mocks.NewMockAccountRepository()
	}
	if sessions == nil {
		sessions = mocks.NewMockSessionStore()
	}
	if credentialSvc == nil {
		credentialSvc = mocks.NewMockCredentialService()
	}
	if tokenSvc == nil {
		tokenSvc = mocks.NewMockTokenService()
	}
	if notifier == nil {
		notifier = mocks.NewMockNotifier()
	}
	if audit == nil {
		audit = mocks.NewMockAuditLogger()
	}

	return NewAuthService(accountRepo, sessions, credentialSvc, tokenSvc, notifier, audit,
		15*time.Minute, 15*time.Minute)
}

// createActiveAccount creates a valid account entity for testing
func createActiveAccount(t *testing.T) *domain.Account {
	t.Helper()

	return &domain.Account{
		ID:           "acct-1001",
		Email:        "test@example.com",
		PasswordHash: "hashed_password123",
		Role:         domain.RoleCustomer,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
		UpdatedAt:    time.Now().Add(-1 * time.Hour),
	}
}

// createSuspendedAccount creates a suspended account entity for testing
func createSuspendedAccount(t *testing.T) *domain.Account {
	t.Helper()

	account := createActiveAccount(t)
	account.Suspended = true
	return account
}

// createAdminAccount creates an admin account entity for testing
func createAdminAccount(t *testing.T) *domain.Account {
	t.Helper()

	account := createActiveAccount(t)
	account.ID = "acct-9001"
	account.Email = "admin@example.com"
	account.Role = domain.RoleAdmin
	return account
}

// createAccountWithResetCode creates an account carrying a pending reset code
func createAccountWithResetCode(t *testing.T, code string, expiresAt time.Time) *domain.Account {
	t.Helper()

	account := createActiveAccount(t)
	account.ResetCode = &code
	account.ResetCodeExpiresAt = &expiresAt
	return account
}

// assertAuthResult validates the structure and content of an AuthResult
func assertAuthResult(t *testing.T, result *domain.AuthResult, expectedAccount *domain.Account) {
	t.Helper()

	if result == nil {
		t.Fatal("AuthResult is nil")
	}

	if result.Account == nil {
		t.Fatal("AuthResult.Account is nil")
	}

	if result.Account.ID != expectedAccount.ID {
		t.Errorf("expected account ID %s, got %s", expectedAccount.ID, result.Account.ID)
	}

	if result.Account.Email != expectedAccount.Email {
		t.Errorf("expected account email %s, got %s", expectedAccount.Email, result.Account.Email)
	}

	if result.Identity.Subject != expectedAccount.ID {
		t.Errorf("expected identity subject %s, got %s", expectedAccount.ID, result.Identity.Subject)
	}

	if result.Identity.Role != expectedAccount.Role {
		t.Errorf("expected identity role %s, got %s", expectedAccount.Role, result.Identity.Role)
	}

	if result.AccessToken == "" {
		t.Error("AccessToken is empty")
	}

	if result.RefreshToken == "" {
		t.Error("RefreshToken is empty")
	}

	if result.ExpiresIn <= 0 {
		t.Errorf("expected positive ExpiresIn, got %d", result.ExpiresIn)
	}
}

// createTestContext creates a context for testing with timeout
func createTestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// setupSuccessfulLoginMocks configures mocks for a successful login
func setupSuccessfulLoginMocks(t *testing.T,
	accountRepo *mocks.MockAccountRepository,
	sessions *mocks.MockSessionStore,
	tokenSvc *mocks.MockTokenService,
	testAccount *domain.Account) {
	t.Helper()

	// Account exists and is found
	accountRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Account, error) {
		if email == testAccount.Email {
			return testAccount, nil
		}
		return nil, domain.ErrAccountNotFound
	}

	// Token issuance succeeds
	tokenSvc.IssueAccessTokenFunc = func(identity domain.Identity) (string, error) {
		return "access_token_123", nil
	}
	tokenSvc.IssueRefreshTokenFunc = func(identity domain.Identity) (string, string, error) {
		return "refresh_token_123", "jti_123", nil
	}

	// Session recording succeeds
	sessions.RecordFunc = func(ctx context.Context, accountID, jti string) error {
		return nil
	}
}

// setupSuccessfulRefreshMocks configures mocks for a successful token refresh
func setupSuccessfulRefreshMocks(t *testing.T,
	accountRepo *mocks.MockAccountRepository,
	sessions *mocks.MockSessionStore,
	tokenSvc *mocks.MockTokenService,
	testAccount *domain.Account) {
	t.Helper()

	// Refresh token verification succeeds
	tokenSvc.VerifyRefreshTokenFunc = func(token string) (*domain.Identity, string, error) {
		if token == "valid_refresh_token" {
			return &domain.Identity{
				Subject: testAccount.ID,
				Email:   testAccount.Email,
				Role:    testAccount.Role,
			}, "jti_old", nil
		}
		return nil, "", domain.ErrInvalidToken
	}

	// Account exists
	accountRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.Account, error) {
		if id == testAccount.ID {
			return testAccount, nil
		}
		return nil, domain.ErrAccountNotFound
	}

	// New token issuance succeeds
	tokenSvc.IssueAccessTokenFunc = func(identity domain.Identity) (string, error) {
		return "new_access_token_456", nil
	}
	tokenSvc.IssueRefreshTokenFunc = func(identity domain.Identity) (string, string, error) {
		return "new_refresh_token_456", "jti_new", nil
	}

	// Rotation succeeds
	sessions.RotateFunc = func(ctx context.Context, accountID, oldJTI, newJTI string) error {
		return nil
	}
}
