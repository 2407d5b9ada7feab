package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeasin2002/marketauth/domain"
)

// bearerPrefix is the only accepted Authorization scheme.
const bearerPrefix = "Bearer "

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	accountRepo   domain.AccountRepository
	sessions      domain.SessionStore
	credentialSvc domain.CredentialService
	tokenSvc      domain.TokenService
	notifier      domain.Notifier
	audit         domain.AuditLogger

	accessTTL    time.Duration
	resetCodeTTL time.Duration

	now func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	accountRepo domain.AccountRepository,
	sessions domain.SessionStore,
	credentialSvc domain.CredentialService,
	tokenSvc domain.TokenService,
	notifier domain.Notifier,
	audit domain.AuditLogger,
	accessTTL time.Duration,
	resetCodeTTL time.Duration,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		accountRepo:   accountRepo,
		sessions:      sessions,
		credentialSvc: credentialSvc,
		tokenSvc:      tokenSvc,
		notifier:      notifier,
		audit:         audit,
		accessTTL:     accessTTL,
		resetCodeTTL:  resetCodeTTL,
		now:           time.Now,
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, role string) (*domain.Account, error) {
	parsedRole, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}

	passwordHash, err := s.credentialSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Duplicate emails surface as ErrEmailTaken from the repository's unique
	// constraint; no pre-check, so concurrent registrations cannot race past it.
	account := &domain.Account{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         parsedRole,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.emit(ctx, domain.NewAuditEvent(domain.AccountRegisteredEvent, account.ID).
		WithEmail(account.Email).
		WithMetadata("role", account.Role.String()))

	return account, nil
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	// Missing account and wrong password both collapse into
	// ErrInvalidCredentials so callers cannot enumerate accounts.
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		s.emit(ctx, domain.NewAuditEvent(domain.LoginFailureEvent, "").
			WithEmail(email).
			WithError(err))
		return nil, domain.ErrInvalidCredentials
	}

	if !s.credentialSvc.Verify(account.PasswordHash, password) {
		s.emit(ctx, domain.NewAuditEvent(domain.LoginFailureEvent, account.ID).
			WithEmail(email).
			WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	// Suspension is only reported once the credentials check out, so the
	// error never confirms an account to a guesser.
	if account.Suspended {
		s.emit(ctx, domain.NewAuditEvent(domain.LoginFailureEvent, account.ID).
			WithEmail(email).
			WithError(domain.ErrAccountSuspended))
		return nil, domain.ErrAccountSuspended
	}

	identity := domain.Identity{
		Subject: account.ID,
		Email:   account.Email,
		Role:    account.Role,
	}

	accessToken, err := s.tokenSvc.IssueAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, jti, err := s.tokenSvc.IssueRefreshToken(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.sessions.Record(ctx, account.ID, jti); err != nil {
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	s.emit(ctx, domain.NewAuditEvent(domain.LoginEvent, account.ID).
		WithEmail(account.Email).
		WithTokenID(jti))

	return &domain.AuthResult{
		Account:      account,
		Identity:     identity,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Refresh implements domain.AuthService
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, oldJTI, err := s.tokenSvc.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.emit(ctx, domain.NewAuditEvent(domain.RefreshRejectedEvent, "").
			WithError(err))
		return nil, domain.ErrInvalidToken
	}

	// A token for a deleted account is indistinguishable from any other
	// invalid token.
	account, err := s.accountRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		s.emit(ctx, domain.NewAuditEvent(domain.RefreshRejectedEvent, claims.Subject).
			WithTokenID(oldJTI).
			WithError(err))
		return nil, domain.ErrInvalidToken
	}

	if account.Suspended {
		s.emit(ctx, domain.NewAuditEvent(domain.RefreshRejectedEvent, account.ID).
			WithTokenID(oldJTI).
			WithError(domain.ErrAccountSuspended))
		return nil, domain.ErrAccountSuspended
	}

	// Claims are rebuilt from the stored account so email and role changes
	// take effect at rotation, not only at the next login.
	identity := domain.Identity{
		Subject: account.ID,
		Email:   account.Email,
		Role:    account.Role,
	}

	accessToken, err := s.tokenSvc.IssueAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	newRefreshToken, newJTI, err := s.tokenSvc.IssueRefreshToken(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	// The newly issued jti only becomes valid if the swap lands; a replayed
	// or already-rotated oldJTI loses here and the fresh pair is never usable.
	if err := s.sessions.Rotate(ctx, account.ID, oldJTI, newJTI); err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			s.emit(ctx, domain.NewAuditEvent(domain.RefreshRejectedEvent, account.ID).
				WithTokenID(oldJTI).
				WithError(err))
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}

	s.emit(ctx, domain.NewAuditEvent(domain.TokenRefreshEvent, account.ID).
		WithTokenID(newJTI).
		WithMetadata("rotated_from", oldJTI))

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	claims, jti, err := s.tokenSvc.VerifyRefreshToken(refreshToken)
	if err != nil {
		return domain.ErrInvalidToken
	}

	if err := s.sessions.Revoke(ctx, claims.Subject, jti); err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.emit(ctx, domain.NewAuditEvent(domain.LogoutEvent, claims.Subject).
		WithTokenID(jti))

	return nil
}

// AuthenticateRequest implements domain.AuthService. It never fails: any
// header that does not resolve to a verified identity yields nil and the
// request proceeds as anonymous.
func (s *AuthServiceImpl) AuthenticateRequest(ctx context.Context, bearerHeader string) *domain.Identity {
	if !strings.HasPrefix(bearerHeader, bearerPrefix) {
		return nil
	}

	token := strings.TrimSpace(strings.TrimPrefix(bearerHeader, bearerPrefix))
	if token == "" {
		return nil
	}

	identity, err := s.tokenSvc.VerifyAccessToken(token)
	if err != nil {
		return nil
	}

	return identity
}

// IssueResetCode implements domain.AuthService
func (s *AuthServiceImpl) IssueResetCode(ctx context.Context, email string) (string, error) {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	code, err := s.tokenSvc.GenerateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}

	expiresAt := s.now().Add(s.resetCodeTTL)
	if err := s.accountRepo.SetResetCode(ctx, account.ID, code, expiresAt); err != nil {
		return "", fmt.Errorf("failed to store reset code: %w", err)
	}

	message := fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.",
		code, int(s.resetCodeTTL.Minutes()))
	if err := s.notifier.SendEmail(account.Email, "Password reset code", message); err != nil {
		return "", fmt.Errorf("failed to deliver reset code: %w", err)
	}

	s.emit(ctx, domain.NewAuditEvent(domain.ResetCodeIssuedEvent, account.ID).
		WithEmail(account.Email))

	return code, nil
}

// RedeemResetCode implements domain.AuthService. A successful redemption
// consumes the code; expired codes are cleared on sight.
func (s *AuthServiceImpl) RedeemResetCode(ctx context.Context, account *domain.Account, code string) bool {
	if account == nil || account.ResetCode == nil || account.ResetCodeExpiresAt == nil {
		return false
	}

	if s.now().After(*account.ResetCodeExpiresAt) {
		_ = s.accountRepo.ClearResetCode(ctx, account.ID)
		account.ResetCode = nil
		account.ResetCodeExpiresAt = nil
		return false
	}

	if *account.ResetCode != code {
		return false
	}

	if err := s.accountRepo.ClearResetCode(ctx, account.ID); err != nil {
		return false
	}
	account.ResetCode = nil
	account.ResetCodeExpiresAt = nil

	return true
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if !s.RedeemResetCode(ctx, account, code) {
		return domain.ErrInvalidToken
	}

	passwordHash, err := s.credentialSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accountRepo.UpdatePassword(ctx, account.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Every open session dies with the old password.
	if err := s.sessions.RevokeAll(ctx, account.ID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	s.emit(ctx, domain.NewAuditEvent(domain.PasswordResetEvent, account.ID).
		WithEmail(account.Email))
	s.emit(ctx, domain.NewAuditEvent(domain.SessionsRevokedEvent, account.ID))

	return nil
}

// HashForStorage implements domain.AuthService
func (s *AuthServiceImpl) HashForStorage(password string) (string, error) {
	return s.credentialSvc.Hash(password)
}

// CheckPassword implements domain.AuthService
func (s *AuthServiceImpl) CheckPassword(password, passwordHash string) bool {
	return s.credentialSvc.Verify(passwordHash, password)
}

// emit records an audit event. Audit sink failures never fail the flow that
// produced the event.
func (s *AuthServiceImpl) emit(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	_ = s.audit.LogEvent(ctx, event)
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*AuthServiceImpl)(nil)
