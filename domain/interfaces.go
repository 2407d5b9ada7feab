package domain

import (
	"context"
	"time"
)

// AccountRepository defines account data access operations.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id string) error
	// SetResetCode and ClearResetCode maintain the invariant that the code
	// and its expiry are written and removed together.
	SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error
	ClearResetCode(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// SessionStore tracks which refresh-token identifiers (jti) are currently
// valid for each account. Membership is the single source of truth for
// refresh-token validity; access tokens never touch the store.
type SessionStore interface {
	// Record appends a jti to the account's active set, evicting the oldest
	// entries beyond the configured per-account cap.
	Record(ctx context.Context, accountID, jti string) error
	// IsActive reports whether jti is a member of the account's active set.
	IsActive(ctx context.Context, accountID, jti string) (bool, error)
	// Rotate atomically replaces oldJTI with newJTI. When oldJTI is no longer
	// current (already rotated away or revoked) it fails with ErrInvalidToken;
	// of two racing rotations on the same oldJTI exactly one succeeds.
	Rotate(ctx context.Context, accountID, oldJTI, newJTI string) error
	// Revoke removes a single jti. Revoking a jti that is not current fails
	// with ErrInvalidToken.
	Revoke(ctx context.Context, accountID, jti string) error
	// RevokeAll clears the account's entire active set.
	RevokeAll(ctx context.Context, accountID string) error
}

// CredentialService defines password hashing operations.
type CredentialService interface {
	Hash(password string) (string, error)
	// Verify never fails: any digest it cannot validate yields false.
	Verify(passwordHash, password string) bool
}

// TokenService defines token issuance and verification. Access and refresh
// tokens are signed with independent secrets.
type TokenService interface {
	IssueAccessToken(identity Identity) (string, error)
	// IssueRefreshToken returns the signed token together with the embedded
	// jti so the caller can persist it.
	IssueRefreshToken(identity Identity) (token string, jti string, err error)
	// VerifyAccessToken fails with ErrInvalidToken on bad signature, malformed
	// payload or expiry; callers cannot distinguish which.
	VerifyAccessToken(token string) (*Identity, error)
	VerifyRefreshToken(token string) (*Identity, string, error)
	// GenerateOTP produces a uniformly distributed zero-padded 4-digit
	// passcode for password-reset flows.
	GenerateOTP() (string, error)
}

// Notifier delivers out-of-band messages to account holders.
type Notifier interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// AuthService defines the authentication entry points consumed by the
// CRUD/API layer.
type AuthService interface {
	Register(ctx context.Context, email, password, role string) (*Account, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	// AuthenticateRequest never fails: a missing or malformed Authorization
	// header and an unverifiable token all yield nil, leaving the decision to
	// the guards of the operation being invoked.
	AuthenticateRequest(ctx context.Context, bearerHeader string) *Identity
	IssueResetCode(ctx context.Context, email string) (string, error)
	// RedeemResetCode reports whether code matches the account's pending reset
	// code. A match consumes the code; expiry is enforced here as well as by
	// the caller.
	RedeemResetCode(ctx context.Context, account *Account, code string) bool
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	HashForStorage(password string) (string, error)
	CheckPassword(password, passwordHash string) bool
}
