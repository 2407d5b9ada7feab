package domain

import "errors"

// Authentication errors
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// that callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidRole        = errors.New("unknown role")
)

// Token errors
var (
	// ErrInvalidToken collapses signature mismatch, malformed payload, expiry
	// and stale/rotated-away refresh identifiers into a single kind so the
	// error itself cannot be used as an oracle.
	ErrInvalidToken = errors.New("invalid token")
)

// Authorization errors
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
)
