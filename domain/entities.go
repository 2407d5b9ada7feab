package domain

import "time"

// Role is the closed set of account roles in the marketplace.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleContractor Role = "contractor"
	RoleAdmin      Role = "admin"
)

// ParseRole maps a wire-level role string onto the closed enum.
// Unknown values are rejected at the boundary instead of being carried around.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleContractor, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleContractor || r == RoleAdmin
}

func (r Role) String() string { return string(r) }

// Identity is the decoded, verified claim set of a token. It exists only for
// the lifetime of one request and is never persisted.
type Identity struct {
	Subject string
	Email   string
	Role    Role
}

// Account represents a user account in the marketplace.
//
// RefreshTokenIDs holds the jti values of the account's currently valid
// refresh tokens, oldest first. Only a SessionStore may mutate it; membership
// is the sole authority for refresh-token validity.
//
// ResetCode and ResetCodeExpiresAt are either both set or both nil.
type Account struct {
	ID                 string
	Email              string
	PasswordHash       string
	Role               Role
	Suspended          bool
	RefreshTokenIDs    []string
	ResetCode          *string
	ResetCodeExpiresAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AuthResult represents a successful login outcome.
type AuthResult struct {
	Account      *Account
	Identity     Identity
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// TokenPair is the outcome of a refresh exchange.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
