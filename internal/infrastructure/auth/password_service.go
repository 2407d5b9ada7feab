package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/yeasin2002/marketauth/domain"
)

var _ domain.CredentialService = (*PasswordServiceImpl)(nil)

// PasswordServiceImpl implements domain.CredentialService
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service. A non-positive cost
// selects the bcrypt default.
func NewPasswordService(cost int) *PasswordServiceImpl {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{cost: cost}
}

// Hash implements domain.CredentialService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.CredentialService. Malformed digests verify as
// false rather than erroring.
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
