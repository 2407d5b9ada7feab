package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yeasin2002/marketauth/domain"
)

// TokenConfig carries everything token issuance depends on. Access and
// refresh tokens are signed with independent secrets so a leaked access
// secret cannot mint refresh tokens.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (c TokenConfig) validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return errors.New("token secrets must not be empty")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("access and refresh secrets must differ")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	return nil
}

// tokenClaims is the claim set carried by both token kinds. Subject holds
// the account ID and ID holds the jti.
type tokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

const otpDigits = 4

var _ domain.TokenService = (*JWTServiceImpl)(nil)

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewJWTService creates a new JWT service. It rejects configurations that
// would weaken the access/refresh separation.
func NewJWTService(cfg TokenConfig) (*JWTServiceImpl, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &JWTServiceImpl{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.Issuer,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}, nil
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (j *JWTServiceImpl) newClaims(identity domain.Identity, ttl time.Duration, jti string) tokenClaims {
	now := j.now()
	return tokenClaims{
		Email: identity.Email,
		Role:  identity.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}
}

// IssueAccessToken implements domain.TokenService
func (j *JWTServiceImpl) IssueAccessToken(identity domain.Identity) (string, error) {
	jti, err := j.generateJTI()
	if err != nil {
		return "", err
	}
	claims := j.newClaims(identity, j.accessTTL, jti)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.accessSecret)
}

// IssueRefreshToken implements domain.TokenService. The returned jti is the
// identifier the session store tracks.
func (j *JWTServiceImpl) IssueRefreshToken(identity domain.Identity) (string, string, error) {
	jti, err := j.generateJTI()
	if err != nil {
		return "", "", err
	}
	claims := j.newClaims(identity, j.refreshTTL, jti)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.refreshSecret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// VerifyAccessToken implements domain.TokenService
func (j *JWTServiceImpl) VerifyAccessToken(tokenString string) (*domain.Identity, error) {
	claims, err := j.verify(tokenString, j.accessSecret)
	if err != nil {
		return nil, err
	}
	return j.identityFrom(claims)
}

// VerifyRefreshToken implements domain.TokenService
func (j *JWTServiceImpl) VerifyRefreshToken(tokenString string) (*domain.Identity, string, error) {
	claims, err := j.verify(tokenString, j.refreshSecret)
	if err != nil {
		return nil, "", err
	}
	if claims.ID == "" {
		return nil, "", domain.ErrInvalidToken
	}
	identity, err := j.identityFrom(claims)
	if err != nil {
		return nil, "", err
	}
	return identity, claims.ID, nil
}

// verify parses and validates a token against one of the two secrets. Every
// failure mode surfaces as domain.ErrInvalidToken.
func (j *JWTServiceImpl) verify(tokenString string, secret []byte) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, domain.ErrInvalidToken
			}
			return secret, nil
		},
		jwt.WithTimeFunc(j.now),
		jwt.WithIssuer(j.issuer),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func (j *JWTServiceImpl) identityFrom(claims *tokenClaims) (*domain.Identity, error) {
	if claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return &domain.Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    role,
	}, nil
}

// GenerateOTP implements domain.TokenService. Each digit is drawn
// independently so codes are uniform over 0000-9999.
func (j *JWTServiceImpl) GenerateOTP() (string, error) {
	digits := make([]byte, otpDigits)

	for i := 0; i < otpDigits; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
