package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yeasin2002/marketauth/domain"
)

// identityKey is the gin context key the resolved identity is stored under.
const identityKey = "auth_identity"

// IdentityMW wraps the auth service for request identity resolution
type IdentityMW struct {
	authSvc domain.AuthService
}

// NewIdentityMW creates new identity middleware wrapper
func NewIdentityMW(authSvc domain.AuthService) *IdentityMW {
	return &IdentityMW{authSvc: authSvc}
}

// Resolve reads the Authorization header and stores the verified identity in
// the request context. It never aborts: requests without a usable token
// proceed as anonymous and the guards decide what that means per route.
func (mw *IdentityMW) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := mw.authSvc.AuthenticateRequest(c.Request.Context(), c.GetHeader("Authorization"))
		if identity != nil {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// IdentityFromContext returns the identity resolved for this request, or nil
// for anonymous requests.
func IdentityFromContext(c *gin.Context) *domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*domain.Identity)
	if !ok {
		return nil
	}
	return identity
}
