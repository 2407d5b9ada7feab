package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeasin2002/marketauth/domain"
)

// RequireAuthenticated rejects anonymous requests.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := domain.RequireAuthenticated(IdentityFromContext(c)); err != nil {
			abortWithGuardError(c, err)
			return
		}
		c.Next()
	}
}

// RequireRole rejects requests whose identity does not hold role.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := domain.RequireRole(IdentityFromContext(c), role); err != nil {
			abortWithGuardError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAnyRole rejects requests whose identity holds none of roles.
func RequireAnyRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := domain.RequireAnyRole(IdentityFromContext(c), roles...); err != nil {
			abortWithGuardError(c, err)
			return
		}
		c.Next()
	}
}

// RequireOwnership rejects requests whose identity is neither the owner of
// the addressed resource nor an admin. The owner's account id is pulled from
// the request via source ("path", "query", "header" or "body") and paramName.
func RequireOwnership(source, paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := extractOwnerID(c, source, paramName)
		if _, err := domain.RequireOwnership(IdentityFromContext(c), ownerID); err != nil {
			abortWithGuardError(c, err)
			return
		}
		c.Next()
	}
}

// abortWithGuardError maps guard errors onto status codes. Messages stay
// non-disambiguating: the response never tells a caller whether the resource
// exists or who owns it.
func abortWithGuardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
	c.Abort()
}
