package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeasin2002/marketauth/domain"
)

// withIdentity seeds the request context the way IdentityMW.Resolve would.
func withIdentity(identity *domain.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity != nil {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

func customerIdentity(subject string) *domain.Identity {
	return &domain.Identity{Subject: subject, Email: "customer@example.com", Role: domain.RoleCustomer}
}

func adminIdentity() *domain.Identity {
	return &domain.Identity{Subject: "acct-root", Email: "admin@example.com", Role: domain.RoleAdmin}
}

func TestRequireAuthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		identity       *domain.Identity
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "anonymous request",
			identity:       nil,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "authentication required",
		},
		{
			name:           "authenticated request",
			identity:       customerIdentity("acct-1"),
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(withIdentity(tt.identity))
			router.GET("/private", RequireAuthenticated(), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "success"})
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/private", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Contains(t, response["error"], tt.expectedError)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		identity       *domain.Identity
		role           domain.Role
		expectedStatus int
	}{
		{
			name:           "anonymous request",
			identity:       nil,
			role:           domain.RoleAdmin,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong role",
			identity:       customerIdentity("acct-1"),
			role:           domain.RoleAdmin,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "matching role",
			identity:       adminIdentity(),
			role:           domain.RoleAdmin,
			expectedStatus: http.StatusOK,
		},
		{
			// Role checks are exact; admin holds no implicit superset here.
			name:           "admin does not satisfy a customer-only check",
			identity:       adminIdentity(),
			role:           domain.RoleCustomer,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(withIdentity(tt.identity))
			router.GET("/restricted", RequireRole(tt.role), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "success"})
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/restricted", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequireAnyRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		identity       *domain.Identity
		roles          []domain.Role
		expectedStatus int
	}{
		{
			name:           "anonymous request",
			identity:       nil,
			roles:          []domain.Role{domain.RoleCustomer, domain.RoleContractor},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "role in the set",
			identity:       customerIdentity("acct-1"),
			roles:          []domain.Role{domain.RoleCustomer, domain.RoleContractor},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "role outside the set",
			identity:       adminIdentity(),
			roles:          []domain.Role{domain.RoleCustomer, domain.RoleContractor},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "empty set admits nobody",
			identity:       customerIdentity("acct-1"),
			roles:          nil,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(withIdentity(tt.identity))
			router.GET("/mixed", RequireAnyRole(tt.roles...), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "success"})
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/mixed", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequireOwnership(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		identity       *domain.Identity
		source         string
		paramName      string
		request        *http.Request
		expectedStatus int
	}{
		{
			name:           "owner reaches own resource via path",
			identity:       customerIdentity("acct-123"),
			source:         "path",
			paramName:      "id",
			request:        httptest.NewRequest("GET", "/accounts/acct-123", nil),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "foreign resource via path",
			identity:       customerIdentity("acct-456"),
			source:         "path",
			paramName:      "id",
			request:        httptest.NewRequest("GET", "/accounts/acct-123", nil),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "admin bypasses ownership",
			identity:       adminIdentity(),
			source:         "path",
			paramName:      "id",
			request:        httptest.NewRequest("GET", "/accounts/acct-123", nil),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "anonymous request",
			identity:       nil,
			source:         "path",
			paramName:      "id",
			request:        httptest.NewRequest("GET", "/accounts/acct-123", nil),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "owner match via query",
			identity:       customerIdentity("acct-123"),
			source:         "query",
			paramName:      "owner_id",
			request:        httptest.NewRequest("GET", "/accounts/acct-999?owner_id=acct-123", nil),
			expectedStatus: http.StatusOK,
		},
		{
			name:      "owner match via header",
			identity:  customerIdentity("acct-123"),
			source:    "header",
			paramName: "X-Owner-Id",
			request: func() *http.Request {
				req := httptest.NewRequest("GET", "/accounts/acct-999", nil)
				req.Header.Set("X-Owner-Id", "acct-123")
				return req
			}(),
			expectedStatus: http.StatusOK,
		},
		{
			name:      "owner match via body",
			identity:  customerIdentity("acct-123"),
			source:    "body",
			paramName: "owner_id",
			request: func() *http.Request {
				body, _ := json.Marshal(map[string]string{"owner_id": "acct-123"})
				req := httptest.NewRequest("POST", "/accounts/acct-999", bytes.NewReader(body))
				req.Header.Set("Content-Type", "application/json")
				return req
			}(),
			expectedStatus: http.StatusOK,
		},
		{
			name:      "body mismatch",
			identity:  customerIdentity("acct-456"),
			source:    "body",
			paramName: "owner_id",
			request: func() *http.Request {
				body, _ := json.Marshal(map[string]string{"owner_id": "acct-123"})
				req := httptest.NewRequest("POST", "/accounts/acct-999", bytes.NewReader(body))
				req.Header.Set("Content-Type", "application/json")
				return req
			}(),
			expectedStatus: http.StatusForbidden,
		},
		{
			// An unresolvable owner id never grants access to non-admins.
			name:           "missing owner parameter",
			identity:       customerIdentity("acct-123"),
			source:         "query",
			paramName:      "owner_id",
			request:        httptest.NewRequest("GET", "/accounts/acct-999", nil),
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(withIdentity(tt.identity))
			guard := RequireOwnership(tt.source, tt.paramName)
			router.GET("/accounts/:id", guard, func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "success"})
			})
			router.POST("/accounts/:id", guard, func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "success"})
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, tt.request)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

// A guarded chain behaves like its narrowest guard.
func TestGuardComposition(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(withIdentity(customerIdentity("acct-123")))
	router.GET("/accounts/:id/billing",
		RequireAuthenticated(),
		RequireAnyRole(domain.RoleCustomer, domain.RoleContractor),
		RequireOwnership("path", "id"),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "success"})
		})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/accounts/acct-123/billing", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/accounts/acct-999/billing", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
