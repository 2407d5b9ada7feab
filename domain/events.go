package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Account lifecycle events
	AccountRegisteredEvent AuditEventType = "ACCOUNT_REGISTERED"
	PasswordResetEvent     AuditEventType = "PASSWORD_RESET"
	ResetCodeIssuedEvent   AuditEventType = "RESET_CODE_ISSUED"

	// Authentication events
	LoginEvent           AuditEventType = "LOGIN"
	LoginFailureEvent    AuditEventType = "LOGIN_FAILED"
	TokenRefreshEvent    AuditEventType = "TOKEN_REFRESHED"
	RefreshRejectedEvent AuditEventType = "REFRESH_REJECTED"
	LogoutEvent          AuditEventType = "LOGOUT"
	SessionsRevokedEvent AuditEventType = "SESSIONS_REVOKED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	AccountID string                 `json:"account_id,omitempty"`
	Email     string                 `json:"email,omitempty"`
	TokenID   string                 `json:"token_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger records audit events. Implementations must not block the
// calling flow on sink failures longer than their configured timeout.
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, accountID string) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		AccountID: accountID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithTokenID sets the refresh token identifier the event refers to
func (e *AuditEvent) WithTokenID(jti string) *AuditEvent {
	e.TokenID = jti
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
