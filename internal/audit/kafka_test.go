package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/yeasin2002/marketauth/domain"
)

// fakeWriter captures written messages in memory.
type fakeWriter struct {
	messages []kafka.Message
	writeErr error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaAuditLogger_LogEvent(t *testing.T) {
	writer := &fakeWriter{}
	logger := NewKafkaAuditLoggerWithWriter(writer)

	event := domain.NewAuditEvent(domain.LoginEvent, "acct-42").
		WithEmail("user@example.com").
		WithTokenID("jti-7")

	if err := logger.LogEvent(context.Background(), event); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	if len(writer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(writer.messages))
	}
	msg := writer.messages[0]

	if string(msg.Key) != "acct-42" {
		t.Errorf("expected key acct-42, got %s", msg.Key)
	}

	var decoded domain.AuditEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("message value is not valid JSON: %v", err)
	}
	if decoded.EventType != domain.LoginEvent {
		t.Errorf("expected event type LOGIN, got %s", decoded.EventType)
	}
	if decoded.Email != "user@example.com" {
		t.Errorf("expected email to survive the round trip, got %s", decoded.Email)
	}
	if decoded.TokenID != "jti-7" {
		t.Errorf("expected token id jti-7, got %s", decoded.TokenID)
	}
	if !decoded.Success {
		t.Error("expected a fresh event to be marked successful")
	}
}

func TestKafkaAuditLogger_FailureEvent(t *testing.T) {
	writer := &fakeWriter{}
	logger := NewKafkaAuditLoggerWithWriter(writer)

	event := domain.NewAuditEvent(domain.LoginFailureEvent, "").
		WithEmail("probe@example.com").
		WithError(domain.ErrInvalidCredentials)

	if err := logger.LogEvent(context.Background(), event); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	var decoded domain.AuditEvent
	if err := json.Unmarshal(writer.messages[0].Value, &decoded); err != nil {
		t.Fatalf("message value is not valid JSON: %v", err)
	}
	if decoded.Success {
		t.Error("expected a failure event")
	}
	if decoded.ErrorMsg != domain.ErrInvalidCredentials.Error() {
		t.Errorf("expected the error message to be recorded, got %q", decoded.ErrorMsg)
	}
}

func TestKafkaAuditLogger_WriteError(t *testing.T) {
	wantErr := errors.New("broker unreachable")
	logger := NewKafkaAuditLoggerWithWriter(&fakeWriter{writeErr: wantErr})

	err := logger.LogEvent(context.Background(), domain.NewAuditEvent(domain.LogoutEvent, "acct-1"))
	if !errors.Is(err, wantErr) {
		t.Errorf("expected the writer error to surface, got %v", err)
	}
}

func TestKafkaAuditLogger_Close(t *testing.T) {
	writer := &fakeWriter{}
	logger := NewKafkaAuditLoggerWithWriter(writer)

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !writer.closed {
		t.Error("expected the underlying writer to be closed")
	}
}
