package audit

import (
	"context"
	"log"
	"strings"

	"github.com/yeasin2002/marketauth/domain"
)

var _ domain.AuditLogger = (*LogAuditLogger)(nil)

// LogAuditLogger writes audit events to the process log, one line per event
// in the EVENT_TYPE: key=value form the rest of the service logs in.
type LogAuditLogger struct {
	logger *log.Logger
}

// NewLogAuditLogger creates an audit logger over the default process logger.
func NewLogAuditLogger() *LogAuditLogger {
	return &LogAuditLogger{logger: log.Default()}
}

// NewLogAuditLoggerWith allows tests to capture output.
func NewLogAuditLoggerWith(l *log.Logger) *LogAuditLogger {
	return &LogAuditLogger{logger: l}
}

// LogEvent implements domain.AuditLogger
func (a *LogAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) error {
	var b strings.Builder
	b.WriteString(string(event.EventType))
	b.WriteString(":")
	if event.AccountID != "" {
		b.WriteString(" account_id=" + event.AccountID)
	}
	if event.Email != "" {
		b.WriteString(" email=" + event.Email)
	}
	if event.TokenID != "" {
		b.WriteString(" token_id=" + event.TokenID)
	}
	if !event.Success {
		b.WriteString(" success=false")
	}
	if event.ErrorMsg != "" {
		b.WriteString(" error=" + event.ErrorMsg)
	}
	b.WriteString(" timestamp=" + event.Timestamp.Format("2006-01-02T15:04:05Z07:00"))

	a.logger.Print(b.String())
	return nil
}

var _ domain.AuditLogger = (MultiAuditLogger)(nil)

// MultiAuditLogger fans one event out to several sinks. Every sink sees the
// event even when an earlier one fails; the first failure is reported.
type MultiAuditLogger []domain.AuditLogger

// NewMultiAuditLogger combines audit sinks.
func NewMultiAuditLogger(loggers ...domain.AuditLogger) MultiAuditLogger {
	return MultiAuditLogger(loggers)
}

// LogEvent implements domain.AuditLogger
func (m MultiAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	var firstErr error
	for _, l := range m {
		if err := l.LogEvent(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
