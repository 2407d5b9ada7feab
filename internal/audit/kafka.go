package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/yeasin2002/marketauth/domain"
)

// Writer is the subset of the kafka writer the audit sink needs. It keeps
// the sink testable without a broker.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ domain.AuditLogger = (*KafkaAuditLogger)(nil)

// KafkaAuditLogger publishes audit events to a Kafka topic. Events are keyed
// by account ID so one account's history stays ordered within a partition.
type KafkaAuditLogger struct {
	writer Writer
}

// NewKafkaAuditLogger creates an audit sink writing to the given brokers.
func NewKafkaAuditLogger(brokers []string, topic string) *KafkaAuditLogger {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 5 * time.Second,
	}
	return &KafkaAuditLogger{writer: w}
}

// NewKafkaAuditLoggerWithWriter allows injecting a test writer.
func NewKafkaAuditLoggerWithWriter(w Writer) *KafkaAuditLogger {
	return &KafkaAuditLogger{writer: w}
}

// LogEvent implements domain.AuditLogger
func (a *KafkaAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.AccountID),
		Value: value,
		Time:  event.Timestamp,
	}
	return a.writer.WriteMessages(ctx, msg)
}

// Close closes the underlying writer.
func (a *KafkaAuditLogger) Close() error {
	return a.writer.Close()
}
