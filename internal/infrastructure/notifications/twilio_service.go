package notifications

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/yeasin2002/marketauth/domain"
)

var _ domain.Notifier = (*TwilioServiceImpl)(nil)

// TwilioServiceImpl implements domain.Notifier. SMS goes out through the
// Twilio REST API and email through a plain SMTP relay. A channel whose
// transport is not configured logs the message instead of sending it, so
// development environments work without credentials.
type TwilioServiceImpl struct {
	client     *twilio.RestClient
	fromNumber string
	smtpAddr   string
	fromEmail  string
}

// NewTwilioService creates the notification service with the SMS channel
// configured. Chain WithSMTP to enable real email delivery.
func NewTwilioService(accountSID, authToken, fromNumber string) *TwilioServiceImpl {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioServiceImpl{
		client:     client,
		fromNumber: fromNumber,
	}
}

// WithSMTP points the email channel at a relay. addr is host:port.
func (t *TwilioServiceImpl) WithSMTP(addr, from string) *TwilioServiceImpl {
	t.smtpAddr = addr
	t.fromEmail = from
	return t
}

// SendSMS implements domain.Notifier
func (t *TwilioServiceImpl) SendSMS(to, message string) error {
	if t.fromNumber == "" {
		log.Printf("[MOCK SMS] to=%s message=%q", to, message)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}

// SendEmail implements domain.Notifier
func (t *TwilioServiceImpl) SendEmail(to, subject, body string) error {
	if t.smtpAddr == "" {
		log.Printf("[MOCK EMAIL] to=%s subject=%q body=%q", to, subject, body)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + t.fromEmail,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(t.smtpAddr, nil, t.fromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
