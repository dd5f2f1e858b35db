package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"jewelshop/internal/util"

	"go.uber.org/zap"
)

// Mailer sends a plain-text message. Implementations must treat delivery as
// best-effort; callers never retry through the checkout path.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

// NewSMTPMailer creates an SMTP mailer. Username may be empty for relays
// without authentication.
func NewSMTPMailer(host, port, from, username, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		from:     from,
		username: username,
		password: password,
	}
}

// Send delivers one message.
func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, to, subject, body))

	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogMailer logs messages instead of delivering them. Used when no SMTP host
// is configured (local development).
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a logging mailer
func NewLogMailer() *LogMailer {
	return &LogMailer{logger: util.GetLogger()}
}

// Send logs the message
func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.logger.Info("Mail (not delivered, no SMTP host configured)",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
