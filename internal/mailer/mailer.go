package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/nabin-thapa/gighub/internal/config"
	"github.com/nabin-thapa/gighub/internal/pkg/logger"
)

// Mailer delivers outbound mail. The core treats delivery as
// fire-and-forget; failures are surfaced, not retried.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTP sends mail through a plain SMTP relay
type SMTP struct {
	cfg config.SMTPConfig
}

// NewSMTP creates an SMTP mailer
func NewSMTP(cfg config.SMTPConfig) *SMTP {
	return &SMTP{cfg: cfg}
}

// Send delivers a single message
func (m *SMTP) Send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// LogOnly logs messages instead of sending them; used in development and
// whenever SMTP is disabled
type LogOnly struct {
	logger *logger.Logger
}

// NewLogOnly creates a logging mailer
func NewLogOnly(log *logger.Logger) *LogOnly {
	return &LogOnly{logger: log}
}

// Send logs the message
func (m *LogOnly) Send(ctx context.Context, to, subject, body string) error {
	m.logger.WithFields(map[string]interface{}{
		"to":      to,
		"subject": subject,
	}).Info("Email delivery skipped (SMTP disabled)")
	return nil
}

// FromConfig picks an implementation based on configuration
func FromConfig(cfg config.SMTPConfig, log *logger.Logger) Mailer {
	if cfg.Enabled {
		return NewSMTP(cfg)
	}
	return NewLogOnly(log)
}
