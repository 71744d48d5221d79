// Package delivery contains the outbound notification channels.
package delivery

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

// SMTPConfig holds the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPEmailSender delivers over a plain SMTP relay.
type SMTPEmailSender struct {
	cfg    SMTPConfig
	logger *logging.Logger
}

func NewSMTPEmailSender(cfg SMTPConfig, logger *logging.Logger) *SMTPEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &SMTPEmailSender{cfg: cfg, logger: logger}
}

func (s *SMTPEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("send email: recipient is required")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	s.logger.DebugContext(ctx, "email sent", "to", to, "subject", subject)
	return nil
}

// LogEmailSender writes the message to the log instead of sending it. Used
// when no SMTP relay is configured.
type LogEmailSender struct {
	logger *logging.Logger
}

func NewLogEmailSender(logger *logging.Logger) *LogEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogEmailSender{logger: logger}
}

func (s *LogEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	s.logger.InfoContext(ctx, "email (log only)", "to", to, "subject", subject, "body", body)
	return nil
}
