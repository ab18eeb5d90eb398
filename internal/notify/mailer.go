// Package notify delivers exported rosters by email.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	gomail "gopkg.in/mail.v2"
)

// EmailConfig holds SMTP configuration for sending emails.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	Timeout    time.Duration
}

// Dialer is the part of *gomail.Dialer the mailer uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends export files as attachments.
type Mailer struct {
	cfg    EmailConfig
	dialer Dialer
	logger *slog.Logger
}

func NewMailer(cfg EmailConfig, logger *slog.Logger) *Mailer {
	dialer := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second
	if cfg.Timeout > 0 {
		dialer.Timeout = cfg.Timeout
	}
	return newMailer(cfg, dialer, logger)
}

func newMailer(cfg EmailConfig, dialer Dialer, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{cfg: cfg, dialer: dialer, logger: logger}
}

// SendExport mails data as attachment filename to the recipients in to.
func (m *Mailer) SendExport(ctx context.Context, to []string, subject, filename string, data []byte) error {
	recipients := make([]string, 0, len(to))
	for _, r := range to {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	if len(recipients) == 0 {
		return errors.New("no recipients")
	}
	if m.cfg.FromEmail == "" {
		return errors.New("sender address is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.FromEmail)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", fmt.Sprintf("Im Anhang: %s\n", filename))
	msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("email send failed", "to", strings.Join(recipients, ","), "subject", subject, "error", err)
		return fmt.Errorf("send email: %w", err)
	}
	m.logger.Info("email sent", "to", strings.Join(recipients, ","), "subject", subject, "attachment", filename, "bytes", len(data))
	return nil
}
