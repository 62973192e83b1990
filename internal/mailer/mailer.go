package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/soniq/shop-backend/internal/config"
)

// Mailer delivers transactional mail. The SMTP implementation is the real
// one; tests substitute a capture.
type Mailer interface {
	Send(to, subject, html string) error
}

type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		Host:     cfg.SMTP_HOST,
		Port:     cfg.SMTP_PORT,
		Username: cfg.SMTP_USER,
		Password: cfg.SMTP_PASSWORD,
		From:     cfg.SMTP_FROM,
	}
}

func (m *SMTPMailer) Send(to, subject, html string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.From, to, subject, html,
	)

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := m.Host + ":" + m.Port
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
