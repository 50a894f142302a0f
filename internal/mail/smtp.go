package mail

import (
	"errors"

	"gopkg.in/gomail.v2"

	"github.com/mti-it/onboarding-service/internal/settings"
)

// ErrNotConfigured is returned when neither Graph nor SMTP mail is enabled.
var ErrNotConfigured = errors.New("no mail transport is configured")

// SMTPSender is the fallback transport used when Graph mail is disabled.
type SMTPSender struct {
	cfg settings.SMTPSettings
}

// NewSMTPSender builds the sender from the settings block.
func NewSMTPSender(cfg settings.SMTPSettings) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers one HTML message over SMTP.
func (s *SMTPSender) Send(to []string, subject, htmlBody string) error {
	if !s.cfg.Enabled || s.cfg.Host == "" {
		return ErrNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
