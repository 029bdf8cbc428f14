package service

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"masingacdf_backend/internals/configs"
)

// EmailService wraps the SMTP dialer. When SMTP env vars are absent the
// service logs and skips instead of erroring, so local dev works
// without a mail account.
type EmailService struct {
	cfg configs.SMTPConfig
}

func NewEmailService(cfg configs.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (e *EmailService) Enabled() bool {
	return e.cfg.Enabled()
}

// Send delivers a multipart message: plain text body plus an HTML
// alternative for clients that render it.
func (e *EmailService) Send(to, subject, plainBody, htmlBody string) error {
	if !e.cfg.Enabled() {
		log.Printf("[WARN] SMTP not configured, skipping email to %s (%s)", to, subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	d := gomail.NewDialer(e.cfg.Host, e.cfg.Port, e.cfg.Username, e.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	log.Printf("✅ email sent to %s (%s)", to, subject)
	return nil
}
