package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends a templated notification email: subject, a few body lines and
// a single call-to-action link. Delivery retries are the transport's concern.
type Mailer interface {
	Send(to, subject string, bodyLines []string, actionLabel, actionURL string) error
}

type Config struct {
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func (c Config) Validate() error {
	if c.SMTPHost == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.SMTPPort == 0 {
		return fmt.Errorf("smtp port is required")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SMTPMailer delivers through SMTP via gomail.
type SMTPMailer struct {
	config    Config
	templates *TemplateManager
}

func NewSMTPMailer(config Config) (Mailer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	tm, err := NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	return &SMTPMailer{config: config, templates: tm}, nil
}

func (m *SMTPMailer) Send(to, subject string, bodyLines []string, actionLabel, actionURL string) error {
	htmlBody, err := m.templates.Render(TemplateData{
		Subject:     subject,
		BodyLines:   bodyLines,
		ActionLabel: actionLabel,
		ActionURL:   actionURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.config.FromEmail, m.config.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.config.SMTPHost, m.config.SMTPPort, m.config.Username, m.config.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// NoopMailer is used when SMTP is not configured.
type NoopMailer struct{}

func (NoopMailer) Send(to, subject string, bodyLines []string, actionLabel, actionURL string) error {
	return nil
}
