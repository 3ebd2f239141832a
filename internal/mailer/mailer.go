package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/oykulab/masal-api/internal/config"
)

// Sender delivers mail. It exists so usecases can be tested with a fake and
// run without SMTP in development.
type Sender interface {
	Send(email Email) error
	SendHTML(to []string, subject, htmlBody string) error
}

// Email represents an email message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Mailer sends mail over SMTP with gomail.
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

// New creates a Mailer from SMTP configuration.
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send sends a single email.
func (m *Mailer) Send(email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}

	return m.dialer.DialAndSend(msg)
}

// SendHTML sends an HTML email.
func (m *Mailer) SendHTML(to []string, subject, htmlBody string) error {
	return m.Send(Email{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}
