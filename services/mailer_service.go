package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/freshai/freshai-backend/config"
)

// Mailer defines the interface for sending transactional email
type Mailer interface {
	// Send delivers a single HTML message to one recipient
	Send(to, subject, htmlBody string) error
}

var mailerInstance Mailer

// InitMailer initializes the mailer from configuration. When no SMTP
// credentials are configured it falls back to a log-only mailer so the
// rest of the application keeps working in development.
func InitMailer(cfg *config.Config) Mailer {
	if cfg.MailConfigured() {
		mailerInstance = &SMTPMailer{
			host:     cfg.MailHost,
			port:     cfg.MailPort,
			username: cfg.MailUsername,
			password: cfg.MailPassword,
			from:     cfg.MailFrom,
		}
	} else {
		log.Println("SMTP not configured, email notifications will only be logged")
		mailerInstance = &LogMailer{}
	}
	return mailerInstance
}

// GetMailer returns the initialized mailer instance
func GetMailer() Mailer {
	return mailerInstance
}

// SetMailer sets the mailer instance (primarily for testing)
func SetMailer(m Mailer) {
	mailerInstance = m
}

// SMTPMailer delivers mail through an SMTP relay with PLAIN auth
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// Send builds an HTML MIME message and submits it to the relay
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	headers := []string{
		fmt.Sprintf("From: %s", m.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes messages to the log instead of delivering them
type LogMailer struct{}

// Send logs the message and reports success
func (m *LogMailer) Send(to, subject, htmlBody string) error {
	log.Printf("MAIL (not sent): to=%s subject=%q", to, subject)
	return nil
}
