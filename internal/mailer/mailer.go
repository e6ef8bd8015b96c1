package mailer

import (
	"fmt"

	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends transactional mail over SMTP. Callers treat send failures
// as non-fatal; the business operation that triggered the mail has already
// succeeded.
type SMTPMailer struct {
	from   string
	dialer dialer
	logger *logger.Logger
}

func NewSMTPMailer(host string, port int, from, password string, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		from:   from,
		dialer: gomail.NewDialer(host, port, from, password),
		logger: log.Named("SMTPMailer"),
	}
}

func (s *SMTPMailer) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("Failed to send email", zap.String("to", toEmail), zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Info("Email sent", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}

func (s *SMTPMailer) SendWelcomeEmail(toEmail, name string) error {
	greeting := name
	if greeting == "" {
		greeting = "there"
	}
	body := "Hi " + greeting + ",\n\nWelcome aboard! Browse listings or post your own property to get started."
	return s.send(toEmail, "Welcome to To-Let", body)
}

func (s *SMTPMailer) SendListingCreatedEmail(toEmail, listingTitle string) error {
	body := "Your listing '" + listingTitle + "' has been created successfully."
	return s.send(toEmail, "New Listing Created", body)
}
