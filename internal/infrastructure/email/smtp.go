package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for email links (e.g., "https://app.grantpilot.org")
}

// MagicLinkSender delivers login links. The application layer depends
// on this interface so tests can capture the raw token.
type MagicLinkSender interface {
	SendMagicLinkEmail(to, token string, ttlMinutes int) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

func (s *SMTPEmailService) SendMagicLinkEmail(to, token string, ttlMinutes int) error {
	loginURL := fmt.Sprintf("%s/auth/magic-link?token=%s", s.config.BaseURL, token)

	subject := "Your GrantPilot login link"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Sign in to GrantPilot</h2>
			<p>Click the link below to sign in:</p>
			<p><a href="%s">Sign in to GrantPilot</a></p>
			<p>Or copy and paste this URL into your browser:</p>
			<p>%s</p>
			<p>This link will expire in %d minutes and can only be used once.</p>
			<p>If you didn't request this link, please ignore this email.</p>
		</body>
		</html>
	`, loginURL, loginURL, ttlMinutes)

	plainBody := fmt.Sprintf(`
Sign in to GrantPilot

Visit the following URL to sign in:
%s

This link will expire in %d minutes and can only be used once.

If you didn't request this link, please ignore this email.
	`, loginURL, ttlMinutes)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
