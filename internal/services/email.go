package services

import (
	"fmt"
	"net/smtp"

	"github.com/mvasic/cofound-api/internal/config"
)

type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

func (s *EmailService) SendNegotiationUpdate(to, ventureName, offerURL string) error {
	subject := fmt.Sprintf("New compensation terms on %s", ventureName)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>It's your turn</h2>
			<p>Hi,</p>
			<p>The other party proposed new compensation terms for <strong>%s</strong>.</p>
			<p><a href="%s">Review the terms and respond</a></p>
		</body>
		</html>
	`, ventureName, offerURL)

	return s.Send(to, subject, body)
}

func (s *EmailService) SendNegotiationAccepted(to, ventureName, offerURL string) error {
	subject := fmt.Sprintf("Compensation agreed on %s", ventureName)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Agreement reached</h2>
			<p>Hi,</p>
			<p>Your compensation terms for <strong>%s</strong> have been accepted.</p>
			<p><a href="%s">See the final terms</a></p>
		</body>
		</html>
	`, ventureName, offerURL)

	return s.Send(to, subject, body)
}
