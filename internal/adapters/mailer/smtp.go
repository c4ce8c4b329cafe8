package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/ports/gateways"
)

// SMTPMailer delivers email over plain SMTP. Meant for local development
// against a relay like Mailpit; production uses the Resend mailer.
type SMTPMailer struct {
	host        string
	port        string
	username    string
	password    string
	senderEmail string
}

func NewSMTPMailer(host, port, username, password, senderEmail string) *SMTPMailer {
	return &SMTPMailer{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		senderEmail: senderEmail,
	}
}

// Ensure SMTPMailer implements gateways.Mailer
var _ gateways.Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) SendHTMLEmail(_ context.Context, recipientEmail, subject, htmlBody string) error {
	msg := []byte("From: " + m.senderEmail + "\r\n" +
		"To: " + recipientEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		htmlBody)

	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := smtp.SendMail(addr, auth, m.senderEmail, []string{recipientEmail}, msg); err != nil {
		return fmt.Errorf("smtp delivery failed: %w: %w", apperrors.ErrEmailDispatch, err)
	}
	return nil
}
