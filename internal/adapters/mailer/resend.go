package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/ports/gateways"
)

// ResendMailer delivers email through the Resend API. This is the production
// path; the SMTP mailer covers local development.
type ResendMailer struct {
	client      *resend.Client
	senderEmail string
}

func NewResendMailer(apiKey, senderEmail string) *ResendMailer {
	return &ResendMailer{
		client:      resend.NewClient(apiKey),
		senderEmail: senderEmail,
	}
}

// Ensure ResendMailer implements gateways.Mailer
var _ gateways.Mailer = (*ResendMailer)(nil)

func (m *ResendMailer) SendHTMLEmail(ctx context.Context, recipientEmail, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    m.senderEmail,
		To:      []string{recipientEmail},
		Subject: subject,
		Html:    htmlBody,
	}
	_, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend delivery failed: %w: %w", apperrors.ErrEmailDispatch, err)
	}
	return nil
}
