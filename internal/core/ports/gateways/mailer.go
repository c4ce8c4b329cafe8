package gateways

import "context"

// Mailer is the outbound port to the transactional email provider.
type Mailer interface {
	SendHTMLEmail(ctx context.Context, recipientEmail, subject, htmlBody string) error
}
