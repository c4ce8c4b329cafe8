package mailer

import (
	"github.com/shopmobile/storefront_bff/internal/core/ports/gateways"
	"github.com/shopmobile/storefront_bff/internal/platform/config"
)

// NewMailerFromConfig picks the delivery backend. Resend when an API key is
// present, SMTP otherwise.
func NewMailerFromConfig(cfg *config.Config) gateways.Mailer {
	if cfg.ResendAPIKey != "" {
		return NewResendMailer(cfg.ResendAPIKey, cfg.SenderEmail)
	}
	return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SenderEmail)
}
