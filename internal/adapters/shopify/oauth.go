package shopify

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/shopmobile/storefront_bff/internal/utils"
)

// OAuthConfig wraps the OAuth app-install handshake for the store. The BFF
// normally runs with a pre-issued Admin token; this exists so the same binary
// can complete an app install when pointed at a fresh store.
type OAuthConfig struct {
	oauth2Cfg oauth2.Config
}

func NewOAuthConfig(storeDomain, apiKey, apiSecret, redirectURL string) *OAuthConfig {
	return &OAuthConfig{
		oauth2Cfg: oauth2.Config{
			ClientID:     apiKey,
			ClientSecret: apiSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read_customers", "write_customers", "read_orders", "write_orders"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  fmt.Sprintf("https://%s/admin/oauth/authorize", storeDomain),
				TokenURL: fmt.Sprintf("https://%s/admin/oauth/access_token", storeDomain),
			},
		},
	}
}

// AuthorizeURL returns the store authorization URL plus the state nonce the
// callback must echo back.
func (o *OAuthConfig) AuthorizeURL() (url, state string, err error) {
	state, err = utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", "", err
	}
	return o.oauth2Cfg.AuthCodeURL(state), state, nil
}

// Exchange trades the callback code for a permanent Admin token.
func (o *OAuthConfig) Exchange(ctx context.Context, code string) (string, error) {
	token, err := o.oauth2Cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("oauth code exchange failed: %w", err)
	}
	return token.AccessToken, nil
}
