package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
)

// Config carries the validated upstream credentials. Built once at startup from
// the application config; call sites never read the environment.
type Config struct {
	StoreDomain     string
	APIVersion      string
	AdminToken      string
	StorefrontToken string
	Timeout         time.Duration
}

// AdminConfigured reports whether the secret-keyed Admin path is usable.
func (c Config) AdminConfigured() bool {
	return c.StoreDomain != "" && c.AdminToken != ""
}

// StorefrontConfigured reports whether the public-token Storefront path is usable.
func (c Config) StorefrontConfigured() bool {
	return c.StoreDomain != "" && c.StorefrontToken != ""
}

func (c Config) adminURL() string {
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.StoreDomain, c.APIVersion)
}

func (c Config) storefrontURL() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.StoreDomain, c.APIVersion)
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type client struct {
	cfg                Config
	adminEndpoint      string
	storefrontEndpoint string
	httpClient         *http.Client
}

func newClient(cfg Config) *client {
	if cfg.Timeout <= 0 {
		// A slow upstream must not hang the login flow.
		cfg.Timeout = 5 * time.Second
	}
	return &client{
		cfg:                cfg,
		adminEndpoint:      cfg.adminURL(),
		storefrontEndpoint: cfg.storefrontURL(),
		httpClient:         &http.Client{Timeout: cfg.Timeout},
	}
}

// queryAdmin executes a GraphQL request against the Admin API and decodes the
// data payload into out. Transport, HTTP and GraphQL-level failures all
// surface as apperrors.ErrUpstreamUnavailable so callers can choose hard- or
// soft-fail handling.
func (c *client) queryAdmin(ctx context.Context, query string, variables map[string]any, out any) error {
	headers := map[string]string{"X-Shopify-Access-Token": c.cfg.AdminToken}
	return c.execute(ctx, c.adminEndpoint, headers, query, variables, out)
}

// queryStorefront executes a GraphQL request against the Storefront API.
func (c *client) queryStorefront(ctx context.Context, query string, variables map[string]any, out any) error {
	headers := map[string]string{"X-Shopify-Storefront-Access-Token": c.cfg.StorefrontToken}
	return c.execute(ctx, c.storefrontEndpoint, headers, query, variables, out)
}

func (c *client) execute(ctx context.Context, url string, headers map[string]string, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shopify request failed: %w: %w", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("shopify api returned status %s: %w", resp.Status, apperrors.ErrUpstreamUnavailable)
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("failed to decode shopify response: %w: %w", apperrors.ErrUpstreamUnavailable, err)
	}
	if len(gqlResp.Errors) > 0 {
		return fmt.Errorf("shopify graphql error: %s: %w", gqlResp.Errors[0].Message, apperrors.ErrUpstreamUnavailable)
	}
	if out != nil {
		if err := json.Unmarshal(gqlResp.Data, out); err != nil {
			return fmt.Errorf("failed to decode shopify data payload: %w", err)
		}
	}
	return nil
}
