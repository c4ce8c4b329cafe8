package gateways

import (
	"context"

	"github.com/shopmobile/storefront_bff/internal/core/domain"
)

// CustomerGateway is the outbound port to the Shopify customer surface. The
// auth flow never talks to it directly; only the identity reconciliation
// service and the pass-through handlers do, keeping the dependency direction
// one-way (controller -> reconciliation -> gateway).
type CustomerGateway interface {
	// FindCustomerByEmail queries the chosen API for a customer whose email
	// matches exactly. Returns nil (no error) when no customer matches, and an
	// error wrapping apperrors.ErrUpstreamUnavailable on transport failure.
	// The storefront path is best-effort only and never authoritative.
	FindCustomerByEmail(ctx context.Context, email string, api domain.CustomerAPI) (*domain.Customer, error)

	// CustomerExists is the existence gate used before issuing a login OTP.
	CustomerExists(ctx context.Context, email string) (bool, error)

	// CreateCustomer provisions a new upstream customer. Duplicate emails
	// surface as apperrors.ErrDuplicate, never silently swallowed.
	CreateCustomer(ctx context.Context, email, firstName, lastName string) (*domain.Customer, error)

	// CreateAddress attaches an address to the customer matching the email.
	CreateAddress(ctx context.Context, email string, addr domain.Address) (*domain.Address, error)

	// GetProfile fetches the full customer profile by email.
	GetProfile(ctx context.Context, email string) (*domain.Customer, error)

	// GetOrders fetches the customer's recent orders by email.
	GetOrders(ctx context.Context, email string) ([]domain.ShopifyOrder, error)

	// CreateOrder places an order upstream from local cart lines, attached to
	// the customer matching the email.
	CreateOrder(ctx context.Context, email string, items []domain.CartItem, shipping domain.Address, notes string) (*domain.ShopifyOrder, error)
}
