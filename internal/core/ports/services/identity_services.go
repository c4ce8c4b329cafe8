package services

import (
	"context"

	"github.com/shopmobile/storefront_bff/internal/core/domain"
)

// IdentitySvcFacade reconciles the locally-owned User with the externally-owned
// Shopify customer record.
type IdentitySvcFacade interface {
	// GetOrCreateUser looks up (or creates) the local user for the email,
	// enriches it from upstream and returns the merged view. forceRefresh
	// selects the authoritative Admin API; otherwise the lightweight
	// Storefront path is used and partial data is acceptable. Safe to call
	// repeatedly: the local ID never changes, only denormalized fields move.
	GetOrCreateUser(ctx context.Context, email string, forceRefresh bool) (*domain.User, error)

	// RegisterUser creates the local user and the upstream customer for a
	// first-time registration. Upstream creation failures are fatal here,
	// unlike the best-effort provisioning inside GetOrCreateUser.
	RegisterUser(ctx context.Context, email, firstName, lastName, phone string) (*domain.User, error)
}
