package repositories

import (
	"context"

	"github.com/shopmobile/storefront_bff/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByEmail retrieves a user by email, the join key to the upstream system.
	// Returns apperrors.ErrNotFound when no row matches.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByID retrieves a user by local ID.
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// CreateUser persists a new user and returns the row with its assigned ID.
	// A concurrent create for the same email surfaces as apperrors.ErrDuplicate;
	// callers must re-fetch rather than fail the flow.
	CreateUser(ctx context.Context, email, name string) (*domain.User, error)

	// UpdateShopifyFields writes the denormalized upstream fields onto the user row.
	UpdateShopifyFields(ctx context.Context, email string, fields domain.ShopifyFields) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
