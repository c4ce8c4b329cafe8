package repositories

import (
	"context"

	"github.com/shopmobile/storefront_bff/internal/core/domain"
)

// CartRepository persists the local cart shadow.
type CartRepository interface {
	// GetOrCreateActiveCart returns the user's active cart, creating one if absent.
	GetOrCreateActiveCart(ctx context.Context, userID int64) (*domain.Cart, error)

	// FindActiveCart returns the user's active cart with items loaded, or
	// apperrors.ErrNotFound.
	FindActiveCart(ctx context.Context, userID int64) (*domain.Cart, error)

	// AddItem appends a line to the cart and returns it with its assigned ID.
	AddItem(ctx context.Context, item domain.CartItem) (*domain.CartItem, error)

	// UpdateItemQuantity sets the quantity for an item in the user's active
	// cart; quantity <= 0 removes it. Items outside that cart are not found.
	UpdateItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error

	// RemoveItem deletes a single line from the user's active cart. Idempotent.
	RemoveItem(ctx context.Context, userID, itemID int64) error

	// ClearCart deletes all lines of a cart. Idempotent.
	ClearCart(ctx context.Context, cartID int64) error
}

// OrderRepository persists local order records.
type OrderRepository interface {
	// CreateOrder persists a new order row and returns it with its assigned ID.
	CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)

	// FindOrdersByUser lists a user's orders, newest first.
	FindOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}
