package services

import (
	"context"

	"github.com/shopmobile/storefront_bff/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AddCartItemInput carries the fields of a cart line addition.
type AddCartItemInput struct {
	UserID           int64
	ShopifyProductID string
	ShopifyVariantID string
	Quantity         int
	Price            decimal.Decimal
	Currency         string
}

// CartSvcFacade manages the local cart shadow. Pure CRUD over the repository;
// no upstream calls.
type CartSvcFacade interface {
	AddItem(ctx context.Context, input AddCartItemInput) (*domain.CartItem, error)
	GetCart(ctx context.Context, userID int64) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID int64) error
	ClearCart(ctx context.Context, cartID int64) error
}

// OrderSvcFacade places orders upstream and shadows them locally.
type OrderSvcFacade interface {
	// CreateOrder builds a Shopify order from the user's active cart, then
	// persists the local order row referencing the upstream order ID.
	CreateOrder(ctx context.Context, userID int64, shipping domain.Address, paymentMethod, notes string) (*domain.Order, *domain.ShopifyOrder, error)

	// ListOrders returns the user's local order rows, newest first.
	ListOrders(ctx context.Context, userID int64) ([]domain.Order, error)
}
