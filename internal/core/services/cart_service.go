package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/domain"
	portsrepo "github.com/shopmobile/storefront_bff/internal/core/ports/repositories"
	portssvc "github.com/shopmobile/storefront_bff/internal/core/ports/services"
)

// CartService manages the local cart shadow. Product and pricing truth lives
// in Shopify; this only tracks what the app user has picked.
type CartService struct {
	cartRepo portsrepo.CartRepository
}

func NewCartService(cartRepo portsrepo.CartRepository) *CartService {
	return &CartService{cartRepo: cartRepo}
}

// Ensure CartService implements portssvc.CartSvcFacade
var _ portssvc.CartSvcFacade = (*CartService)(nil)

func (s *CartService) AddItem(ctx context.Context, input portssvc.AddCartItemInput) (*domain.CartItem, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", apperrors.ErrValidation)
	}

	cart, err := s.cartRepo.GetOrCreateActiveCart(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.AddItem(ctx, domain.CartItem{
		CartID:           cart.ID,
		ShopifyProductID: input.ShopifyProductID,
		ShopifyVariantID: input.ShopifyVariantID,
		Quantity:         input.Quantity,
		Price:            input.Price,
		Currency:         input.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}
	return item, nil
}

func (s *CartService) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindActiveCart(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// A user with no cart yet gets an empty one, not an error.
			return s.cartRepo.GetOrCreateActiveCart(ctx, userID)
		}
		return nil, err
	}
	return cart, nil
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	return s.cartRepo.UpdateItemQuantity(ctx, userID, itemID, quantity)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	return s.cartRepo.RemoveItem(ctx, userID, itemID)
}

func (s *CartService) ClearCart(ctx context.Context, cartID int64) error {
	return s.cartRepo.ClearCart(ctx, cartID)
}
