package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/domain"
	"github.com/shopmobile/storefront_bff/internal/core/ports/gateways"
	portsrepo "github.com/shopmobile/storefront_bff/internal/core/ports/repositories"
	portssvc "github.com/shopmobile/storefront_bff/internal/core/ports/services"
	"github.com/shopmobile/storefront_bff/internal/middleware"
)

// OrderService places cash-on-delivery orders upstream and shadows them
// locally. The Shopify order is authoritative; the local row exists so order
// history survives upstream outages.
type OrderService struct {
	cartRepo  portsrepo.CartRepository
	orderRepo portsrepo.OrderRepository
	userRepo  portsrepo.UserRepositoryFacade
	gateway   gateways.CustomerGateway
}

func NewOrderService(
	cartRepo portsrepo.CartRepository,
	orderRepo portsrepo.OrderRepository,
	userRepo portsrepo.UserRepositoryFacade,
	gateway gateways.CustomerGateway,
) *OrderService {
	return &OrderService{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		gateway:   gateway,
	}
}

// Ensure OrderService implements portssvc.OrderSvcFacade
var _ portssvc.OrderSvcFacade = (*OrderService)(nil)

func (s *OrderService) CreateOrder(ctx context.Context, userID int64, shipping domain.Address, paymentMethod, notes string) (*domain.Order, *domain.ShopifyOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	cart, err := s.cartRepo.FindActiveCart(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("cart is empty: %w", apperrors.ErrValidation)
		}
		return nil, nil, err
	}
	if len(cart.Items) == 0 {
		return nil, nil, fmt.Errorf("cart is empty: %w", apperrors.ErrValidation)
	}

	// Upstream first: no local shadow without a real Shopify order behind it.
	shopifyOrder, err := s.gateway.CreateOrder(ctx, user.Email, cart.Items, shipping, notes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to place upstream order: %w", err)
	}

	if paymentMethod == "" {
		paymentMethod = "cod"
	}
	currency := shopifyOrder.Currency
	if currency == "" && len(cart.Items) > 0 {
		currency = cart.Items[0].Currency
	}

	localOrder, err := s.orderRepo.CreateOrder(ctx, domain.Order{
		UserID:          userID,
		ShopifyOrderID:  shopifyOrder.ID,
		TotalAmount:     cart.Total(),
		Currency:        currency,
		PaymentMethod:   paymentMethod,
		ShippingAddress: shipping,
		OrderNotes:      notes,
		Status:          "pending",
	})
	if err != nil {
		// The upstream order exists; losing the shadow row is logged loudly
		// but does not fail the purchase.
		logger.Error("Failed to persist local order shadow", slog.String("shopify_order_id", shopifyOrder.ID), slog.String("error", err.Error()))
		return nil, shopifyOrder, nil
	}

	if err := s.cartRepo.ClearCart(ctx, cart.ID); err != nil {
		logger.Warn("Failed to clear cart after order", slog.Int64("cart_id", cart.ID), slog.String("error", err.Error()))
	}

	return localOrder, shopifyOrder, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orderRepo.FindOrdersByUser(ctx, userID)
}
