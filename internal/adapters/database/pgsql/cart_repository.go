package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/domain"
	portsrepo "github.com/shopmobile/storefront_bff/internal/core/ports/repositories"
	"github.com/shopmobile/storefront_bff/internal/models"
)

type CartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{db: db}
}

// Ensure CartRepository implements portsrepo.CartRepository
var _ portsrepo.CartRepository = (*CartRepository)(nil)

func toDomainCart(m models.Cart) domain.Cart {
	return domain.Cart{
		ID:        m.ID,
		UserID:    m.UserID,
		Status:    m.Status,
		Items:     []domain.CartItem{},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDomainCartItem(m models.CartItem) domain.CartItem {
	return domain.CartItem{
		ID:               m.ID,
		CartID:           m.CartID,
		ShopifyProductID: m.ShopifyProductID,
		ShopifyVariantID: m.ShopifyVariantID,
		Quantity:         m.Quantity,
		Price:            m.Price,
		Currency:         m.Currency,
		CreatedAt:        m.CreatedAt,
	}
}

func (r *CartRepository) GetOrCreateActiveCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	query := `
        INSERT INTO carts (user_id, status, created_at, updated_at)
        VALUES ($1, 'active', NOW(), NOW())
        ON CONFLICT (user_id) WHERE status = 'active'
        DO UPDATE SET updated_at = NOW()
        RETURNING id, user_id, status, created_at, updated_at;
    `
	var m models.Cart
	err := r.db.QueryRow(ctx, query, userID).Scan(&m.ID, &m.UserID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}
	cart := toDomainCart(m)
	return &cart, nil
}

func (r *CartRepository) FindActiveCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	query := `
        SELECT id, user_id, status, created_at, updated_at
        FROM carts
        WHERE user_id = $1 AND status = 'active';
    `
	var m models.Cart
	err := r.db.QueryRow(ctx, query, userID).Scan(&m.ID, &m.UserID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active cart: %w", err)
	}
	cart := toDomainCart(m)

	items, err := r.findItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

func (r *CartRepository) findItems(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	query := `
        SELECT id, cart_id, shopify_product_id, shopify_variant_id, quantity, price, currency, created_at
        FROM cart_items
        WHERE cart_id = $1
        ORDER BY created_at ASC;
    `
	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var m models.CartItem
		err := rows.Scan(&m.ID, &m.CartID, &m.ShopifyProductID, &m.ShopifyVariantID, &m.Quantity, &m.Price, &m.Currency, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item row: %w", err)
		}
		items = append(items, toDomainCartItem(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating cart item rows: %w", rows.Err())
	}
	return items, nil
}

func (r *CartRepository) AddItem(ctx context.Context, item domain.CartItem) (*domain.CartItem, error) {
	query := `
        INSERT INTO cart_items (cart_id, shopify_product_id, shopify_variant_id, quantity, price, currency, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, cart_id, shopify_product_id, shopify_variant_id, quantity, price, currency, created_at;
    `
	var m models.CartItem
	err := r.db.QueryRow(ctx, query,
		item.CartID,
		item.ShopifyProductID,
		item.ShopifyVariantID,
		item.Quantity,
		item.Price,
		item.Currency,
	).Scan(&m.ID, &m.CartID, &m.ShopifyProductID, &m.ShopifyVariantID, &m.Quantity, &m.Price, &m.Currency, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	created := toDomainCartItem(m)
	return &created, nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	if quantity <= 0 {
		return r.RemoveItem(ctx, userID, itemID)
	}
	// Scoped to the caller's active cart; a foreign item id is not found.
	query := `
        UPDATE cart_items SET quantity = $1
        WHERE id = $2
          AND cart_id IN (SELECT id FROM carts WHERE user_id = $3 AND status = 'active');
    `
	cmdTag, err := r.db.Exec(ctx, query, quantity, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("cart item not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, userID, itemID int64) error {
	query := `
        DELETE FROM cart_items
        WHERE id = $1
          AND cart_id IN (SELECT id FROM carts WHERE user_id = $2 AND status = 'active');
    `
	_, err := r.db.Exec(ctx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) ClearCart(ctx context.Context, cartID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1;`, cartID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
