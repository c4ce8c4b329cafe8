package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopmobile/storefront_bff/internal/core/domain"
	portsrepo "github.com/shopmobile/storefront_bff/internal/core/ports/repositories"
	"github.com/shopmobile/storefront_bff/internal/models"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// Ensure OrderRepository implements portsrepo.OrderRepository
var _ portsrepo.OrderRepository = (*OrderRepository)(nil)

func toDomainOrder(m models.Order) (domain.Order, error) {
	order := domain.Order{
		ID:             m.ID,
		UserID:         m.UserID,
		ShopifyOrderID: m.ShopifyOrderID,
		TotalAmount:    m.TotalAmount,
		Currency:       m.Currency,
		PaymentMethod:  m.PaymentMethod,
		OrderNotes:     m.OrderNotes,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
	}
	if len(m.ShippingAddress) > 0 {
		if err := json.Unmarshal(m.ShippingAddress, &order.ShippingAddress); err != nil {
			return domain.Order{}, fmt.Errorf("failed to decode shipping address: %w", err)
		}
	}
	return order, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	shippingJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to encode shipping address: %w", err)
	}

	query := `
        INSERT INTO orders (user_id, shopify_order_id, total_amount, currency, payment_method, shipping_address, order_notes, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        RETURNING id, created_at;
    `
	created := order
	err = r.db.QueryRow(ctx, query,
		order.UserID,
		order.ShopifyOrderID,
		order.TotalAmount,
		order.Currency,
		order.PaymentMethod,
		shippingJSON,
		order.OrderNotes,
		order.Status,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &created, nil
}

func (r *OrderRepository) FindOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	query := `
        SELECT id, user_id, shopify_order_id, total_amount, currency, payment_method, shipping_address, order_notes, status, created_at
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC;
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var m models.Order
		err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.ShopifyOrderID,
			&m.TotalAmount,
			&m.Currency,
			&m.PaymentMethod,
			&m.ShippingAddress,
			&m.OrderNotes,
			&m.Status,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		order, err := toDomainOrder(m)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", rows.Err())
	}
	return orders, nil
}
