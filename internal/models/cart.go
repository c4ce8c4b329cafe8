package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart mirrors a row of the carts table.
type Cart struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CartItem mirrors a row of the cart_items table.
type CartItem struct {
	ID               int64           `db:"id"`
	CartID           int64           `db:"cart_id"`
	ShopifyProductID string          `db:"shopify_product_id"`
	ShopifyVariantID string          `db:"shopify_variant_id"`
	Quantity         int             `db:"quantity"`
	Price            decimal.Decimal `db:"price"`
	Currency         string          `db:"currency"`
	CreatedAt        time.Time       `db:"created_at"`
}

// Order mirrors a row of the orders table. ShippingAddress is stored as JSONB.
type Order struct {
	ID              int64           `db:"id"`
	UserID          int64           `db:"user_id"`
	ShopifyOrderID  string          `db:"shopify_order_id"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	Currency        string          `db:"currency"`
	PaymentMethod   string          `db:"payment_method"`
	ShippingAddress []byte          `db:"shipping_address"`
	OrderNotes      string          `db:"order_notes"`
	Status          string          `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
}
