package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the local record of an order placed through the pass-through. The
// authoritative order lives in Shopify; ShopifyOrderID links the two.
type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	ShopifyOrderID  string          `json:"shopifyOrderId"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Currency        string          `json:"currency"`
	PaymentMethod   string          `json:"paymentMethod"`
	ShippingAddress Address         `json:"shippingAddress"`
	OrderNotes      string          `json:"orderNotes,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ShopifyOrder is the slice of the upstream order returned by the orderCreate
// mutation and the customer orders query.
type ShopifyOrder struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	OrderNumber       int64           `json:"orderNumber"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	Currency          string          `json:"currency,omitempty"`
	FinancialStatus   string          `json:"financialStatus,omitempty"`
	FulfillmentStatus string          `json:"fulfillmentStatus,omitempty"`
	CreatedAt         *time.Time      `json:"createdAt,omitempty"`
	ShippingAddress   *Address        `json:"shippingAddress,omitempty"`
}
