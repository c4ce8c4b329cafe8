package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the locally-owned identity. ID is the primary identity that sessions,
// carts and orders reference; it is assigned once by the database and is never
// overwritten by upstream-sourced identifiers.
type User struct {
	ID               int64           `json:"id"`
	Email            string          `json:"email"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone,omitempty"`
	ShopifyID        string          `json:"shopifyId,omitempty"`
	ShopifyCreatedAt *time.Time      `json:"shopifyCreatedAt,omitempty"`
	NumberOfOrders   int64           `json:"numberOfOrders"`
	TotalSpent       decimal.Decimal `json:"totalSpent"`
	DataSource       string          `json:"dataSource"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ShopifyFields is the denormalized slice of a User that is refreshed from the
// upstream customer record. Persisting it is always best-effort.
type ShopifyFields struct {
	Name             string
	Phone            string
	ShopifyID        string
	ShopifyCreatedAt *time.Time
	NumberOfOrders   int64
	TotalSpent       decimal.Decimal
	DataSource       string
}
