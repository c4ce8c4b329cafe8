package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the local shadow of a user's in-progress cart. One active cart per
// user; add-item gets-or-creates it.
type Cart struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Status    string     `json:"status"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem is a line in a local cart. Product and variant IDs are in Shopify's
// namespace so the order pass-through can reference them directly.
type CartItem struct {
	ID               int64           `json:"id"`
	CartID           int64           `json:"cartId"`
	ShopifyProductID string          `json:"productId"`
	ShopifyVariantID string          `json:"variantId"`
	Quantity         int             `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	Currency         string          `json:"currency"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Total returns the sum of price*quantity across items.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
