package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// User mirrors a row of the users table.
type User struct {
	ID               int64               `db:"id"`
	Email            string              `db:"email"`
	Name             string              `db:"name"`
	Phone            sql.NullString      `db:"phone"`
	ShopifyID        sql.NullString      `db:"shopify_id"`
	ShopifyCreatedAt sql.NullTime        `db:"shopify_created_at"`
	NumberOfOrders   int64               `db:"number_of_orders"`
	TotalSpent       decimal.NullDecimal `db:"total_spent"`
	DataSource       string              `db:"data_source"`
	CreatedAt        time.Time           `db:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at"`
}
