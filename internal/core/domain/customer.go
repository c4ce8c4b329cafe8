package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Data source tags recorded on a customer record and denormalized onto the User row.
// The fallback variants mark records obtained from a path other than the one requested.
const (
	DataSourceLocal              = "local"
	DataSourceAdmin              = "admin"
	DataSourceStorefront         = "storefront"
	DataSourceAdminFallback      = "admin_fallback"
	DataSourceStorefrontFallback = "storefront_fallback"
)

// CustomerAPI selects which upstream API a customer lookup goes through.
type CustomerAPI string

const (
	// AdminAPI is the authoritative, secret-keyed path. Used when completeness
	// matters (post-OTP login).
	AdminAPI CustomerAPI = "admin"
	// StorefrontAPI is the public-token, reduced-field path. Best-effort only,
	// never authoritative; used for the session-validation refresh.
	StorefrontAPI CustomerAPI = "storefront"
)

// Customer is the externally-owned Shopify customer record. It is a transient
// merge input, never persisted directly; its ID lives in Shopify's namespace
// (gid://shopify/Customer/...) and is distinct from the local User.ID.
type Customer struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	DisplayName    string          `json:"displayName,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	CreatedAt      *time.Time      `json:"createdAt,omitempty"`
	NumberOfOrders int64           `json:"numberOfOrders"`
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	DefaultAddress *Address        `json:"defaultAddress,omitempty"`
	Addresses      []Address       `json:"addresses,omitempty"`
	DataSource     string          `json:"dataSource"`
	IsNewCustomer  bool            `json:"isNewCustomer"`
}

// Name joins first and last name, falling back to the display name.
func (c Customer) Name() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	case c.LastName != "":
		return c.LastName
	default:
		return c.DisplayName
	}
}

// Address is a Shopify customer address.
type Address struct {
	ID       string `json:"id,omitempty"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	Province string `json:"province"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone,omitempty"`
}
