package shopify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/domain"
	"github.com/shopmobile/storefront_bff/internal/core/ports/gateways"
)

// Gateway implements the customer port on top of the Shopify GraphQL APIs.
type Gateway struct {
	cfg    Config
	client *client
}

func NewGateway(cfg Config) *Gateway {
	return &Gateway{cfg: cfg, client: newClient(cfg)}
}

// Ensure Gateway implements gateways.CustomerGateway
var _ gateways.CustomerGateway = (*Gateway)(nil)

// flexInt64 tolerates Shopify returning counters as either numbers or strings
// (numberOfOrders is an UnsignedInt64 serialized as a string on newer versions).
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer value %q: %w", s, err)
	}
	*f = flexInt64(n)
	return nil
}

// flexDecimal tolerates Money scalars arriving quoted or bare.
type flexDecimal decimal.Decimal

func (f *flexDecimal) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = flexDecimal(decimal.Zero)
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid money value %q: %w", s, err)
	}
	*f = flexDecimal(d)
	return nil
}

type addressNode struct {
	ID       string `json:"id"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Province string `json:"province"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

func (a addressNode) toDomain() domain.Address {
	return domain.Address{
		ID:       a.ID,
		Address1: a.Address1,
		Address2: a.Address2,
		City:     a.City,
		Province: a.Province,
		Zip:      a.Zip,
		Country:  a.Country,
		Phone:    a.Phone,
	}
}

type customerNode struct {
	ID             string        `json:"id"`
	Email          string        `json:"email"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	DisplayName    string        `json:"displayName"`
	Phone          string        `json:"phone"`
	CreatedAt      *time.Time    `json:"createdAt"`
	NumberOfOrders flexInt64     `json:"numberOfOrders"`
	TotalSpent     flexDecimal   `json:"totalSpent"`
	DefaultAddress *addressNode  `json:"defaultAddress"`
	Addresses      []addressNode `json:"addresses"`
}

func (n customerNode) toDomain(source string) *domain.Customer {
	cust := &domain.Customer{
		ID:             n.ID,
		Email:          n.Email,
		FirstName:      n.FirstName,
		LastName:       n.LastName,
		DisplayName:    n.DisplayName,
		Phone:          n.Phone,
		CreatedAt:      n.CreatedAt,
		NumberOfOrders: int64(n.NumberOfOrders),
		TotalSpent:     decimal.Decimal(n.TotalSpent),
		DataSource:     source,
	}
	if n.DefaultAddress != nil {
		addr := n.DefaultAddress.toDomain()
		cust.DefaultAddress = &addr
	}
	for _, a := range n.Addresses {
		cust.Addresses = append(cust.Addresses, a.toDomain())
	}
	return cust
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

const customerFields = `
    id
    email
    firstName
    lastName
    displayName
    phone
    createdAt
    numberOfOrders
    totalSpent
    defaultAddress { id address1 address2 city province zip country phone }
    addresses { id address1 address2 city province zip country phone }`

const customerSearchQuery = `
  query customerByEmail($query: String!) {
    customers(first: 1, query: $query) {
      edges { node {` + customerFields + `
      } }
    }
  }`

func emailSearchTerm(email string) string {
	return fmt.Sprintf("email:%q", email)
}

func (g *Gateway) FindCustomerByEmail(ctx context.Context, email string, api domain.CustomerAPI) (*domain.Customer, error) {
	if api == domain.StorefrontAPI {
		return g.findViaStorefront(ctx, email)
	}
	return g.findViaAdmin(ctx, email, domain.DataSourceAdmin)
}

func (g *Gateway) findViaAdmin(ctx context.Context, email, source string) (*domain.Customer, error) {
	var result struct {
		Customers struct {
			Edges []struct {
				Node customerNode `json:"node"`
			} `json:"edges"`
		} `json:"customers"`
	}
	err := g.client.queryAdmin(ctx, customerSearchQuery, map[string]any{"query": emailSearchTerm(email)}, &result)
	if err != nil {
		return nil, fmt.Errorf("admin customer lookup failed: %w", err)
	}
	if len(result.Customers.Edges) == 0 {
		return nil, nil
	}
	return result.Customers.Edges[0].Node.toDomain(source), nil
}

// findViaStorefront is the best-effort path used during session validation.
// The Storefront API has no email search; without a customer access token the
// best it can do is confirm the shop is reachable and hand back a placeholder.
// When no storefront token is configured the lookup falls through to the Admin
// API, tagged so the caller knows it was not the requested path.
func (g *Gateway) findViaStorefront(ctx context.Context, email string) (*domain.Customer, error) {
	if !g.cfg.StorefrontConfigured() {
		return g.findViaAdmin(ctx, email, domain.DataSourceAdminFallback)
	}

	var result struct {
		Shop struct {
			Name string `json:"name"`
		} `json:"shop"`
	}
	err := g.client.queryStorefront(ctx, `query { shop { name } }`, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("storefront lookup failed: %w", err)
	}
	return &domain.Customer{
		Email:      email,
		DataSource: domain.DataSourceStorefrontFallback,
	}, nil
}

func (g *Gateway) CustomerExists(ctx context.Context, email string) (bool, error) {
	query := `
      query customerExists($query: String!) {
        customers(first: 1, query: $query) {
          edges { node { id } }
        }
      }`
	var result struct {
		Customers struct {
			Edges []struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"customers"`
	}
	err := g.client.queryAdmin(ctx, query, map[string]any{"query": emailSearchTerm(email)}, &result)
	if err != nil {
		return false, fmt.Errorf("customer existence check failed: %w", err)
	}
	return len(result.Customers.Edges) > 0, nil
}

func (g *Gateway) CreateCustomer(ctx context.Context, email, firstName, lastName string) (*domain.Customer, error) {
	mutation := `
      mutation customerCreate($input: CustomerInput!) {
        customerCreate(input: $input) {
          customer {` + customerFields + `
          }
          userErrors { field message }
        }
      }`
	input := map[string]any{"email": email}
	if firstName != "" {
		input["firstName"] = firstName
	}
	if lastName != "" {
		input["lastName"] = lastName
	}

	var result struct {
		CustomerCreate struct {
			Customer   *customerNode `json:"customer"`
			UserErrors []userError   `json:"userErrors"`
		} `json:"customerCreate"`
	}
	err := g.client.queryAdmin(ctx, mutation, map[string]any{"input": input}, &result)
	if err != nil {
		return nil, fmt.Errorf("customer create failed: %w", err)
	}
	if len(result.CustomerCreate.UserErrors) > 0 {
		msg := result.CustomerCreate.UserErrors[0].Message
		if strings.Contains(strings.ToLower(msg), "taken") {
			return nil, fmt.Errorf("customer already exists upstream: %w", apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("customer create rejected: %s: %w", msg, apperrors.ErrValidation)
	}
	if result.CustomerCreate.Customer == nil {
		return nil, fmt.Errorf("customer create returned no customer: %w", apperrors.ErrUpstreamUnavailable)
	}
	cust := result.CustomerCreate.Customer.toDomain(domain.DataSourceAdmin)
	cust.IsNewCustomer = true
	return cust, nil
}

func (g *Gateway) CreateAddress(ctx context.Context, email string, addr domain.Address) (*domain.Address, error) {
	cust, err := g.findViaAdmin(ctx, email, domain.DataSourceAdmin)
	if err != nil {
		return nil, err
	}
	if cust == nil {
		return nil, fmt.Errorf("no customer for email: %w", apperrors.ErrNotFound)
	}

	mutation := `
      mutation customerAddressCreate($customerId: ID!, $address: MailingAddressInput!) {
        customerAddressCreate(customerId: $customerId, address: $address) {
          customerAddress { id address1 address2 city province zip country phone }
          userErrors { field message }
        }
      }`
	address := map[string]any{
		"address1": addr.Address1,
		"address2": addr.Address2,
		"city":     addr.City,
		"province": addr.Province,
		"zip":      addr.Zip,
		"country":  addr.Country,
	}
	if addr.Phone != "" {
		address["phone"] = addr.Phone
	}

	var result struct {
		CustomerAddressCreate struct {
			CustomerAddress *addressNode `json:"customerAddress"`
			UserErrors      []userError  `json:"userErrors"`
		} `json:"customerAddressCreate"`
	}
	err = g.client.queryAdmin(ctx, mutation, map[string]any{"customerId": cust.ID, "address": address}, &result)
	if err != nil {
		return nil, fmt.Errorf("address create failed: %w", err)
	}
	if len(result.CustomerAddressCreate.UserErrors) > 0 {
		return nil, fmt.Errorf("address create rejected: %s: %w", result.CustomerAddressCreate.UserErrors[0].Message, apperrors.ErrValidation)
	}
	if result.CustomerAddressCreate.CustomerAddress == nil {
		return nil, fmt.Errorf("address create returned no address: %w", apperrors.ErrUpstreamUnavailable)
	}
	created := result.CustomerAddressCreate.CustomerAddress.toDomain()
	return &created, nil
}

func (g *Gateway) GetProfile(ctx context.Context, email string) (*domain.Customer, error) {
	cust, err := g.findViaAdmin(ctx, email, domain.DataSourceAdmin)
	if err != nil {
		return nil, err
	}
	if cust == nil {
		return nil, fmt.Errorf("no customer for email: %w", apperrors.ErrNotFound)
	}
	return cust, nil
}

func (g *Gateway) GetOrders(ctx context.Context, email string) ([]domain.ShopifyOrder, error) {
	query := `
      query customerOrders($query: String!) {
        customers(first: 1, query: $query) {
          edges { node {
            orders(first: 20, sortKey: PROCESSED_AT, reverse: true) {
              edges { node {
                id
                name
                createdAt
                displayFinancialStatus
                displayFulfillmentStatus
                totalPriceSet { shopMoney { amount currencyCode } }
                shippingAddress { id address1 address2 city province zip country phone }
              } }
            }
          } }
        }
      }`

	type orderNode struct {
		ID                       string     `json:"id"`
		Name                     string     `json:"name"`
		CreatedAt                *time.Time `json:"createdAt"`
		DisplayFinancialStatus   string     `json:"displayFinancialStatus"`
		DisplayFulfillmentStatus string     `json:"displayFulfillmentStatus"`
		TotalPriceSet            struct {
			ShopMoney struct {
				Amount       flexDecimal `json:"amount"`
				CurrencyCode string      `json:"currencyCode"`
			} `json:"shopMoney"`
		} `json:"totalPriceSet"`
		ShippingAddress *addressNode `json:"shippingAddress"`
	}
	var result struct {
		Customers struct {
			Edges []struct {
				Node struct {
					Orders struct {
						Edges []struct {
							Node orderNode `json:"node"`
						} `json:"edges"`
					} `json:"orders"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"customers"`
	}
	err := g.client.queryAdmin(ctx, query, map[string]any{"query": emailSearchTerm(email)}, &result)
	if err != nil {
		return nil, fmt.Errorf("customer orders lookup failed: %w", err)
	}
	if len(result.Customers.Edges) == 0 {
		return nil, fmt.Errorf("no customer for email: %w", apperrors.ErrNotFound)
	}

	orders := []domain.ShopifyOrder{}
	for _, edge := range result.Customers.Edges[0].Node.Orders.Edges {
		n := edge.Node
		order := domain.ShopifyOrder{
			ID:                n.ID,
			Name:              n.Name,
			OrderNumber:       orderNumberFromName(n.Name),
			TotalPrice:        decimal.Decimal(n.TotalPriceSet.ShopMoney.Amount),
			Currency:          n.TotalPriceSet.ShopMoney.CurrencyCode,
			FinancialStatus:   n.DisplayFinancialStatus,
			FulfillmentStatus: n.DisplayFulfillmentStatus,
			CreatedAt:         n.CreatedAt,
		}
		if n.ShippingAddress != nil {
			addr := n.ShippingAddress.toDomain()
			order.ShippingAddress = &addr
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (g *Gateway) CreateOrder(ctx context.Context, email string, items []domain.CartItem, shipping domain.Address, notes string) (*domain.ShopifyOrder, error) {
	mutation := `
      mutation orderCreate($order: OrderCreateOrderInput!) {
        orderCreate(order: $order) {
          order {
            id
            name
            createdAt
            displayFinancialStatus
            totalPriceSet { shopMoney { amount currencyCode } }
          }
          userErrors { field message }
        }
      }`

	lineItems := make([]map[string]any, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, map[string]any{
			"variantId": item.ShopifyVariantID,
			"quantity":  item.Quantity,
		})
	}
	order := map[string]any{
		"email":     email,
		"lineItems": lineItems,
		"shippingAddress": map[string]any{
			"address1": shipping.Address1,
			"address2": shipping.Address2,
			"city":     shipping.City,
			"province": shipping.Province,
			"zip":      shipping.Zip,
			"country":  shipping.Country,
			"phone":    shipping.Phone,
		},
		// Cash on delivery: the order lands unpaid and is settled offline.
		"financialStatus": "PENDING",
		"tags":            []string{"mobile-app", "cod"},
	}
	if notes != "" {
		order["note"] = notes
	}

	var result struct {
		OrderCreate struct {
			Order *struct {
				ID                     string     `json:"id"`
				Name                   string     `json:"name"`
				CreatedAt              *time.Time `json:"createdAt"`
				DisplayFinancialStatus string     `json:"displayFinancialStatus"`
				TotalPriceSet          struct {
					ShopMoney struct {
						Amount       flexDecimal `json:"amount"`
						CurrencyCode string      `json:"currencyCode"`
					} `json:"shopMoney"`
				} `json:"totalPriceSet"`
			} `json:"order"`
			UserErrors []userError `json:"userErrors"`
		} `json:"orderCreate"`
	}
	err := g.client.queryAdmin(ctx, mutation, map[string]any{"order": order}, &result)
	if err != nil {
		return nil, fmt.Errorf("order create failed: %w", err)
	}
	if len(result.OrderCreate.UserErrors) > 0 {
		return nil, fmt.Errorf("order create rejected: %s: %w", result.OrderCreate.UserErrors[0].Message, apperrors.ErrValidation)
	}
	if result.OrderCreate.Order == nil {
		return nil, fmt.Errorf("order create returned no order: %w", apperrors.ErrUpstreamUnavailable)
	}

	n := result.OrderCreate.Order
	return &domain.ShopifyOrder{
		ID:              n.ID,
		Name:            n.Name,
		OrderNumber:     orderNumberFromName(n.Name),
		TotalPrice:      decimal.Decimal(n.TotalPriceSet.ShopMoney.Amount),
		Currency:        n.TotalPriceSet.ShopMoney.CurrencyCode,
		FinancialStatus: n.DisplayFinancialStatus,
		CreatedAt:       n.CreatedAt,
	}, nil
}

// orderNumberFromName extracts the numeric part of an order name like "#1001".
func orderNumberFromName(name string) int64 {
	trimmed := strings.TrimLeft(name, "#")
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
