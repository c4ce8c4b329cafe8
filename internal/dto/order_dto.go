package dto

// CreateOrderRequest places a cash-on-delivery order from the active cart.
type CreateOrderRequest struct {
	ShippingAddress AddAddressRequest `json:"shippingAddress" binding:"required"`
	PaymentMethod   string            `json:"paymentMethod"`
	Notes           string            `json:"notes"`
}
