package dto

// AddCartItemRequest appends a line to the caller's active cart. Price is a
// decimal string to avoid float drift in transit.
type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Price     string `json:"price" binding:"required"`
	Currency  string `json:"currency"`
}

// UpdateCartItemRequest sets a line's quantity; zero removes the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}
