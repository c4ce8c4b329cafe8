package dto

import (
	"fmt"
	"time"

	"github.com/shopmobile/storefront_bff/internal/core/domain"
)

// SendOTPRequest is the payload for both the login and registration OTP dispatch.
type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyOTPRequest carries the email plus the 6-digit code.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

// SessionTokenRequest carries a session token in the body. Both validate and
// logout also accept the token as a bearer header, so nothing is required here.
type SessionTokenRequest struct {
	Token string `json:"token"`
}

// RegisterRequest completes a first-time registration.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	OTP       string `json:"otp" binding:"required,len=6,numeric"`
}

// AddAddressRequest attaches a shipping address to the customer record.
type AddAddressRequest struct {
	Address1  string `json:"address1" binding:"required"`
	Address2  string `json:"address2"`
	City      string `json:"city" binding:"required"`
	Province  string `json:"province"`
	Zip       string `json:"zip"`
	Country   string `json:"country" binding:"required"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"isDefault"`
}

// ToDomainAddress converts the request payload to the domain shape.
func (r AddAddressRequest) ToDomainAddress() domain.Address {
	return domain.Address{
		Address1: r.Address1,
		Address2: r.Address2,
		City:     r.City,
		Province: r.Province,
		Zip:      r.Zip,
		Country:  r.Country,
		Phone:    r.Phone,
	}
}

// UserResponse is the client-facing view of a user.
type UserResponse struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	ShopifyID      string    `json:"shopifyId,omitempty"`
	NumberOfOrders int64     `json:"numberOfOrders"`
	TotalSpent     string    `json:"totalSpent"`
	DataSource     string    `json:"dataSource"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToUserResponse maps a domain user to its response shape.
func ToUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		Phone:          user.Phone,
		ShopifyID:      user.ShopifyID,
		NumberOfOrders: user.NumberOfOrders,
		TotalSpent:     user.TotalSpent.String(),
		DataSource:     user.DataSource,
		CreatedAt:      user.CreatedAt,
	}
}

// AuthSuccessResponse is returned by verify-otp and register.
type AuthSuccessResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	User      UserResponse `json:"user"`
	ExpiresIn string       `json:"expiresIn"`
}

// MessageResponse is the generic success envelope for message-only endpoints.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
}

// ErrorResponse is the generic failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HumanizeDuration renders a session lifetime the way clients display it,
// e.g. 720h -> "30 days".
func HumanizeDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days <= 0 {
		return d.String()
	}
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
