package services

import (
	"context"
	"time"

	"github.com/shopmobile/storefront_bff/internal/core/domain"
)

// AuthGrant is the result of a successful OTP verification or registration.
type AuthGrant struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// AuthSvcFacade is the request-level orchestration of the OTP/session
// lifecycle: send -> verify -> issue -> validate -> logout.
type AuthSvcFacade interface {
	// SendLoginOTP gates on upstream customer existence, then generates,
	// stores and dispatches a 6-digit code. apperrors.ErrNotFound when the
	// email has no Shopify customer; upstream failures are fatal here.
	SendLoginOTP(ctx context.Context, email string) error

	// SendRegisterOTP is SendLoginOTP without the existence gate.
	SendRegisterOTP(ctx context.Context, email string) error

	// VerifyOTP checks the latest stored code for the email. On success it
	// reconciles the user (forceRefresh=true), mints a session and consumes
	// the OTP. A mismatched code keeps the OTP row so the client can retry
	// until expiry; an expired code deletes it.
	VerifyOTP(ctx context.Context, email, code string) (*AuthGrant, error)

	// Register is VerifyOTP plus first-time user creation; fails with
	// apperrors.ErrDuplicate when a local user already exists for the email.
	Register(ctx context.Context, email, firstName, lastName, phone, code string) (*AuthGrant, error)

	// ValidateSession resolves a bearer token to its user, revoking expired
	// sessions on sight. The storefront-based refresh is best-effort: on any
	// upstream failure the cached local user is returned silently.
	ValidateSession(ctx context.Context, token string) (*domain.User, error)

	// Logout revokes the session. Idempotent; succeeds even for tokens the
	// store has never seen.
	Logout(ctx context.Context, token string) error
}
