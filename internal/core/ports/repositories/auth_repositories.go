package repositories

import (
	"context"
	"time"

	"github.com/shopmobile/storefront_bff/internal/core/domain"
)

// OTPRepository persists one-time codes. Multiple rows may exist per email;
// stale rows are shadowed by creation-time ordering.
type OTPRepository interface {
	// StoreOTP persists a new OTP row holding the bcrypt hash of the code.
	StoreOTP(ctx context.Context, email, codeHash string, expiresAt time.Time) error

	// FindLatestOTP returns the most recently created OTP row for the email, or
	// apperrors.ErrOTPNotFound. Expiry is judged by the caller so that an
	// expired code can be reported distinctly from an absent one.
	FindLatestOTP(ctx context.Context, email string) (*domain.OTP, error)

	// DeleteOTPs removes all OTP rows for the email. Idempotent.
	DeleteOTPs(ctx context.Context, email string) error
}

// SessionRepository persists bearer sessions.
type SessionRepository interface {
	// CreateSession persists a new session row with revoked=false.
	CreateSession(ctx context.Context, userID int64, token string, expiresAt time.Time) (*domain.Session, error)

	// FindSessionByToken returns the non-revoked session for the token, or
	// apperrors.ErrNotFound. Expired-but-not-revoked rows are still returned;
	// expiry policy lives in the auth flow, not here.
	FindSessionByToken(ctx context.Context, token string) (*domain.Session, error)

	// RevokeSession sets revoked=true. Idempotent; unknown tokens are a no-op.
	RevokeSession(ctx context.Context, token string) error

	// CleanupExpiredSessions deletes rows that are expired or revoked.
	// Maintenance only, never invoked per-request.
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}
