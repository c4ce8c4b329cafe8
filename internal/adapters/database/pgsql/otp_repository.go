package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/domain"
	portsrepo "github.com/shopmobile/storefront_bff/internal/core/ports/repositories"
	"github.com/shopmobile/storefront_bff/internal/models"
)

type OTPRepository struct {
	db *pgxpool.Pool
}

func NewOTPRepository(db *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{db: db}
}

// Ensure OTPRepository implements portsrepo.OTPRepository
var _ portsrepo.OTPRepository = (*OTPRepository)(nil)

func toDomainOTP(m models.OTP) domain.OTP {
	return domain.OTP{
		ID:        m.ID,
		Email:     m.Email,
		CodeHash:  m.CodeHash,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

func (r *OTPRepository) StoreOTP(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	// No uniqueness on email: a resend simply shadows the older row via
	// creation-time ordering in FindLatestOTP.
	query := `
        INSERT INTO otp (email, code_hash, expires_at, created_at)
        VALUES ($1, $2, $3, NOW());
    `
	_, err := r.db.Exec(ctx, query, email, codeHash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

func (r *OTPRepository) FindLatestOTP(ctx context.Context, email string) (*domain.OTP, error) {
	query := `
        SELECT id, email, code_hash, expires_at, created_at
        FROM otp
        WHERE email = $1
        ORDER BY created_at DESC
        LIMIT 1;
    `
	var m models.OTP
	err := r.db.QueryRow(ctx, query, email).Scan(
		&m.ID,
		&m.Email,
		&m.CodeHash,
		&m.ExpiresAt,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOTPNotFound
		}
		return nil, fmt.Errorf("failed to find latest otp: %w", err)
	}
	otp := toDomainOTP(m)
	return &otp, nil
}

func (r *OTPRepository) DeleteOTPs(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM otp WHERE email = $1;`, email)
	if err != nil {
		return fmt.Errorf("failed to delete otps: %w", err)
	}
	return nil
}
