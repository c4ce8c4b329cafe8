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

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Ensure SessionRepository implements portsrepo.SessionRepository
var _ portsrepo.SessionRepository = (*SessionRepository)(nil)

func toDomainSession(m models.Session) domain.Session {
	return domain.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		Revoked:   m.Revoked,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

func (r *SessionRepository) CreateSession(ctx context.Context, userID int64, token string, expiresAt time.Time) (*domain.Session, error) {
	query := `
        INSERT INTO sessions (user_id, token, revoked, created_at, expires_at)
        VALUES ($1, $2, FALSE, NOW(), $3)
        RETURNING id, user_id, token, revoked, created_at, expires_at;
    `
	var m models.Session
	err := r.db.QueryRow(ctx, query, userID, token, expiresAt).Scan(
		&m.ID,
		&m.UserID,
		&m.Token,
		&m.Revoked,
		&m.CreatedAt,
		&m.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session := toDomainSession(m)
	return &session, nil
}

func (r *SessionRepository) FindSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	// Expired rows are returned on purpose: expiry policy belongs to the auth
	// flow, which revokes on sight. Revoked rows are filtered here.
	query := `
        SELECT id, user_id, token, revoked, created_at, expires_at
        FROM sessions
        WHERE token = $1 AND revoked = FALSE;
    `
	var m models.Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&m.ID,
		&m.UserID,
		&m.Token,
		&m.Revoked,
		&m.CreatedAt,
		&m.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session by token: %w", err)
	}
	session := toDomainSession(m)
	return &session, nil
}

func (r *SessionRepository) RevokeSession(ctx context.Context, token string) error {
	// Idempotent: revoking an already-revoked or unknown token is a no-op.
	_, err := r.db.Exec(ctx, `UPDATE sessions SET revoked = TRUE WHERE token = $1;`, token)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (r *SessionRepository) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < NOW() OR revoked = TRUE;`)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
