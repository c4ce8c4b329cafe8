package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/domain"
	portsrepo "github.com/shopmobile/storefront_bff/internal/core/ports/repositories"
	"github.com/shopmobile/storefront_bff/internal/models"
)

const uniqueViolationCode = "23505"

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure UserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	u := domain.User{
		ID:             m.ID,
		Email:          m.Email,
		Name:           m.Name,
		NumberOfOrders: m.NumberOfOrders,
		DataSource:     m.DataSource,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Phone.Valid {
		u.Phone = m.Phone.String
	}
	if m.ShopifyID.Valid {
		u.ShopifyID = m.ShopifyID.String
	}
	if m.ShopifyCreatedAt.Valid {
		t := m.ShopifyCreatedAt.Time
		u.ShopifyCreatedAt = &t
	}
	if m.TotalSpent.Valid {
		u.TotalSpent = m.TotalSpent.Decimal
	} else {
		u.TotalSpent = decimal.Zero
	}
	return u
}

const userColumns = `id, email, name, phone, shopify_id, shopify_created_at, number_of_orders, total_spent, data_source, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.ID,
		&m.Email,
		&m.Name,
		&m.Phone,
		&m.ShopifyID,
		&m.ShopifyCreatedAt,
		&m.NumberOfOrders,
		&m.TotalSpent,
		&m.DataSource,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, email, name string) (*domain.User, error) {
	query := `
        INSERT INTO users (email, name, created_at, updated_at)
        VALUES ($1, $2, NOW(), NOW())
        RETURNING ` + userColumns + `;
    `
	m, err := scanUser(r.db.QueryRow(ctx, query, email, name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			// Concurrent create for the same email won the race; caller re-fetches.
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user := toDomainUser(*m)
	return &user, nil
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	m, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	user := toDomainUser(*m)
	return &user, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	m, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %d: %w", userID, err)
	}
	user := toDomainUser(*m)
	return &user, nil
}

func (r *UserRepository) UpdateShopifyFields(ctx context.Context, email string, fields domain.ShopifyFields) error {
	query := `
        UPDATE users
        SET name = COALESCE(NULLIF($1, ''), name),
            phone = COALESCE(NULLIF($2, ''), phone),
            shopify_id = COALESCE(NULLIF($3, ''), shopify_id),
            shopify_created_at = COALESCE($4, shopify_created_at),
            number_of_orders = $5,
            total_spent = $6,
            data_source = $7,
            updated_at = NOW()
        WHERE email = $8;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		fields.Name,
		fields.Phone,
		fields.ShopifyID,
		fields.ShopifyCreatedAt,
		fields.NumberOfOrders,
		fields.TotalSpent,
		fields.DataSource,
		email,
	)
	if err != nil {
		return fmt.Errorf("failed to update shopify fields: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for shopify fields update: %w", apperrors.ErrNotFound)
	}
	return nil
}
