package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopmobile/storefront_bff/internal/apperrors"
	"github.com/shopmobile/storefront_bff/internal/core/domain"
	"github.com/shopmobile/storefront_bff/internal/core/ports/gateways"
	portsrepo "github.com/shopmobile/storefront_bff/internal/core/ports/repositories"
	portssvc "github.com/shopmobile/storefront_bff/internal/core/ports/services"
	"github.com/shopmobile/storefront_bff/internal/middleware"
)

// IdentityService reconciles the locally-owned User row with the
// externally-owned Shopify customer record. The local ID is the primary
// identity; upstream data only ever enriches it.
type IdentityService struct {
	userRepo portsrepo.UserRepositoryFacade
	gateway  gateways.CustomerGateway
}

func NewIdentityService(userRepo portsrepo.UserRepositoryFacade, gateway gateways.CustomerGateway) *IdentityService {
	return &IdentityService{userRepo: userRepo, gateway: gateway}
}

// Ensure IdentityService implements portssvc.IdentitySvcFacade
var _ portssvc.IdentitySvcFacade = (*IdentityService)(nil)

func (s *IdentityService) GetOrCreateUser(ctx context.Context, email string, forceRefresh bool) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	isNew := false
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		user, err = s.createLocalUser(ctx, email, "")
		if err != nil {
			return nil, err
		}
		isNew = true
	}

	api := domain.StorefrontAPI
	if forceRefresh {
		api = domain.AdminAPI
	}

	cust, err := s.gateway.FindCustomerByEmail(ctx, email, api)
	if err != nil {
		// Soft-fail: the cached local row is a valid answer when upstream is
		// down. Only the refresh is lost.
		logger.Warn("Upstream customer lookup failed, serving local record", slog.String("email", email), slog.String("error", err.Error()))
		local := *user
		if local.DataSource == "" {
			local.DataSource = domain.DataSourceLocal
		}
		return &local, nil
	}

	if cust == nil && isNew {
		// The lookup came back empty for a brand-new local user: provision the
		// upstream customer so the two systems converge. Creation is
		// best-effort here; registration has its own hard-fail path.
		cust, err = s.gateway.CreateCustomer(ctx, email, "", "")
		if err != nil {
			logger.Warn("Best-effort upstream customer creation failed", slog.String("email", email), slog.String("error", err.Error()))
			cust = nil
		}
	}

	merged := mergeUser(*user, cust)
	s.persistShopifyFields(ctx, merged)
	return &merged, nil
}

func (s *IdentityService) RegisterUser(ctx context.Context, email, firstName, lastName, phone string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	_, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("user already registered: %w", apperrors.ErrDuplicate)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Registration is the one flow where upstream creation is fatal: a new
	// customer record is the point of the operation.
	cust, err := s.gateway.CreateCustomer(ctx, email, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream customer: %w", err)
	}

	name := cust.Name()
	user, err := s.createLocalUser(ctx, email, name)
	if err != nil {
		return nil, err
	}

	merged := mergeUser(*user, cust)
	if merged.Phone == "" {
		merged.Phone = phone
	}
	s.persistShopifyFields(ctx, merged)

	logger.Info("Registered new user", slog.Int64("user_id", merged.ID), slog.String("shopify_id", merged.ShopifyID))
	return &merged, nil
}

// createLocalUser inserts the user row, treating a unique-constraint race as a
// concurrent win: the other writer's row is fetched and used. An empty name
// defaults to the email's local part.
func (s *IdentityService) createLocalUser(ctx context.Context, email, name string) (*domain.User, error) {
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	user, err := s.userRepo.CreateUser(ctx, email, name)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, apperrors.ErrDuplicate) {
		user, err = s.userRepo.FindUserByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch user after create race: %w", err)
		}
		return user, nil
	}
	return nil, fmt.Errorf("failed to create user: %w", err)
}

// persistShopifyFields writes the denormalized upstream slice back onto the
// user row. Best-effort: a failed write costs freshness, not correctness.
func (s *IdentityService) persistShopifyFields(ctx context.Context, user domain.User) {
	err := s.userRepo.UpdateShopifyFields(ctx, user.Email, domain.ShopifyFields{
		Name:             user.Name,
		Phone:            user.Phone,
		ShopifyID:        user.ShopifyID,
		ShopifyCreatedAt: user.ShopifyCreatedAt,
		NumberOfOrders:   user.NumberOfOrders,
		TotalSpent:       user.TotalSpent,
		DataSource:       user.DataSource,
	})
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to persist denormalized customer fields", slog.Int64("user_id", user.ID), slog.String("error", err.Error()))
	}
}

// mergeUser combines the local row with an upstream record. The local identity
// fields (ID, email, timestamps) always win; upstream fields only replace
// local ones when actually present, so a partial record (the storefront
// placeholder especially) never blanks cached data.
func mergeUser(local domain.User, cust *domain.Customer) domain.User {
	merged := local
	if cust == nil {
		if merged.DataSource == "" {
			merged.DataSource = domain.DataSourceLocal
		}
		return merged
	}

	if name := cust.Name(); name != "" {
		merged.Name = name
	}
	if cust.Phone != "" {
		merged.Phone = cust.Phone
	}
	if cust.ID != "" {
		merged.ShopifyID = cust.ID
	}
	if cust.CreatedAt != nil {
		merged.ShopifyCreatedAt = cust.CreatedAt
	}
	if cust.NumberOfOrders > 0 {
		merged.NumberOfOrders = cust.NumberOfOrders
	}
	if cust.TotalSpent.IsPositive() {
		merged.TotalSpent = cust.TotalSpent
	}
	if cust.DataSource != "" {
		merged.DataSource = cust.DataSource
	}
	return merged
}
