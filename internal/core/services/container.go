package services

import (
	"github.com/shopmobile/storefront_bff/internal/core/ports/gateways"
	portsrepo "github.com/shopmobile/storefront_bff/internal/core/ports/repositories"
	portssvc "github.com/shopmobile/storefront_bff/internal/core/ports/services"
	"github.com/shopmobile/storefront_bff/internal/platform/config"
)

// NewServiceContainer wires the concrete services behind their facades.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	gateway gateways.CustomerGateway,
	mailSender gateways.Mailer,
) *portssvc.ServiceContainer {
	identitySvc := NewIdentityService(repos.UserRepo, gateway)
	authSvc := NewAuthService(
		repos.OTPRepo,
		repos.SessionRepo,
		repos.UserRepo,
		identitySvc,
		gateway,
		mailSender,
		cfg.SessionSecret,
		cfg.SessionExpiryDuration,
		cfg.SessionIssuer,
		cfg.OTPExpiryDuration,
	)

	return &portssvc.ServiceContainer{
		Auth:     authSvc,
		Identity: identitySvc,
		Cart:     NewCartService(repos.CartRepo),
		Order:    NewOrderService(repos.CartRepo, repos.OrderRepo, repos.UserRepo, gateway),
	}
}
