package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/shopmobile/storefront_bff/cmd/docs"
	"github.com/shopmobile/storefront_bff/internal/adapters/shopify"
	"github.com/shopmobile/storefront_bff/internal/core/ports/gateways"
	portssvc "github.com/shopmobile/storefront_bff/internal/core/ports/services"
	"github.com/shopmobile/storefront_bff/internal/middleware"
	"github.com/shopmobile/storefront_bff/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	gateway gateways.CustomerGateway,
	oauthCfg *shopify.OAuthConfig,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"success": true, "message": "Storefront BFF is running"})
	})

	registerAuthRoutes(r, cfg, services, gateway, oauthCfg)
	setupAuthenticatedRoutes(r, services, gateway)
	setupSwaggerRoutes(r, cfg)
}

// registerAuthRoutes sets up the public OTP/session routes.
func registerAuthRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	gateway gateways.CustomerGateway,
	oauthCfg *shopify.OAuthConfig,
) {
	h := newAuthHandler(services.Auth, gateway, cfg.SessionExpiryDuration)
	oh := newOAuthHandler(oauthCfg)

	// Define rate limit: 5 OTP dispatches per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	sessionAuth := middleware.SessionAuthMiddleware(services.Auth)

	auth := r.Group("/auth")
	{
		auth.POST("/send-otp", limitMiddleware, h.sendOTP)
		auth.POST("/send-otp-register", limitMiddleware, h.sendRegisterOTP)
		auth.POST("/verify-otp", h.verifyOTP)
		auth.POST("/register", h.register)
		auth.POST("/validate", h.validate)
		auth.GET("/validate", h.validate)
		auth.POST("/logout", h.logout)
		auth.POST("/add-address", sessionAuth, h.addAddress)
		auth.GET("/install", oh.install)
		auth.GET("/callback", oh.callback)
	}
}

// setupAuthenticatedRoutes configures the session-protected surface.
func setupAuthenticatedRoutes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	gateway gateways.CustomerGateway,
) {
	protected := r.Group("/", middleware.SessionAuthMiddleware(services.Auth))

	registerCartRoutes(protected, services.Cart)
	registerOrderRoutes(protected, services.Order)
	registerCustomerRoutes(protected, gateway)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
