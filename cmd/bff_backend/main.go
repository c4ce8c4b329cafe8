package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shopmobile/storefront_bff/internal/adapters/database/pgsql"
	"github.com/shopmobile/storefront_bff/internal/adapters/mailer"
	"github.com/shopmobile/storefront_bff/internal/adapters/shopify"
	portsrepo "github.com/shopmobile/storefront_bff/internal/core/ports/repositories"
	"github.com/shopmobile/storefront_bff/internal/core/services"
	"github.com/shopmobile/storefront_bff/internal/handlers"
	"github.com/shopmobile/storefront_bff/internal/middleware"
	"github.com/shopmobile/storefront_bff/internal/platform/config"
	"github.com/shopmobile/storefront_bff/internal/utils"
	"github.com/shopmobile/storefront_bff/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Storefront BFF API
// @version 1.0
// @description Backend-for-frontend bridging the mobile storefront app to Shopify.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	// Defer closing the connection pool
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	// --- Run Database Migrations ---
	logger.Info("Running database migrations...")
	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	// Create a postgres driver instance for migrate
	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	migrationsPath := "file://migrations"

	m, err := migrate.NewWithDatabaseInstance(
		migrationsPath,
		"postgres", // Database name used by migrate
		driver,
	)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Apply all available "up" migrations
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Check for dirty migrations after running Up.
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		os.Exit(1)
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		os.Exit(1)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	// --- End Database Migrations ---

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Posthog analytics (no-op when the API key is empty)
	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()
	r.Use(middleware.PosthogMiddleware(posthogClient))

	// Shopify upstream
	gateway := shopify.NewGateway(shopify.Config{
		StoreDomain:     cfg.ShopifyStoreDomain,
		APIVersion:      cfg.ShopifyAPIVersion,
		AdminToken:      cfg.ShopifyAdminToken,
		StorefrontToken: cfg.ShopifyStorefrontToken,
		Timeout:         cfg.ShopifyHTTPTimeout,
	})

	var oauthCfg *shopify.OAuthConfig
	if cfg.ShopifyAPIKey != "" {
		oauthCfg = shopify.NewOAuthConfig(cfg.ShopifyStoreDomain, cfg.ShopifyAPIKey, cfg.ShopifyAPISecret, cfg.ShopifyOAuthRedirectURL)
	}

	mailSender := mailer.NewMailerFromConfig(cfg)

	repos := portsrepo.RepositoryProvider{
		UserRepo:    pgsql.NewUserRepository(dbPool),
		OTPRepo:     pgsql.NewOTPRepository(dbPool),
		SessionRepo: pgsql.NewSessionRepository(dbPool),
		CartRepo:    pgsql.NewCartRepository(dbPool),
		OrderRepo:   pgsql.NewOrderRepository(dbPool),
	}

	container := services.NewServiceContainer(cfg, repos, gateway, mailSender)

	handlers.RegisterRoutes(r, cfg, container, gateway, oauthCfg)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
