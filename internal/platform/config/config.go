package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. Loaded and validated once at startup;
// nothing reads the process environment after this point.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Shopify upstream
	ShopifyStoreDomain      string
	ShopifyAPIVersion       string
	ShopifyAdminToken       string
	ShopifyStorefrontToken  string
	ShopifyAPIKey           string
	ShopifyAPISecret        string
	ShopifyOAuthRedirectURL string
	ShopifyHTTPTimeout      time.Duration

	// Session / OTP lifecycle
	SessionSecret         string
	SessionExpiryDuration time.Duration
	SessionIssuer         string
	OTPExpiryDuration     time.Duration

	// Email delivery
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	// Observability
	PosthogAPIKey      string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("SHOPIFY_STORE_DOMAIN", "")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-01")
	viper.SetDefault("SHOPIFY_ADMIN_ACCESS_TOKEN", "")
	viper.SetDefault("SHOPIFY_STOREFRONT_ACCESS_TOKEN", "")
	viper.SetDefault("SHOPIFY_API_KEY", "")
	viper.SetDefault("SHOPIFY_API_SECRET", "")
	viper.SetDefault("SHOPIFY_OAUTH_REDIRECT_URL", "")
	viper.SetDefault("SHOPIFY_HTTP_TIMEOUT", "5s")
	viper.SetDefault("SESSION_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("SESSION_EXPIRY_DURATION", "720h")
	viper.SetDefault("SESSION_ISSUER", "storefront-bff")
	viper.SetDefault("OTP_EXPIRY_DURATION", "10m")
	viper.SetDefault("RESEND_API_KEY", "")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SENDER_EMAIL", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL environment variable is required")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.ShopifyStoreDomain = viper.GetString("SHOPIFY_STORE_DOMAIN")
	if cfg.ShopifyStoreDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_STORE_DOMAIN environment variable is required")
	}
	if !strings.HasSuffix(cfg.ShopifyStoreDomain, ".myshopify.com") {
		return nil, fmt.Errorf("SHOPIFY_STORE_DOMAIN %q is not a *.myshopify.com domain", cfg.ShopifyStoreDomain)
	}
	cfg.ShopifyAPIVersion = viper.GetString("SHOPIFY_API_VERSION")
	cfg.ShopifyAdminToken = viper.GetString("SHOPIFY_ADMIN_ACCESS_TOKEN")
	if cfg.ShopifyAdminToken == "" {
		return nil, fmt.Errorf("SHOPIFY_ADMIN_ACCESS_TOKEN environment variable is required")
	}
	cfg.ShopifyStorefrontToken = viper.GetString("SHOPIFY_STOREFRONT_ACCESS_TOKEN")
	if cfg.ShopifyStorefrontToken == "" {
		log.Println("Warning: SHOPIFY_STOREFRONT_ACCESS_TOKEN not set. Session refresh will fall back to the Admin API.")
	}
	cfg.ShopifyAPIKey = viper.GetString("SHOPIFY_API_KEY")
	cfg.ShopifyAPISecret = viper.GetString("SHOPIFY_API_SECRET")
	cfg.ShopifyOAuthRedirectURL = viper.GetString("SHOPIFY_OAUTH_REDIRECT_URL")
	if cfg.ShopifyAPIKey == "" {
		log.Println("Warning: SHOPIFY_API_KEY not set. The OAuth install flow will not function.")
	}

	timeoutStr := viper.GetString("SHOPIFY_HTTP_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		timeout = 5 * time.Second
		if timeoutStr != "" {
			log.Printf("Warning: Invalid value for SHOPIFY_HTTP_TIMEOUT (%q). Defaulting to %s.\n", timeoutStr, timeout)
		}
	}
	cfg.ShopifyHTTPTimeout = timeout

	cfg.SessionSecret = viper.GetString("SESSION_SECRET")
	if cfg.SessionSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: SESSION_SECRET not set. Using default insecure key. THIS IS NOT FOR PRODUCTION.")
	}
	cfg.SessionIssuer = viper.GetString("SESSION_ISSUER")

	sessionExpiryStr := viper.GetString("SESSION_EXPIRY_DURATION")
	sessionExpiry, err := time.ParseDuration(sessionExpiryStr)
	if err != nil {
		sessionExpiry = 30 * 24 * time.Hour
		log.Printf("Warning: Invalid value for SESSION_EXPIRY_DURATION (%q). Defaulting to %s.\n", sessionExpiryStr, sessionExpiry)
	}
	cfg.SessionExpiryDuration = sessionExpiry

	otpExpiryStr := viper.GetString("OTP_EXPIRY_DURATION")
	otpExpiry, err := time.ParseDuration(otpExpiryStr)
	if err != nil {
		otpExpiry = 10 * time.Minute
		log.Printf("Warning: Invalid value for OTP_EXPIRY_DURATION (%q). Defaulting to %s.\n", otpExpiryStr, otpExpiry)
	}
	cfg.OTPExpiryDuration = otpExpiry

	cfg.ResendAPIKey = viper.GetString("RESEND_API_KEY")
	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetString("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.SenderEmail = viper.GetString("SENDER_EMAIL")
	if cfg.IsProduction && cfg.ResendAPIKey == "" {
		log.Println("Warning: RESEND_API_KEY not set in production. OTP emails will go through SMTP.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.CORSAllowedOrigins = strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",")

	return cfg, nil
}
