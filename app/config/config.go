package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the account hub service
type Config struct {
	// Server
	Port     string `env:"PORT" default:"9520"`
	Host     string `env:"HOST" default:"0.0.0.0"`
	LogLevel string `env:"LOG_LEVEL" default:"info"`

	// Database
	DatabaseURL      string `env:"DATABASE_URL" required:"true"`
	DatabaseHost     string `env:"DB_HOST" default:"account-postgres"`
	DatabasePort     string `env:"DB_PORT" default:"5432"`
	DatabaseName     string `env:"DB_NAME" default:"account_hub"`
	DatabaseUser     string `env:"DB_USER" default:"account_hub"`
	DatabasePassword string `env:"DB_PASSWORD" required:"true"`
	DatabaseSSLMode  string `env:"DB_SSL_MODE" default:"require"`

	// Kratos
	KratosPublicURL string `env:"KRATOS_PUBLIC_URL" required:"true"`
	KratosAdminURL  string `env:"KRATOS_ADMIN_URL" required:"true"`

	// Billing upstream
	BillingBaseURL       string        `env:"BILLING_BASE_URL"`
	BillingAPIToken      string        `env:"BILLING_API_TOKEN"`
	BillingWebhookSecret string        `env:"BILLING_WEBHOOK_SECRET"`
	BillingTimeout       time.Duration `env:"BILLING_TIMEOUT" default:"5s"`
	BillingMaxRetries    int           `env:"BILLING_MAX_RETRIES" default:"3"`
	BillingRateLimit     int           `env:"BILLING_RATE_LIMIT" default:"20"`
	BillingMockMode      bool          `env:"BILLING_MOCK_MODE" default:"false"`

	// CRM upstream
	CRMBaseURL       string        `env:"CRM_BASE_URL"`
	CRMAPIToken      string        `env:"CRM_API_TOKEN"`
	CRMWebhookSecret string        `env:"CRM_WEBHOOK_SECRET"`
	CRMTimeout       time.Duration `env:"CRM_TIMEOUT" default:"5s"`
	CRMMaxRetries    int           `env:"CRM_MAX_RETRIES" default:"3"`
	CRMRateLimit     int           `env:"CRM_RATE_LIMIT" default:"20"`
	CRMMockMode      bool          `env:"CRM_MOCK_MODE" default:"false"`

	// Identity webhooks
	IdentityWebhookSecret string `env:"IDENTITY_WEBHOOK_SECRET"`

	// Cache TTLs
	ProfileCacheTTL     time.Duration `env:"PROFILE_CACHE_TTL" default:"15m"`
	BillingCacheTTL     time.Duration `env:"BILLING_CACHE_TTL" default:"5m"`
	EntitlementCacheTTL time.Duration `env:"ENTITLEMENT_CACHE_TTL" default:"5m"`

	// Webhooks
	WebhookMaxBodyBytes int64 `env:"WEBHOOK_MAX_BODY_BYTES" default:"1048576"`

	// Features
	EnableMetrics           bool `env:"ENABLE_METRICS" default:"true"`
	EnableDebugEndpoints    bool `env:"DEBUG_ENDPOINTS" default:"false"`
	EnableBackgroundRefresh bool `env:"ENABLE_BACKGROUND_REFRESH" default:"true"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{}

	// Server configuration
	config.Port = getEnvOrDefault("PORT", "9520")
	config.Host = getEnvOrDefault("HOST", "0.0.0.0")
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Database configuration
	config.DatabaseURL = os.Getenv("DATABASE_URL")
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	config.DatabaseHost = getEnvOrDefault("DB_HOST", "account-postgres")
	config.DatabasePort = getEnvOrDefault("DB_PORT", "5432")
	config.DatabaseName = getEnvOrDefault("DB_NAME", "account_hub")
	config.DatabaseUser = getEnvOrDefault("DB_USER", "account_hub")
	config.DatabasePassword = os.Getenv("DB_PASSWORD")
	if config.DatabasePassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	config.DatabaseSSLMode = getEnvOrDefault("DB_SSL_MODE", "require")

	// Kratos configuration
	config.KratosPublicURL = os.Getenv("KRATOS_PUBLIC_URL")
	if config.KratosPublicURL == "" {
		return nil, fmt.Errorf("KRATOS_PUBLIC_URL is required")
	}

	config.KratosAdminURL = os.Getenv("KRATOS_ADMIN_URL")
	if config.KratosAdminURL == "" {
		return nil, fmt.Errorf("KRATOS_ADMIN_URL is required")
	}

	var err error

	// Billing upstream configuration
	config.BillingBaseURL = os.Getenv("BILLING_BASE_URL")
	config.BillingAPIToken = os.Getenv("BILLING_API_TOKEN")
	config.BillingWebhookSecret = os.Getenv("BILLING_WEBHOOK_SECRET")
	config.BillingTimeout, err = getDurationEnv("BILLING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	config.BillingMaxRetries, err = getIntEnv("BILLING_MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	config.BillingRateLimit, err = getIntEnv("BILLING_RATE_LIMIT", 20)
	if err != nil {
		return nil, err
	}
	config.BillingMockMode = getBoolEnv("BILLING_MOCK_MODE", false)

	// CRM upstream configuration
	config.CRMBaseURL = os.Getenv("CRM_BASE_URL")
	config.CRMAPIToken = os.Getenv("CRM_API_TOKEN")
	config.CRMWebhookSecret = os.Getenv("CRM_WEBHOOK_SECRET")
	config.CRMTimeout, err = getDurationEnv("CRM_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	config.CRMMaxRetries, err = getIntEnv("CRM_MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	config.CRMRateLimit, err = getIntEnv("CRM_RATE_LIMIT", 20)
	if err != nil {
		return nil, err
	}
	config.CRMMockMode = getBoolEnv("CRM_MOCK_MODE", false)

	config.IdentityWebhookSecret = os.Getenv("IDENTITY_WEBHOOK_SECRET")

	// Cache TTL configuration
	config.ProfileCacheTTL, err = getDurationEnv("PROFILE_CACHE_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	config.BillingCacheTTL, err = getDurationEnv("BILLING_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	config.EntitlementCacheTTL, err = getDurationEnv("ENTITLEMENT_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	// Webhook configuration
	maxBody, err := getIntEnv("WEBHOOK_MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return nil, err
	}
	config.WebhookMaxBodyBytes = int64(maxBody)

	// Feature flags
	config.EnableMetrics = getBoolEnv("ENABLE_METRICS", true)
	config.EnableDebugEndpoints = getBoolEnv("DEBUG_ENDPOINTS", false)
	config.EnableBackgroundRefresh = getBoolEnv("ENABLE_BACKGROUND_REFRESH", true)

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate port
	port, err := strconv.ParseInt(c.Port, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	// Check port range (1-65535)
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	// Validate log level
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	// Mock mode needs no URL or token; live mode needs both
	if !c.BillingMockMode {
		if c.BillingBaseURL == "" {
			return fmt.Errorf("BILLING_BASE_URL is required when BILLING_MOCK_MODE is disabled")
		}
		if c.BillingWebhookSecret == "" {
			return fmt.Errorf("BILLING_WEBHOOK_SECRET is required when BILLING_MOCK_MODE is disabled")
		}
	}
	if !c.CRMMockMode {
		if c.CRMBaseURL == "" {
			return fmt.Errorf("CRM_BASE_URL is required when CRM_MOCK_MODE is disabled")
		}
		if c.CRMWebhookSecret == "" {
			return fmt.Errorf("CRM_WEBHOOK_SECRET is required when CRM_MOCK_MODE is disabled")
		}
	}

	// Validate retry bounds
	if c.BillingMaxRetries < 1 || c.BillingMaxRetries > 10 {
		return fmt.Errorf("BILLING_MAX_RETRIES must be between 1 and 10, got: %d", c.BillingMaxRetries)
	}
	if c.CRMMaxRetries < 1 || c.CRMMaxRetries > 10 {
		return fmt.Errorf("CRM_MAX_RETRIES must be between 1 and 10, got: %d", c.CRMMaxRetries)
	}

	// Validate cache TTLs (minimum 1 second so refresh storms cannot loop)
	for name, ttl := range map[string]time.Duration{
		"PROFILE_CACHE_TTL":     c.ProfileCacheTTL,
		"BILLING_CACHE_TTL":     c.BillingCacheTTL,
		"ENTITLEMENT_CACHE_TTL": c.EntitlementCacheTTL,
	} {
		if ttl < time.Second {
			return fmt.Errorf("%s must be at least 1 second, got: %v", name, ttl)
		}
	}

	if c.WebhookMaxBodyBytes < 1024 {
		return fmt.Errorf("WEBHOOK_MAX_BODY_BYTES must be at least 1024, got: %d", c.WebhookMaxBodyBytes)
	}

	return nil
}

// CacheTTL returns the configured TTL for a cache category name. Unknown
// names get the shortest TTL so they always read as stale.
func (c *Config) CacheTTL(category string) time.Duration {
	switch category {
	case "profile":
		return c.ProfileCacheTTL
	case "billing":
		return c.BillingCacheTTL
	case "entitlements":
		return c.EntitlementCacheTTL
	default:
		return time.Second
	}
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
