package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"account-hub/app/config"
	"account-hub/app/driver/kratos"
	"account-hub/app/driver/postgres"
	"account-hub/app/utils/logger"
)

const (
	// Test environment configuration
	TestPostgresHost     = "localhost"
	TestPostgresPort     = "5433"
	TestPostgresDB       = "account_hub_test"
	TestPostgresUser     = "account_hub_test"
	TestPostgresPassword = "test_password"
	TestPostgresSSLMode  = "disable"

	TestKratosPublicURL = "http://localhost:4433"
	TestKratosAdminURL  = "http://localhost:4434"

	TestServiceURL = "http://localhost:9520"

	TestBillingWebhookSecret  = "billing-integration-secret"
	TestCRMWebhookSecret      = "crm-integration-secret"
	TestIdentityWebhookSecret = "identity-integration-secret"
)

// TestConfig creates a configuration for integration tests
func TestConfig() *config.Config {
	return &config.Config{
		// Server
		Port:     "9520",
		Host:     "0.0.0.0",
		LogLevel: "debug",

		// Database
		DatabaseURL:      fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", TestPostgresUser, TestPostgresPassword, TestPostgresHost, TestPostgresPort, TestPostgresDB, TestPostgresSSLMode),
		DatabaseHost:     TestPostgresHost,
		DatabasePort:     TestPostgresPort,
		DatabaseName:     TestPostgresDB,
		DatabaseUser:     TestPostgresUser,
		DatabasePassword: TestPostgresPassword,
		DatabaseSSLMode:  TestPostgresSSLMode,

		// Kratos
		KratosPublicURL: TestKratosPublicURL,
		KratosAdminURL:  TestKratosAdminURL,

		// Upstreams run in mock mode so tests need no live billing or CRM
		BillingMockMode:   true,
		BillingTimeout:    5 * time.Second,
		BillingMaxRetries: 3,
		BillingRateLimit:  20,
		CRMMockMode:       true,
		CRMTimeout:        5 * time.Second,
		CRMMaxRetries:     3,
		CRMRateLimit:      20,

		// Webhooks
		BillingWebhookSecret:  TestBillingWebhookSecret,
		CRMWebhookSecret:      TestCRMWebhookSecret,
		IdentityWebhookSecret: TestIdentityWebhookSecret,
		WebhookMaxBodyBytes:   1 << 20,

		// Cache staleness
		ProfileCacheTTL:     15 * time.Minute,
		BillingCacheTTL:     5 * time.Minute,
		EntitlementCacheTTL: 5 * time.Minute,

		// Features
		EnableMetrics:        true,
		EnableDebugEndpoints: true,
	}
}

// TestDatabaseConnection creates a database connection for integration tests
func TestDatabaseConnection() (*pgxpool.Pool, error) {
	cfg := TestConfig()

	// Create logger
	testLogger, err := logger.New("debug")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Create database connection
	db, err := postgres.NewConnection(cfg, testLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	return db.Pool(), nil
}

// TestKratosClient creates a Kratos client for integration tests
func TestKratosClient() (*kratos.Client, error) {
	cfg := TestConfig()

	// Create logger
	testLogger, err := logger.New("debug")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Create Kratos client
	return kratos.NewClient(cfg, testLogger)
}

// WaitForService waits for a service to be healthy
func WaitForService(ctx context.Context, healthCheckFunc func(context.Context) error, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if err := healthCheckFunc(ctx); err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
			// Continue waiting
		}
	}

	return fmt.Errorf("service did not become healthy within %v", timeout)
}

// WaitForDatabase waits for the database to be ready
func WaitForDatabase(ctx context.Context) error {
	return WaitForService(ctx, func(ctx context.Context) error {
		pool, err := TestDatabaseConnection()
		if err != nil {
			return err
		}
		defer pool.Close()

		return pool.Ping(ctx)
	}, 30*time.Second)
}

// WaitForKratos waits for Kratos to be ready
func WaitForKratos(ctx context.Context) error {
	return WaitForService(ctx, func(ctx context.Context) error {
		client, err := TestKratosClient()
		if err != nil {
			return err
		}

		return client.HealthCheck(ctx)
	}, 60*time.Second)
}

// CleanupTestData cleans up test data from the database
func CleanupTestData(ctx context.Context) error {
	pool, err := TestDatabaseConnection()
	if err != nil {
		return err
	}
	defer pool.Close()

	// Clean up in reverse order of dependencies
	cleanupQueries := []string{
		"DELETE FROM webhook_events WHERE provider_event_id LIKE 'evt_test_%'",
		"DELETE FROM profile_cache WHERE user_id IN (SELECT id FROM users WHERE email LIKE '%@example.com')",
		"DELETE FROM billing_cache WHERE user_id IN (SELECT id FROM users WHERE email LIKE '%@example.com')",
		"DELETE FROM entitlement_cache WHERE user_id IN (SELECT id FROM users WHERE email LIKE '%@example.com')",
		"DELETE FROM memberships WHERE user_id IN (SELECT id FROM users WHERE email LIKE '%@example.com')",
		"DELETE FROM tenants WHERE owner_user_id IN (SELECT id FROM users WHERE email LIKE '%@example.com')",
		"DELETE FROM tenants WHERE slug LIKE 'test-%'",
		"DELETE FROM users WHERE email LIKE '%@example.com'",
	}

	for _, query := range cleanupQueries {
		if _, err := pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute cleanup query: %w", err)
		}
	}

	return nil
}
