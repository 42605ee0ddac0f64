package di

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"account-hub/app/config"
	"account-hub/app/driver/billing"
	"account-hub/app/driver/crm"
	"account-hub/app/driver/kratos"
	"account-hub/app/driver/postgres"
	"account-hub/app/gateway"
	"account-hub/app/port"
	"account-hub/app/rest"
	"account-hub/app/rest/handlers"
	"account-hub/app/usecase"
)

// Container holds all dependencies for the application
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Drivers
	DB           *postgres.DB
	KratosClient *kratos.Client

	// Gateways
	BillingGateway  port.BillingGateway
	CRMGateway      port.CRMGateway
	IdentityGateway port.IdentityGateway

	// Repositories
	CacheRepo      port.CacheRepositoryPort
	UserRepo       port.UserRepositoryPort
	TenantRepo     port.TenantRepositoryPort
	MembershipRepo port.MembershipRepositoryPort
	WebhookRepo    port.WebhookEventRepositoryPort

	// Usecases
	AccountUsecase port.AccountUsecase
	TenantUsecase  port.TenantUsecase
	WebhookUsecase port.WebhookUsecase
}

// NewContainer creates and initializes a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: logger,
	}

	// Initialize drivers
	var err error

	// Initialize database connection
	container.DB, err = postgres.NewConnection(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Kratos client
	container.KratosClient, err = kratos.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Kratos client: %w", err)
	}

	// Initialize repositories
	pool := container.DB.Pool()
	container.CacheRepo = postgres.NewCacheRepository(pool, logger)
	container.UserRepo = postgres.NewUserRepository(pool, logger)
	container.TenantRepo = postgres.NewTenantRepository(pool, logger)
	container.MembershipRepo = postgres.NewMembershipRepository(pool, logger)
	container.WebhookRepo = postgres.NewWebhookEventRepository(pool, logger)

	// Initialize upstream clients and gateways
	container.BillingGateway = gateway.NewBillingGateway(billing.NewClient(cfg, logger), logger)
	container.CRMGateway = gateway.NewCRMGateway(crm.NewClient(cfg, logger), logger)
	container.IdentityGateway = gateway.NewIdentityGateway(container.KratosClient, logger)

	// Initialize usecases
	// TenantUsecaseはキャッシュ予熱のためAccountUsecaseに依存する
	coordinator := usecase.NewSingleflightCoordinator()
	container.AccountUsecase = usecase.NewAccountUsecase(
		container.CacheRepo,
		container.BillingGateway,
		container.CRMGateway,
		coordinator,
		cfg,
		logger,
	)
	container.WebhookUsecase = usecase.NewWebhookUsecase(
		container.WebhookRepo,
		container.CacheRepo,
		container.UserRepo,
		container.IdentityGateway,
		logger,
	)
	container.TenantUsecase = usecase.NewTenantUsecase(
		container.UserRepo,
		container.TenantRepo,
		container.MembershipRepo,
		container.AccountUsecase,
		logger,
	)

	logger.Info("Container initialized with full dependency stack")

	return container, nil
}

// CreateRouter creates and returns a fully configured Echo router
func (c *Container) CreateRouter() *echo.Echo {
	routerConfig := rest.RouterConfig{
		Logger:          c.Logger,
		Config:          c.Config,
		AccountUsecase:  c.AccountUsecase,
		TenantUsecase:   c.TenantUsecase,
		WebhookUsecase:  c.WebhookUsecase,
		IdentityGateway: c.IdentityGateway,
		CacheRepo:       c.CacheRepo,
		Dependencies: map[string]handlers.DependencyPinger{
			"database": c.DB,
			"kratos":   c.KratosClient,
		},
	}

	router := rest.NewRouter(routerConfig)

	c.Logger.Info("Full API router created")
	return router
}

// Close closes all resources
func (c *Container) Close() error {
	// Close database connection
	if c.DB != nil {
		c.DB.Close()
	}

	// Note: Kratos client doesn't need explicit cleanup

	c.Logger.Info("Container closed successfully")
	return nil
}
