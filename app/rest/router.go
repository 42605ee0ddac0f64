package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"account-hub/app/config"
	"account-hub/app/domain"
	"account-hub/app/port"
	"account-hub/app/rest/handlers"
	custommw "account-hub/app/rest/middleware"
	apperrors "account-hub/app/utils/errors"
	"account-hub/app/utils/security"
	"account-hub/app/utils/validator"
)

// RouterConfig holds router configuration
type RouterConfig struct {
	Logger          *slog.Logger
	Config          *config.Config
	AccountUsecase  port.AccountUsecase
	TenantUsecase   port.TenantUsecase
	WebhookUsecase  port.WebhookUsecase
	IdentityGateway port.IdentityGateway
	CacheRepo       port.CacheRepositoryPort
	Dependencies    map[string]handlers.DependencyPinger
}

// NewRouter creates and configures the Echo router
func NewRouter(cfg RouterConfig) *echo.Echo {
	// Create Echo instance
	e := echo.New()

	// Configure Echo
	e.HideBanner = true
	e.Debug = cfg.Config.EnableDebugEndpoints
	e.Validator = validator.New()
	e.HTTPErrorHandler = newHTTPErrorHandler(cfg.Logger)

	// Create handlers
	accountHandler := handlers.NewAccountHandler(cfg.AccountUsecase, cfg.Logger)
	tenantHandler := handlers.NewTenantHandler(cfg.TenantUsecase, cfg.Logger)
	webhookHandler := handlers.NewWebhookHandler(
		cfg.WebhookUsecase,
		buildVerifiers(cfg.Config),
		cfg.Config.WebhookMaxBodyBytes,
		cfg.Logger,
	)
	healthHandler := handlers.NewHealthHandler(cfg.Dependencies, cfg.Logger)

	// Create middleware
	authMiddleware := custommw.NewAuthMiddleware(cfg.IdentityGateway, cfg.TenantUsecase, cfg.Logger)
	securityMiddleware := custommw.NewSecurityMiddleware(nil, cfg.Logger)

	// Create security components
	rateLimiter := custommw.NewRateLimiter()
	ids := security.NewIDS(cfg.Logger)

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(custommw.RequestLoggingMiddleware(cfg.Logger))
	e.Use(custommw.DefaultCORS())
	e.Use(securityMiddleware.Middleware())
	e.Use(rateLimiter.RateLimit())

	// IDS middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			userAgent := c.Request().Header.Get("User-Agent")
			path := c.Request().URL.Path

			// 脅威レベルが上がったIPはパターン解析を待たずに遮断する
			if ids.IsBlocked(ip) {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"error":   "Access denied by security policy",
					"code":    "SECURITY_VIOLATION",
					"details": "Source address blocked due to repeated violations",
				})
			}

			// ボディは解析に使わない(Webhook本文の真正性はHMACで担保される)
			if !ids.AnalyzeRequest(c.Request().Context(), ip, userAgent, path, "") {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"error":   "Access denied by security policy",
					"code":    "SECURITY_VIOLATION",
					"details": "Request blocked due to malicious pattern detection",
				})
			}

			return next(c)
		}
	})

	// API versioning
	v1 := e.Group("/v1")

	// Health endpoints (no auth required)
	health := v1.Group("/health")
	health.GET("", healthHandler.HealthCheck)
	health.GET("/ready", healthHandler.ReadinessCheck)
	health.GET("/live", healthHandler.LivenessCheck)

	// Webhook endpoints: signature verification is the only authentication
	webhooks := v1.Group("/webhooks")
	webhooks.POST("/billing", webhookHandler.ReceiveBilling)
	webhooks.POST("/crm", webhookHandler.ReceiveCRM)
	webhooks.POST("/identity", webhookHandler.ReceiveIdentity)

	// Account endpoints (require authentication)
	account := v1.Group("/account")
	account.Use(authMiddleware.RequireSession())
	account.GET("/profile", accountHandler.GetProfile)
	account.GET("/billing", accountHandler.GetBilling)
	account.GET("/entitlements", accountHandler.GetEntitlements)
	account.GET("/overview", accountHandler.GetOverview)
	account.POST("/refresh", accountHandler.Refresh)

	// Tenant endpoints (require authentication)
	tenants := v1.Group("/tenants")
	tenants.Use(authMiddleware.RequireSession())
	tenants.GET("", tenantHandler.List)
	tenants.GET("/current", tenantHandler.Current)
	tenants.POST("", tenantHandler.Create)
	tenants.POST("/switch", tenantHandler.Switch)

	// Metrics endpoint (if enabled)
	if cfg.Config.EnableMetrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	// Debug endpoints (dev only, behind session auth)
	if cfg.Config.EnableDebugEndpoints {
		debugHandler := handlers.NewDebugHandler(cfg.CacheRepo, cfg.WebhookUsecase, cfg.Config, cfg.Logger)
		debug := v1.Group("/debug")
		debug.Use(authMiddleware.RequireSession())
		debug.GET("/cache/:category", debugHandler.DumpCache)
		debug.GET("/webhooks/failed", debugHandler.ListFailedWebhooks)
		debug.GET("/config", debugHandler.DumpConfig)
	}

	return e
}

// newHTTPErrorHandler renders uncaught errors with the same envelope the
// handlers use. AppError carries its own HTTP status; everything else keeps
// echo's status or falls back to 500.
func newHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if appErr, ok := apperrors.AsAppError(err); ok {
			if writeErr := c.JSON(appErr.StatusCode, handlers.ErrorResponse{
				Error:   appErr.Message,
				Details: appErr.Details,
			}); writeErr != nil {
				logger.Error("error response write failed", "error", writeErr)
			}
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if writeErr := c.JSON(httpErr.Code, handlers.ErrorResponse{
				Error: fmt.Sprintf("%v", httpErr.Message),
			}); writeErr != nil {
				logger.Error("error response write failed", "error", writeErr)
			}
			return
		}

		logger.Error("unhandled error", "path", c.Request().URL.Path, "error", err)
		if writeErr := c.JSON(http.StatusInternalServerError, handlers.ErrorResponse{
			Error: "internal server error",
		}); writeErr != nil {
			logger.Error("error response write failed", "error", writeErr)
		}
	}
}

// buildVerifiers creates one signature verifier per configured webhook
// source. Sources without a secret are left out so their routes answer 503
// instead of accepting unverifiable deliveries.
func buildVerifiers(cfg *config.Config) map[domain.WebhookSource]*security.WebhookVerifier {
	verifiers := make(map[domain.WebhookSource]*security.WebhookVerifier)

	if cfg.BillingWebhookSecret != "" {
		verifiers[domain.WebhookSourceBilling] = security.NewWebhookVerifier(cfg.BillingWebhookSecret)
	}
	if cfg.CRMWebhookSecret != "" {
		verifiers[domain.WebhookSourceCRM] = security.NewWebhookVerifier(cfg.CRMWebhookSecret)
	}
	if cfg.IdentityWebhookSecret != "" {
		verifiers[domain.WebhookSourceIdentity] = security.NewWebhookVerifier(cfg.IdentityWebhookSecret)
	}

	return verifiers
}
