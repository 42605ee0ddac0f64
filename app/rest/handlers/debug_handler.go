package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"account-hub/app/config"
	"account-hub/app/domain"
	"account-hub/app/port"
	apperrors "account-hub/app/utils/errors"
)

// DebugHandler handles diagnostic endpoints. Only mounted when
// DEBUG_ENDPOINTS is enabled.
type DebugHandler struct {
	cacheRepo      port.CacheRepositoryPort
	webhookUsecase port.WebhookUsecase
	cfg            *config.Config
	logger         *slog.Logger
}

// NewDebugHandler creates a new debug handler
func NewDebugHandler(
	cacheRepo port.CacheRepositoryPort,
	webhookUsecase port.WebhookUsecase,
	cfg *config.Config,
	logger *slog.Logger,
) *DebugHandler {
	return &DebugHandler{
		cacheRepo:      cacheRepo,
		webhookUsecase: webhookUsecase,
		cfg:            cfg,
		logger:         logger,
	}
}

// SystemInfo describes the running process
type SystemInfo struct {
	ServiceName   string `json:"serviceName"`
	Version       string `json:"version"`
	GoVersion     string `json:"goVersion"`
	NumGoroutines int    `json:"numGoroutines"`
	MemoryUsage   string `json:"memoryUsage"`
	Uptime        string `json:"uptime"`
}

// ConfigurationStatus is the redacted configuration dump. Secrets are
// reported as present or absent, never echoed.
type ConfigurationStatus struct {
	Port                    string            `json:"port"`
	LogLevel                string            `json:"logLevel"`
	DatabaseConfig          string            `json:"databaseConfig"`
	KratosURLs              []string          `json:"kratosUrls"`
	BillingBaseURL          string            `json:"billingBaseUrl"`
	BillingMockMode         bool              `json:"billingMockMode"`
	CRMBaseURL              string            `json:"crmBaseUrl"`
	CRMMockMode             bool              `json:"crmMockMode"`
	CacheTTLs               map[string]string `json:"cacheTtls"`
	WebhookMaxBodyBytes     int64             `json:"webhookMaxBodyBytes"`
	WebhookSecrets          map[string]bool   `json:"webhookSecretsConfigured"`
	EnableMetrics           bool              `json:"enableMetrics"`
	EnableBackgroundRefresh bool              `json:"enableBackgroundRefresh"`
}

// FailedWebhooksResponse lists terminally failed deliveries
type FailedWebhooksResponse struct {
	Count  int                    `json:"count"`
	Events []*domain.WebhookEvent `json:"events"`
}

var debugStartTime = time.Now()

// DumpCache returns the raw cache record for one category of the current
// (tenant, user)
// GET /v1/debug/cache/:category
func (h *DebugHandler) DumpCache(c echo.Context) error {
	category, err := domain.ParseDataCategory(c.Param("category"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "unknown category",
			Details: c.Param("category"),
		})
	}

	tenantStr, _ := c.Get("tenant_id").(string)
	userStr, _ := c.Get("user_id").(string)
	tenantID, err := uuid.Parse(tenantStr)
	if err != nil {
		return apperrors.NewUnauthorized("no tenant resolved for request")
	}
	userID, err := uuid.Parse(userStr)
	if err != nil {
		return apperrors.NewUnauthorized("no user resolved for request")
	}

	record, err := h.cacheRepo.GetRecord(c.Request().Context(), category, tenantID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCacheRecordNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "no cached record",
			})
		}
		h.logger.Error("cache dump failed", "category", category, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to read cache record",
		})
	}

	return c.JSON(http.StatusOK, record)
}

// ListFailedWebhooks returns terminally failed webhook deliveries
// GET /v1/debug/webhooks/failed
func (h *DebugHandler) ListFailedWebhooks(c echo.Context) error {
	session, err := domain.SessionFromContext(c.Request().Context())
	if err != nil {
		return apperrors.NewUnauthorized("no session on request context")
	}
	// 失敗イベントには生ペイロードが含まれるので運用権限が要る
	if !session.HasPermission(domain.PermissionOpsReplay) {
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error: "insufficient permissions",
		})
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid limit",
				Details: raw,
			})
		}
		limit = parsed
	}

	events, err := h.webhookUsecase.ListFailedEvents(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("failed webhook listing failed", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list webhook events",
		})
	}

	return c.JSON(http.StatusOK, FailedWebhooksResponse{
		Count:  len(events),
		Events: events,
	})
}

// DumpConfig returns the redacted runtime configuration
// GET /v1/debug/config
func (h *DebugHandler) DumpConfig(c echo.Context) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	systemInfo := SystemInfo{
		ServiceName:   "account-hub",
		Version:       "1.0.0",
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		MemoryUsage:   fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
		Uptime:        time.Since(debugStartTime).String(),
	}

	configuration := ConfigurationStatus{
		Port:     h.cfg.Port,
		LogLevel: h.cfg.LogLevel,
		DatabaseConfig: fmt.Sprintf("%s@%s:%s/%s",
			h.cfg.DatabaseUser, h.cfg.DatabaseHost, h.cfg.DatabasePort, h.cfg.DatabaseName),
		KratosURLs:      []string{h.cfg.KratosPublicURL, h.cfg.KratosAdminURL},
		BillingBaseURL:  h.cfg.BillingBaseURL,
		BillingMockMode: h.cfg.BillingMockMode,
		CRMBaseURL:      h.cfg.CRMBaseURL,
		CRMMockMode:     h.cfg.CRMMockMode,
		CacheTTLs: map[string]string{
			"profile":      h.cfg.ProfileCacheTTL.String(),
			"billing":      h.cfg.BillingCacheTTL.String(),
			"entitlements": h.cfg.EntitlementCacheTTL.String(),
		},
		WebhookMaxBodyBytes: h.cfg.WebhookMaxBodyBytes,
		WebhookSecrets: map[string]bool{
			"billing":  h.cfg.BillingWebhookSecret != "",
			"crm":      h.cfg.CRMWebhookSecret != "",
			"identity": h.cfg.IdentityWebhookSecret != "",
		},
		EnableMetrics:           h.cfg.EnableMetrics,
		EnableBackgroundRefresh: h.cfg.EnableBackgroundRefresh,
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"systemInfo":    systemInfo,
		"configuration": configuration,
	})
}
