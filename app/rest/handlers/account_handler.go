package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"account-hub/app/domain"
	"account-hub/app/port"
	apperrors "account-hub/app/utils/errors"
)

// AccountHandler serves aggregated account data out of the cache store.
// Responses carry a stale flag instead of failing when upstreams are down.
type AccountHandler struct {
	accountUsecase port.AccountUsecase
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountUsecase port.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUsecase: accountUsecase,
		logger:         logger.With("component", "account_handler"),
	}
}

// OverviewResponse bundles every category snapshot in one payload
type OverviewResponse struct {
	Categories []*domain.AccountSnapshot `json:"categories"`
}

// RefreshResponse reports the per-category outcome of a forced refresh
type RefreshResponse struct {
	Message    string                    `json:"message"`
	Categories []*domain.AccountSnapshot `json:"categories"`
}

// GetProfile handles profile data requests
// @Summary Get profile data
// @Description Serve the cached profile snapshot for the current tenant, refreshing through upstream if stale
// @Tags account
// @Produce json
// @Success 200 {object} domain.AccountSnapshot
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/account/profile [get]
func (h *AccountHandler) GetProfile(c echo.Context) error {
	return h.serveCategory(c, domain.CategoryProfile)
}

// GetBilling handles billing data requests
// @Summary Get billing data
// @Description Serve the cached billing snapshot for the current tenant, refreshing through upstream if stale
// @Tags account
// @Produce json
// @Success 200 {object} domain.AccountSnapshot
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/account/billing [get]
func (h *AccountHandler) GetBilling(c echo.Context) error {
	return h.serveCategory(c, domain.CategoryBilling)
}

// GetEntitlements handles entitlement data requests
// @Summary Get entitlement data
// @Description Serve the cached entitlement snapshot for the current tenant, refreshing through upstream if stale
// @Tags account
// @Produce json
// @Success 200 {object} domain.AccountSnapshot
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/account/entitlements [get]
func (h *AccountHandler) GetEntitlements(c echo.Context) error {
	return h.serveCategory(c, domain.CategoryEntitlements)
}

// GetOverview handles aggregated account requests
// @Summary Get account overview
// @Description Serve every category snapshot for the current tenant in one call
// @Tags account
// @Produce json
// @Success 200 {object} OverviewResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/account/overview [get]
func (h *AccountHandler) GetOverview(c echo.Context) error {
	tenantID, userID, err := h.subject(c)
	if err != nil {
		return err
	}

	snapshots, err := h.accountUsecase.GetOverview(c.Request().Context(), tenantID, userID)
	if err != nil {
		h.logger.Error("overview load failed",
			"tenant_id", tenantID,
			"user_id", userID,
			"error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to load account overview",
		})
	}

	return c.JSON(http.StatusOK, OverviewResponse{Categories: snapshots})
}

// Refresh handles forced refresh requests
// @Summary Force refresh
// @Description Refresh every category from upstream and report the per-category outcome
// @Tags account
// @Produce json
// @Success 200 {object} RefreshResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/account/refresh [post]
func (h *AccountHandler) Refresh(c echo.Context) error {
	tenantID, userID, err := h.subject(c)
	if err != nil {
		return err
	}

	snapshots, err := h.accountUsecase.RefreshAll(c.Request().Context(), tenantID, userID)
	if err != nil {
		h.logger.Error("forced refresh failed",
			"tenant_id", tenantID,
			"user_id", userID,
			"error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to refresh account data",
		})
	}

	h.logger.Info("forced refresh completed",
		"tenant_id", tenantID,
		"user_id", userID,
		"categories", len(snapshots))

	return c.JSON(http.StatusOK, RefreshResponse{
		Message:    "Account data refreshed",
		Categories: snapshots,
	})
}

func (h *AccountHandler) serveCategory(c echo.Context, category domain.DataCategory) error {
	tenantID, userID, err := h.subject(c)
	if err != nil {
		return err
	}

	snapshot, err := h.accountUsecase.GetSnapshot(c.Request().Context(), category, tenantID, userID)
	if err != nil {
		h.logger.Error("snapshot load failed",
			"category", category,
			"tenant_id", tenantID,
			"user_id", userID,
			"error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to load account data",
		})
	}

	return c.JSON(http.StatusOK, snapshot)
}

// subject reads the resolved (tenant, user) the auth middleware stored on the
// context.
func (h *AccountHandler) subject(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	tenantStr, _ := c.Get("tenant_id").(string)
	userStr, _ := c.Get("user_id").(string)

	tenantID, err := uuid.Parse(tenantStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperrors.NewUnauthorized("no tenant resolved for request")
	}
	userID, err := uuid.Parse(userStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperrors.NewUnauthorized("no user resolved for request")
	}

	return tenantID, userID, nil
}
