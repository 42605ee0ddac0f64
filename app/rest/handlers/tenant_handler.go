package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"account-hub/app/domain"
	"account-hub/app/port"
	apperrors "account-hub/app/utils/errors"
)

// TenantHandler serves tenant membership and switching endpoints
type TenantHandler struct {
	tenantUsecase port.TenantUsecase
	logger        *slog.Logger
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantUsecase port.TenantUsecase, logger *slog.Logger) *TenantHandler {
	return &TenantHandler{
		tenantUsecase: tenantUsecase,
		logger:        logger.With("component", "tenant_handler"),
	}
}

// TenantListResponse lists the tenants the user belongs to
type TenantListResponse struct {
	Tenants []*domain.TenantWithRole `json:"tenants"`
}

// CurrentTenantResponse describes the tenant the session resolved to
type CurrentTenantResponse struct {
	Tenant *domain.Tenant `json:"tenant"`
	Role   string         `json:"role"`
}

// SwitchTenantRequest names the tenant to switch the default to
type SwitchTenantRequest struct {
	TenantID string `json:"tenant_id"`
}

// SwitchTenantResponse carries the re-resolved session after a switch
type SwitchTenantResponse struct {
	Message string                 `json:"message"`
	Session *domain.SessionContext `json:"session"`
}

// List handles tenant listing requests
// @Summary List tenants
// @Description List every active tenant the current user is a member of
// @Tags tenants
// @Produce json
// @Success 200 {object} TenantListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/tenants [get]
func (h *TenantHandler) List(c echo.Context) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return err
	}

	tenants, err := h.tenantUsecase.ListUserTenants(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("tenant listing failed", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list tenants",
		})
	}

	return c.JSON(http.StatusOK, TenantListResponse{Tenants: tenants})
}

// Current handles current tenant requests
// @Summary Get current tenant
// @Description Describe the tenant the current session resolved to
// @Tags tenants
// @Produce json
// @Success 200 {object} CurrentTenantResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/tenants/current [get]
func (h *TenantHandler) Current(c echo.Context) error {
	tenantStr, _ := c.Get("tenant_id").(string)
	tenantID, err := uuid.Parse(tenantStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	tenant, err := h.tenantUsecase.GetTenantByID(c.Request().Context(), tenantID)
	if err != nil {
		h.logger.Error("current tenant lookup failed", "tenant_id", tenantID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to load current tenant",
		})
	}

	role, _ := c.Get("user_role").(string)

	return c.JSON(http.StatusOK, CurrentTenantResponse{
		Tenant: tenant,
		Role:   role,
	})
}

// Switch handles default tenant switching
// @Summary Switch tenant
// @Description Set the default tenant for the current user and re-resolve the session
// @Tags tenants
// @Accept json
// @Produce json
// @Param request body SwitchTenantRequest true "Target tenant"
// @Success 200 {object} SwitchTenantResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /v1/tenants/switch [post]
func (h *TenantHandler) Switch(c echo.Context) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return err
	}

	var req SwitchTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid tenant ID",
			Details: "tenant_id must be a UUID",
		})
	}

	session, err := h.tenantUsecase.SwitchTenant(c.Request().Context(), userID, tenantID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMembershipNotFound):
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "tenant not found",
			})
		case errors.Is(err, domain.ErrTenantDisabled):
			return c.JSON(http.StatusForbidden, ErrorResponse{
				Error: "tenant is disabled",
			})
		case errors.Is(err, domain.ErrTenantNotFound):
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "tenant not found",
			})
		}

		h.logger.Error("tenant switch failed",
			"user_id", userID,
			"tenant_id", tenantID,
			"error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to switch tenant",
		})
	}

	return c.JSON(http.StatusOK, SwitchTenantResponse{
		Message: "Tenant switched",
		Session: session,
	})
}

// Create handles tenant creation
// @Summary Create tenant
// @Description Create a shared tenant owned by the current user
// @Tags tenants
// @Accept json
// @Produce json
// @Param request body domain.CreateTenantRequest true "Tenant to create"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /v1/tenants [post]
func (h *TenantHandler) Create(c echo.Context) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return err
	}

	var req domain.CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid tenant",
			Details: err.Error(),
		})
	}

	tenant, err := h.tenantUsecase.CreateTenant(c.Request().Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid tenant",
				Details: err.Error(),
			})
		case errors.Is(err, domain.ErrTenantSlugTaken):
			return c.JSON(http.StatusConflict, ErrorResponse{
				Error: "slug already taken",
			})
		}

		h.logger.Error("tenant creation failed",
			"user_id", userID,
			"slug", req.Slug,
			"error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to create tenant",
		})
	}

	h.logger.Info("tenant created",
		"tenant_id", tenant.ID,
		"slug", tenant.Slug,
		"owner_id", userID)

	return c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Tenant created",
		Data:    tenant,
	})
}

func (h *TenantHandler) currentUserID(c echo.Context) (uuid.UUID, error) {
	userStr, _ := c.Get("user_id").(string)
	userID, err := uuid.Parse(userStr)
	if err != nil {
		return uuid.Nil, apperrors.NewUnauthorized("no user resolved for request")
	}
	return userID, nil
}
