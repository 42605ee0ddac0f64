package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"account-hub/app/config"
	"account-hub/app/domain"
	mock_port "account-hub/app/mocks"
)

func newDebugHandlerForTest(t *testing.T) (*DebugHandler, *mock_port.MockCacheRepositoryPort, *mock_port.MockWebhookUsecase) {
	t.Helper()
	ctrl := gomock.NewController(t)
	cacheRepo := mock_port.NewMockCacheRepositoryPort(ctrl)
	webhooks := mock_port.NewMockWebhookUsecase(ctrl)

	cfg := &config.Config{
		Port:                 "9520",
		LogLevel:             "debug",
		DatabaseHost:         "localhost",
		DatabasePort:         "5432",
		DatabaseName:         "account_hub",
		DatabaseUser:         "account_hub",
		BillingWebhookSecret: "billing-hmac-secret-value",
		ProfileCacheTTL:      15 * time.Minute,
		BillingCacheTTL:      5 * time.Minute,
		EntitlementCacheTTL:  5 * time.Minute,
		WebhookMaxBodyBytes:  1 << 20,
	}

	return NewDebugHandler(cacheRepo, webhooks, cfg, testHandlerLogger()), cacheRepo, webhooks
}

// newDebugContext builds a context carrying both the echo keys and the
// resolved session, the way the auth middleware leaves them.
func newDebugContext(method, path string, tenantID, userID uuid.UUID, role domain.TenantRole) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("tenant_id", tenantID.String())
	c.Set("user_id", userID.String())

	session := &domain.SessionContext{
		UserID:   userID.String(),
		TenantID: tenantID.String(),
		Email:    "debug@example.com",
		Role:     role,
	}
	c.SetRequest(c.Request().WithContext(domain.WithSessionContext(c.Request().Context(), session)))
	return c, rec
}

func TestDebugHandler_DumpCache(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("returns the raw record", func(t *testing.T) {
		handler, cacheRepo, _ := newDebugHandlerForTest(t)

		record, err := domain.NewCacheRecord(tenantID, userID, domain.CategoryBilling,
			json.RawMessage(`{"plan":"pro"}`), time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		cacheRepo.EXPECT().
			GetRecord(gomock.Any(), domain.CategoryBilling, tenantID, userID).
			Return(record, nil)

		c, rec := newDebugContext(http.MethodGet, "/v1/debug/cache/billing", tenantID, userID, domain.TenantRoleAdmin)
		c.SetParamNames("category")
		c.SetParamValues("billing")

		require.NoError(t, handler.DumpCache(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"plan":"pro"`)
	})

	t.Run("unknown category returns 400", func(t *testing.T) {
		handler, _, _ := newDebugHandlerForTest(t)

		c, rec := newDebugContext(http.MethodGet, "/v1/debug/cache/sessions", tenantID, userID, domain.TenantRoleAdmin)
		c.SetParamNames("category")
		c.SetParamValues("sessions")

		require.NoError(t, handler.DumpCache(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing record returns 404", func(t *testing.T) {
		handler, cacheRepo, _ := newDebugHandlerForTest(t)

		cacheRepo.EXPECT().
			GetRecord(gomock.Any(), domain.CategoryProfile, tenantID, userID).
			Return(nil, domain.ErrCacheRecordNotFound)

		c, rec := newDebugContext(http.MethodGet, "/v1/debug/cache/profile", tenantID, userID, domain.TenantRoleAdmin)
		c.SetParamNames("category")
		c.SetParamValues("profile")

		require.NoError(t, handler.DumpCache(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDebugHandler_ListFailedWebhooks(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("admin lists failed events", func(t *testing.T) {
		handler, _, webhooks := newDebugHandlerForTest(t)

		event, err := domain.NewWebhookEvent("billing", "evt_1", domain.EventSubscriptionUpdated,
			json.RawMessage(`{"id":"evt_1"}`))
		require.NoError(t, err)

		webhooks.EXPECT().
			ListFailedEvents(gomock.Any(), 50).
			Return([]*domain.WebhookEvent{event}, nil)

		c, rec := newDebugContext(http.MethodGet, "/v1/debug/webhooks/failed", tenantID, userID, domain.TenantRoleAdmin)

		require.NoError(t, handler.ListFailedWebhooks(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body FailedWebhooksResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Count)
	})

	// メンバーには運用権限がない
	t.Run("member is denied", func(t *testing.T) {
		handler, _, _ := newDebugHandlerForTest(t)

		c, rec := newDebugContext(http.MethodGet, "/v1/debug/webhooks/failed", tenantID, userID, domain.TenantRoleMember)

		require.NoError(t, handler.ListFailedWebhooks(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid limit returns 400", func(t *testing.T) {
		handler, _, _ := newDebugHandlerForTest(t)

		c, rec := newDebugContext(http.MethodGet, "/v1/debug/webhooks/failed?limit=zero", tenantID, userID, domain.TenantRoleOwner)

		require.NoError(t, handler.ListFailedWebhooks(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDebugHandler_DumpConfig(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	handler, _, _ := newDebugHandlerForTest(t)

	c, rec := newDebugContext(http.MethodGet, "/v1/debug/config", tenantID, userID, domain.TenantRoleOwner)

	require.NoError(t, handler.DumpConfig(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body, "systemInfo")
	require.Contains(t, body, "configuration")

	// シークレットの値が応答に出ないこと
	assert.NotContains(t, rec.Body.String(), "billing-hmac-secret-value")

	var configuration ConfigurationStatus
	require.NoError(t, json.Unmarshal(body["configuration"], &configuration))
	assert.Equal(t, "9520", configuration.Port)
	assert.True(t, configuration.WebhookSecrets["billing"])
	assert.False(t, configuration.WebhookSecrets["crm"])
}
