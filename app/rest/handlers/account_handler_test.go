package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"account-hub/app/domain"
	mock_port "account-hub/app/mocks"
	apperrors "account-hub/app/utils/errors"
)

func testHandlerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAccountHandlerForTest(t *testing.T) (*AccountHandler, *mock_port.MockAccountUsecase) {
	t.Helper()
	ctrl := gomock.NewController(t)
	account := mock_port.NewMockAccountUsecase(ctrl)
	return NewAccountHandler(account, testHandlerLogger()), account
}

// newSubjectContext builds an echo context carrying the keys the auth
// middleware would have set.
func newSubjectContext(method, path string, tenantID, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("tenant_id", tenantID.String())
	c.Set("user_id", userID.String())
	return c, rec
}

func profileSnapshot(stale bool) *domain.AccountSnapshot {
	return &domain.AccountSnapshot{
		Category:  domain.CategoryProfile,
		Data:      json.RawMessage(`{"display_name":"Taro"}`),
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Stale:     stale,
	}
}

func TestAccountHandler_GetProfile(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name           string
		setupMocks     func(account *mock_port.MockAccountUsecase)
		expectedStatus int
		checkBody      func(t *testing.T, body map[string]any)
	}{
		{
			name: "fresh snapshot served",
			setupMocks: func(account *mock_port.MockAccountUsecase) {
				account.EXPECT().
					GetSnapshot(gomock.Any(), domain.CategoryProfile, tenantID, userID).
					Return(profileSnapshot(false), nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "profile", body["category"])
				assert.Equal(t, false, body["stale"])
				data, ok := body["data"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "Taro", data["display_name"])
			},
		},
		{
			name: "stale snapshot is flagged, not rejected",
			setupMocks: func(account *mock_port.MockAccountUsecase) {
				account.EXPECT().
					GetSnapshot(gomock.Any(), domain.CategoryProfile, tenantID, userID).
					Return(profileSnapshot(true), nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["stale"])
			},
		},
		{
			name: "storage failure returns 500",
			setupMocks: func(account *mock_port.MockAccountUsecase) {
				account.EXPECT().
					GetSnapshot(gomock.Any(), domain.CategoryProfile, tenantID, userID).
					Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "failed to load account data", body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, account := newAccountHandlerForTest(t)
			tt.setupMocks(account)

			c, rec := newSubjectContext(http.MethodGet, "/v1/account/profile", tenantID, userID)

			require.NoError(t, handler.GetProfile(c))
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.checkBody != nil {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				tt.checkBody(t, body)
			}
		})
	}
}

func TestAccountHandler_CategoryRouting(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	handler, account := newAccountHandlerForTest(t)

	account.EXPECT().
		GetSnapshot(gomock.Any(), domain.CategoryBilling, tenantID, userID).
		Return(&domain.AccountSnapshot{Category: domain.CategoryBilling, Data: json.RawMessage(`{}`)}, nil)
	account.EXPECT().
		GetSnapshot(gomock.Any(), domain.CategoryEntitlements, tenantID, userID).
		Return(&domain.AccountSnapshot{Category: domain.CategoryEntitlements, Data: json.RawMessage(`{}`)}, nil)

	c, rec := newSubjectContext(http.MethodGet, "/v1/account/billing", tenantID, userID)
	require.NoError(t, handler.GetBilling(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newSubjectContext(http.MethodGet, "/v1/account/entitlements", tenantID, userID)
	require.NoError(t, handler.GetEntitlements(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountHandler_GetOverview(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	handler, account := newAccountHandlerForTest(t)

	snapshots := []*domain.AccountSnapshot{
		{Category: domain.CategoryProfile, Data: json.RawMessage(`{}`)},
		{Category: domain.CategoryBilling, Data: json.RawMessage(`{}`), Stale: true},
		{Category: domain.CategoryEntitlements, Data: json.RawMessage(`{"entitlements":[]}`)},
	}
	account.EXPECT().
		GetOverview(gomock.Any(), tenantID, userID).
		Return(snapshots, nil)

	c, rec := newSubjectContext(http.MethodGet, "/v1/account/overview", tenantID, userID)

	require.NoError(t, handler.GetOverview(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body OverviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Categories, 3)
	assert.Equal(t, domain.CategoryProfile, body.Categories[0].Category)
	assert.True(t, body.Categories[1].Stale)
}

func TestAccountHandler_Refresh(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("reports per-category outcome", func(t *testing.T) {
		handler, account := newAccountHandlerForTest(t)

		account.EXPECT().
			RefreshAll(gomock.Any(), tenantID, userID).
			Return([]*domain.AccountSnapshot{
				{Category: domain.CategoryProfile, Data: json.RawMessage(`{}`)},
				{Category: domain.CategoryBilling, Data: json.RawMessage(`{}`), Stale: true},
				{Category: domain.CategoryEntitlements, Data: json.RawMessage(`{}`)},
			}, nil)

		c, rec := newSubjectContext(http.MethodPost, "/v1/account/refresh", tenantID, userID)

		require.NoError(t, handler.Refresh(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body RefreshResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Account data refreshed", body.Message)
		require.Len(t, body.Categories, 3)
		// 失敗したカテゴリはstaleのまま返る
		assert.True(t, body.Categories[1].Stale)
	})

	t.Run("storage failure returns 500", func(t *testing.T) {
		handler, account := newAccountHandlerForTest(t)

		account.EXPECT().
			RefreshAll(gomock.Any(), tenantID, userID).
			Return(nil, assert.AnError)

		c, rec := newSubjectContext(http.MethodPost, "/v1/account/refresh", tenantID, userID)

		require.NoError(t, handler.Refresh(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestAccountHandler_MissingSubject(t *testing.T) {
	handler, _ := newAccountHandlerForTest(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/account/profile", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	err := handler.GetProfile(c)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
}
