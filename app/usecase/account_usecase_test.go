package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"account-hub/app/config"
	"account-hub/app/domain"
	mock_port "account-hub/app/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func cacheTestConfig() *config.Config {
	return &config.Config{
		ProfileCacheTTL:     15 * time.Minute,
		BillingCacheTTL:     5 * time.Minute,
		EntitlementCacheTTL: 5 * time.Minute,
	}
}

type accountMocks struct {
	cacheRepo *mock_port.MockCacheRepositoryPort
	billing   *mock_port.MockBillingGateway
	crm       *mock_port.MockCRMGateway
}

func newAccountUsecaseForTest(t *testing.T) (*AccountUsecase, *accountMocks) {
	ctrl := gomock.NewController(t)
	m := &accountMocks{
		cacheRepo: mock_port.NewMockCacheRepositoryPort(ctrl),
		billing:   mock_port.NewMockBillingGateway(ctrl),
		crm:       mock_port.NewMockCRMGateway(ctrl),
	}

	u := NewAccountUsecase(m.cacheRepo, m.billing, m.crm, NewSingleflightCoordinator(), cacheTestConfig(), testLogger())
	return u, m
}

func billingRecord(tenantID, userID uuid.UUID, payload string, updatedAt time.Time) *domain.CacheRecord {
	return &domain.CacheRecord{
		TenantID:  tenantID,
		UserID:    userID,
		Category:  domain.CategoryBilling,
		Payload:   json.RawMessage(payload),
		UpdatedAt: updatedAt,
	}
}

func TestAccountUsecase_GetSnapshot(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("fresh cache record is served without contacting upstream", func(t *testing.T) {
		u, m := newAccountUsecaseForTest(t)

		record := billingRecord(tenantID, userID, `{"plan":"pro"}`, time.Now())
		m.cacheRepo.EXPECT().
			GetRecord(gomock.Any(), domain.CategoryBilling, tenantID, userID).
			Return(record, nil)

		snapshot, err := u.GetSnapshot(context.Background(), domain.CategoryBilling, tenantID, userID)

		require.NoError(t, err)
		assert.Equal(t, domain.CategoryBilling, snapshot.Category)
		assert.JSONEq(t, `{"plan":"pro"}`, string(snapshot.Data))
		assert.False(t, snapshot.Stale)
	})

	t.Run("stale record is refreshed from upstream and upserted", func(t *testing.T) {
		u, m := newAccountUsecaseForTest(t)

		stale := billingRecord(tenantID, userID, `{"plan":"old"}`, time.Now().Add(-time.Hour))
		m.cacheRepo.EXPECT().
			GetRecord(gomock.Any(), domain.CategoryBilling, tenantID, userID).
			Return(stale, nil).
			Times(2) // 読み取りとフライト内の再確認
		m.billing.EXPECT().
			FetchBillingSummary(gomock.Any(), tenantID, userID).
			Return(json.RawMessage(`{"plan":"pro"}`), nil)

		var upserted *domain.CacheRecord
		m.cacheRepo.EXPECT().
			UpsertRecord(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, record *domain.CacheRecord) error {
				upserted = record
				return nil
			})

		snapshot, err := u.GetSnapshot(context.Background(), domain.CategoryBilling, tenantID, userID)

		require.NoError(t, err)
		assert.JSONEq(t, `{"plan":"pro"}`, string(snapshot.Data))
		assert.False(t, snapshot.Stale)

		require.NotNil(t, upserted)
		assert.Equal(t, domain.CategoryBilling, upserted.Category)
		assert.JSONEq(t, `{"plan":"pro"}`, string(upserted.Payload))
	})

	t.Run("missing record is fetched and cached", func(t *testing.T) {
		u, m := newAccountUsecaseForTest(t)

		m.cacheRepo.EXPECT().
			GetRecord(gomock.Any(), domain.CategoryProfile, tenantID, userID).
			Return(nil, domain.ErrCacheRecordNotFound).
			Times(2)
		m.crm.EXPECT().
			FetchProfile(gomock.Any(), tenantID, userID).
			Return(json.RawMessage(`{"display_name":"Aya"}`), nil)
		m.cacheRepo.EXPECT().
			UpsertRecord(gomock.Any(), gomock.Any()).
			Return(nil)

		snapshot, err := u.GetSnapshot(context.Background(), domain.CategoryProfile, tenantID, userID)

		require.NoError(t, err)
		assert.JSONEq(t, `{"display_name":"Aya"}`, string(snapshot.Data))
		assert.False(t, snapshot.Stale)
	})

	t.Run("upstream failure falls back to the stale copy", func(t *testing.T) {
		u, m := newAccountUsecaseForTest(t)

		stale := billingRecord(tenantID, userID, `{"plan":"old"}`, time.Now().Add(-time.Hour))
		m.cacheRepo.EXPECT().
			GetRecord(gomock.Any(), domain.CategoryBilling, tenantID, userID).
			Return(stale, nil).
			Times(2)
		m.billing.EXPECT().
			FetchBillingSummary(gomock.Any(), tenantID, userID).
			Return(nil, domain.ErrUpstreamUnavailable)

		snapshot, err := u.GetSnapshot(context.Background(), domain.CategoryBilling, tenantID, userID)

		require.NoError(t, err, "upstream failures must not fail the read")
		assert.JSONEq(t, `{"plan":"old"}`, string(snapshot.Data))
		assert.True(t, snapshot.Stale)
	})

	t.Run("upstream failure with no cached copy persists a placeholder", func(t *testing.T) {
		u, m := newAccountUsecaseForTest(t)

		m.cacheRepo.EXPECT().
			GetRecord(gomock.Any(), domain.CategoryEntitlements, tenantID, userID).
			Return(nil, domain.ErrCacheRecordNotFound).
			Times(2)
		m.billing.EXPECT().
			FetchEntitlements(gomock.Any(), tenantID, userID).
			Return(nil, domain.ErrUpstreamUnavailable)

		var placeholder *domain.CacheRecord
		m.cacheRepo.EXPECT().
			UpsertRecord(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, record *domain.CacheRecord) error {
				placeholder = record
				return nil
			})

		snapshot, err := u.GetSnapshot(context.Background(), domain.CategoryEntitlements, tenantID, userID)

		require.NoError(t, err)
		// 新規ユーザーは資格なしとして扱う
		assert.JSONEq(t, `{"entitlements":[]}`, string(snapshot.Data))
		assert.False(t, snapshot.Stale)

		require.NotNil(t, placeholder)
		assert.JSONEq(t, `{"entitlements":[]}`, string(placeholder.Payload))
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		u, _ := newAccountUsecaseForTest(t)

		snapshot, err := u.GetSnapshot(context.Background(), domain.DataCategory("orders"), tenantID, userID)

		assert.Nil(t, snapshot)
		assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	})

	t.Run("cache read failure propagates", func(t *testing.T) {
		u, m := newAccountUsecaseForTest(t)

		m.cacheRepo.EXPECT().
			GetRecord(gomock.Any(), domain.CategoryBilling, tenantID, userID).
			Return(nil, assert.AnError)

		snapshot, err := u.GetSnapshot(context.Background(), domain.CategoryBilling, tenantID, userID)

		assert.Nil(t, snapshot)
		assert.Error(t, err)
	})
}

func TestAccountUsecase_GetSnapshot_CollapsesConcurrentRefreshes(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	u, m := newAccountUsecaseForTest(t)

	stale := billingRecord(tenantID, userID, `{"plan":"old"}`, time.Now().Add(-time.Hour))
	m.cacheRepo.EXPECT().
		GetRecord(gomock.Any(), domain.CategoryBilling, tenantID, userID).
		Return(stale, nil).
		AnyTimes()

	fetchStarted := make(chan struct{})
	release := make(chan struct{})

	// Times(1) is the property under test: ten concurrent readers, one fetch.
	m.billing.EXPECT().
		FetchBillingSummary(gomock.Any(), tenantID, userID).
		DoAndReturn(func(context.Context, uuid.UUID, uuid.UUID) (json.RawMessage, error) {
			close(fetchStarted)
			<-release
			return json.RawMessage(`{"plan":"pro"}`), nil
		}).
		Times(1)
	m.cacheRepo.EXPECT().
		UpsertRecord(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	var wg sync.WaitGroup
	snapshots := make([]*domain.AccountSnapshot, 10)

	wg.Add(1)
	go func() {
		defer wg.Done()
		snapshot, err := u.GetSnapshot(context.Background(), domain.CategoryBilling, tenantID, userID)
		if assert.NoError(t, err) {
			snapshots[0] = snapshot
		}
	}()

	<-fetchStarted

	for i := 1; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snapshot, err := u.GetSnapshot(context.Background(), domain.CategoryBilling, tenantID, userID)
			if assert.NoError(t, err) {
				snapshots[i] = snapshot
			}
		}(i)
	}

	// フライト中の取得が合流するのを待つ
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, snapshot := range snapshots {
		require.NotNil(t, snapshot)
		assert.JSONEq(t, `{"plan":"pro"}`, string(snapshot.Data))
	}
}

func TestAccountUsecase_GetOverview(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	u, m := newAccountUsecaseForTest(t)

	now := time.Now()
	m.cacheRepo.EXPECT().
		GetRecord(gomock.Any(), domain.CategoryProfile, tenantID, userID).
		Return(&domain.CacheRecord{TenantID: tenantID, UserID: userID, Category: domain.CategoryProfile, Payload: json.RawMessage(`{"display_name":"Aya"}`), UpdatedAt: now}, nil)
	m.cacheRepo.EXPECT().
		GetRecord(gomock.Any(), domain.CategoryBilling, tenantID, userID).
		Return(&domain.CacheRecord{TenantID: tenantID, UserID: userID, Category: domain.CategoryBilling, Payload: json.RawMessage(`{"plan":"pro"}`), UpdatedAt: now}, nil)
	m.cacheRepo.EXPECT().
		GetRecord(gomock.Any(), domain.CategoryEntitlements, tenantID, userID).
		Return(&domain.CacheRecord{TenantID: tenantID, UserID: userID, Category: domain.CategoryEntitlements, Payload: json.RawMessage(`{"entitlements":["api"]}`), UpdatedAt: now}, nil)

	snapshots, err := u.GetOverview(context.Background(), tenantID, userID)

	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, domain.CategoryProfile, snapshots[0].Category)
	assert.Equal(t, domain.CategoryBilling, snapshots[1].Category)
	assert.Equal(t, domain.CategoryEntitlements, snapshots[2].Category)
}

func TestAccountUsecase_RefreshAll(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	u, m := newAccountUsecaseForTest(t)

	// Records are fresh; a forced refresh must hit upstream anyway.
	now := time.Now()
	m.cacheRepo.EXPECT().
		GetRecord(gomock.Any(), gomock.Any(), tenantID, userID).
		DoAndReturn(func(_ context.Context, category domain.DataCategory, _, _ uuid.UUID) (*domain.CacheRecord, error) {
			return &domain.CacheRecord{TenantID: tenantID, UserID: userID, Category: category, Payload: json.RawMessage(`{}`), UpdatedAt: now}, nil
		}).
		Times(3)

	m.crm.EXPECT().
		FetchProfile(gomock.Any(), tenantID, userID).
		Return(json.RawMessage(`{"display_name":"Aya"}`), nil)
	m.billing.EXPECT().
		FetchBillingSummary(gomock.Any(), tenantID, userID).
		Return(json.RawMessage(`{"plan":"pro"}`), nil)
	m.billing.EXPECT().
		FetchEntitlements(gomock.Any(), tenantID, userID).
		Return(json.RawMessage(`{"entitlements":["api"]}`), nil)
	m.cacheRepo.EXPECT().
		UpsertRecord(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(3)

	snapshots, err := u.RefreshAll(context.Background(), tenantID, userID)

	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	for _, snapshot := range snapshots {
		assert.False(t, snapshot.Stale)
	}
}

func TestAccountUsecase_RefreshAsync(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	u, m := newAccountUsecaseForTest(t)

	m.cacheRepo.EXPECT().
		GetRecord(gomock.Any(), gomock.Any(), tenantID, userID).
		Return(nil, domain.ErrCacheRecordNotFound).
		Times(3)
	m.crm.EXPECT().
		FetchProfile(gomock.Any(), tenantID, userID).
		Return(json.RawMessage(`{}`), nil)
	m.billing.EXPECT().
		FetchBillingSummary(gomock.Any(), tenantID, userID).
		Return(json.RawMessage(`{}`), nil)
	m.billing.EXPECT().
		FetchEntitlements(gomock.Any(), tenantID, userID).
		Return(json.RawMessage(`{}`), nil)

	done := make(chan struct{})
	upserts := 0
	m.cacheRepo.EXPECT().
		UpsertRecord(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *domain.CacheRecord) error {
			upserts++
			if upserts == 3 {
				close(done)
			}
			return nil
		}).
		Times(3)

	u.RefreshAsync(tenantID, userID)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("background refresh did not complete")
	}
}
