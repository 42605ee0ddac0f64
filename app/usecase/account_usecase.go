package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"account-hub/app/config"
	"account-hub/app/domain"
	"account-hub/app/port"
	"account-hub/app/utils/metrics"

	"github.com/google/uuid"
)

// asyncRefreshTimeout bounds detached background refreshes.
const asyncRefreshTimeout = 30 * time.Second

// AccountUsecase serves aggregated account data out of the Postgres cache and
// refreshes stale categories from the upstream providers. Reads degrade to
// stale or placeholder data when an upstream is down; they never fail for
// upstream reasons.
type AccountUsecase struct {
	cacheRepo   port.CacheRepositoryPort
	billing     port.BillingGateway
	crm         port.CRMGateway
	coordinator port.RefreshCoordinator
	cfg         *config.Config
	logger      *slog.Logger
}

// NewAccountUsecase creates a new AccountUsecase
func NewAccountUsecase(
	cacheRepo port.CacheRepositoryPort,
	billing port.BillingGateway,
	crm port.CRMGateway,
	coordinator port.RefreshCoordinator,
	cfg *config.Config,
	logger *slog.Logger,
) *AccountUsecase {
	return &AccountUsecase{
		cacheRepo:   cacheRepo,
		billing:     billing,
		crm:         crm,
		coordinator: coordinator,
		cfg:         cfg,
		logger:      logger.With("component", "account_usecase"),
	}
}

// GetSnapshot serves one category for a (tenant, user). A fresh cached copy is
// served as-is; a stale or missing one triggers a refresh through the
// single-flight coordinator.
func (u *AccountUsecase) GetSnapshot(ctx context.Context, category domain.DataCategory, tenantID, userID uuid.UUID) (*domain.AccountSnapshot, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, string(category))
	}

	record, err := u.loadRecord(ctx, category, tenantID, userID)
	if err != nil {
		return nil, err
	}

	ttl := u.cfg.CacheTTL(string(category))
	if !record.IsStale(ttl, time.Now()) {
		metrics.RecordCacheRequest(string(category), metrics.OutcomeHit)
		return u.snapshot(record, ttl), nil
	}

	return u.refreshThroughFlight(ctx, category, tenantID, userID, false)
}

// GetOverview serves every category in one call.
func (u *AccountUsecase) GetOverview(ctx context.Context, tenantID, userID uuid.UUID) ([]*domain.AccountSnapshot, error) {
	snapshots := make([]*domain.AccountSnapshot, 0, len(domain.AllCategories))
	for _, category := range domain.AllCategories {
		snapshot, err := u.GetSnapshot(ctx, category, tenantID, userID)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

// RefreshAll re-pulls every category from upstream regardless of freshness and
// reports the resulting snapshots.
func (u *AccountUsecase) RefreshAll(ctx context.Context, tenantID, userID uuid.UUID) ([]*domain.AccountSnapshot, error) {
	snapshots := make([]*domain.AccountSnapshot, 0, len(domain.AllCategories))
	for _, category := range domain.AllCategories {
		snapshot, err := u.refreshThroughFlight(ctx, category, tenantID, userID, true)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

// RefreshAsync runs RefreshAll on a detached goroutine. The caller's context
// is not reused, so the refresh outlives the request that triggered it.
func (u *AccountUsecase) RefreshAsync(tenantID, userID uuid.UUID) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				u.logger.Error("background refresh panicked",
					"tenant_id", tenantID,
					"user_id", userID,
					"panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), asyncRefreshTimeout)
		defer cancel()

		if _, err := u.RefreshAll(ctx, tenantID, userID); err != nil {
			u.logger.Warn("background refresh failed",
				"tenant_id", tenantID,
				"user_id", userID,
				"error", err)
		}
	}()
}

// refreshThroughFlight funnels a refresh through the coordinator so that
// concurrent requests for the same key share one upstream fetch.
func (u *AccountUsecase) refreshThroughFlight(ctx context.Context, category domain.DataCategory, tenantID, userID uuid.UUID, force bool) (*domain.AccountSnapshot, error) {
	key := domain.CacheKey(category, tenantID, userID)

	v, shared, err := u.coordinator.Do(key, func() (interface{}, error) {
		return u.refreshRecord(ctx, category, tenantID, userID, force)
	})
	metrics.RecordRefreshFlight(string(category), shared)
	if err != nil {
		return nil, fmt.Errorf("refresh flight failed for %s: %w", key, err)
	}

	record, ok := v.(*domain.CacheRecord)
	if !ok {
		return nil, fmt.Errorf("refresh flight for %s returned unexpected %T", key, v)
	}

	return u.snapshot(record, u.cfg.CacheTTL(string(category))), nil
}

// refreshRecord runs inside a coordinator flight. It always returns a record
// to serve; upstream failures fall back to the stale copy or a persisted
// placeholder instead of erroring.
func (u *AccountUsecase) refreshRecord(ctx context.Context, category domain.DataCategory, tenantID, userID uuid.UUID, force bool) (*domain.CacheRecord, error) {
	ttl := u.cfg.CacheTTL(string(category))

	// 他のゴルーチンが既にリフレッシュ済みかもしれないので再確認
	stale, err := u.loadRecord(ctx, category, tenantID, userID)
	if err != nil {
		u.logger.Warn("cache re-check failed, refreshing anyway",
			"key", domain.CacheKey(category, tenantID, userID),
			"error", err)
		stale = nil
	}
	if !force && !stale.IsStale(ttl, time.Now()) {
		metrics.RecordCacheRequest(string(category), metrics.OutcomeHit)
		return stale, nil
	}

	payload, err := u.fetchUpstream(ctx, category, tenantID, userID)
	if err != nil {
		return u.fallbackRecord(ctx, category, tenantID, userID, stale, err), nil
	}

	record, err := domain.NewCacheRecord(tenantID, userID, category, payload, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to build cache record: %w", err)
	}

	if err := u.cacheRepo.UpsertRecord(ctx, record); err != nil {
		// The fetched payload is still served; only the next request pays
		// for the missed write.
		u.logger.Error("failed to persist refreshed record", "key", record.Key(), "error", err)
	}

	metrics.RecordCacheRequest(string(category), metrics.OutcomeRefresh)
	u.logger.Debug("cache record refreshed", "key", record.Key())
	return record, nil
}

// fallbackRecord decides what to serve when the upstream fetch fails: the
// stale copy when one exists, otherwise a persisted placeholder so repeat
// requests do not hammer the failing upstream.
func (u *AccountUsecase) fallbackRecord(ctx context.Context, category domain.DataCategory, tenantID, userID uuid.UUID, stale *domain.CacheRecord, cause error) *domain.CacheRecord {
	key := domain.CacheKey(category, tenantID, userID)

	if stale != nil {
		u.logger.Warn("upstream refresh failed, serving stale record",
			"key", key,
			"updated_at", stale.UpdatedAt,
			"error", cause)
		metrics.RecordCacheRequest(string(category), metrics.OutcomeStaleFallback)
		return stale
	}

	placeholder := domain.NewPlaceholderRecord(tenantID, userID, category, time.Now())
	if err := u.cacheRepo.UpsertRecord(ctx, placeholder); err != nil {
		u.logger.Error("failed to persist placeholder record", "key", key, "error", err)
	}

	u.logger.Warn("upstream refresh failed with no cached copy, serving placeholder",
		"key", key,
		"error", cause)
	metrics.RecordCacheRequest(string(category), metrics.OutcomeEmptyFallback)
	return placeholder
}

// loadRecord reads the cached record, mapping "not found" to a nil record.
func (u *AccountUsecase) loadRecord(ctx context.Context, category domain.DataCategory, tenantID, userID uuid.UUID) (*domain.CacheRecord, error) {
	record, err := u.cacheRepo.GetRecord(ctx, category, tenantID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCacheRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache record: %w", err)
	}

	return record, nil
}

// fetchUpstream dispatches a category to its provider.
func (u *AccountUsecase) fetchUpstream(ctx context.Context, category domain.DataCategory, tenantID, userID uuid.UUID) (json.RawMessage, error) {
	switch category {
	case domain.CategoryProfile:
		return u.crm.FetchProfile(ctx, tenantID, userID)
	case domain.CategoryBilling:
		return u.billing.FetchBillingSummary(ctx, tenantID, userID)
	case domain.CategoryEntitlements:
		return u.billing.FetchEntitlements(ctx, tenantID, userID)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, string(category))
	}
}

func (u *AccountUsecase) snapshot(record *domain.CacheRecord, ttl time.Duration) *domain.AccountSnapshot {
	return &domain.AccountSnapshot{
		Category:  record.Category,
		Data:      record.Payload,
		UpdatedAt: record.UpdatedAt,
		Stale:     record.IsStale(ttl, time.Now()),
	}
}
