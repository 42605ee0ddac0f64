package port

//go:generate mockgen -source=account_port.go -destination=../mocks/mock_account_port.go

import (
	"context"

	"account-hub/app/domain"
	"github.com/google/uuid"
)

// AccountUsecase defines the aggregated account data read path. Reads never
// fail for upstream reasons: stale or placeholder data is served instead.
type AccountUsecase interface {
	// GetSnapshot serves one category for a (tenant, user), refreshing
	// through the single-flight coordinator when the cached copy is stale.
	GetSnapshot(ctx context.Context, category domain.DataCategory, tenantID, userID uuid.UUID) (*domain.AccountSnapshot, error)

	// GetOverview serves every category in one call.
	GetOverview(ctx context.Context, tenantID, userID uuid.UUID) ([]*domain.AccountSnapshot, error)

	// RefreshAll forces a refresh of every category and reports the
	// resulting snapshots.
	RefreshAll(ctx context.Context, tenantID, userID uuid.UUID) ([]*domain.AccountSnapshot, error)

	// RefreshAsync spawns a detached background refresh of every category.
	// Failures are logged, never propagated.
	RefreshAsync(tenantID, userID uuid.UUID)
}

// CacheRepositoryPort defines cache record data access
type CacheRepositoryPort interface {
	GetRecord(ctx context.Context, category domain.DataCategory, tenantID, userID uuid.UUID) (*domain.CacheRecord, error)
	UpsertRecord(ctx context.Context, record *domain.CacheRecord) error
	ListRecords(ctx context.Context, tenantID, userID uuid.UUID) ([]*domain.CacheRecord, error)
	DeleteRecords(ctx context.Context, tenantID, userID uuid.UUID) error
}

// RefreshCoordinator collapses concurrent refreshes of the same cache key into
// a single execution. Callers arriving while a flight for an equal key is in
// progress block until that flight finishes and receive its result; distinct
// keys never wait on each other.
type RefreshCoordinator interface {
	// Do executes fn once per in-flight key. shared reports whether the
	// returned value was produced by another caller's flight.
	Do(key string, fn func() (interface{}, error)) (v interface{}, shared bool, err error)
}
