package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"account-hub/app/domain"
	"account-hub/app/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// cacheTables maps each data category to its backing table. One table per
// category keeps the hot billing/entitlement rows out of the profile index.
var cacheTables = map[domain.DataCategory]string{
	domain.CategoryProfile:      "profile_cache",
	domain.CategoryBilling:      "billing_cache",
	domain.CategoryEntitlements: "entitlement_cache",
}

// CacheRepository implements port.CacheRepositoryPort for PostgreSQL
type CacheRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewCacheRepository creates a new PostgreSQL cache repository
func NewCacheRepository(db DatabaseIface, logger *slog.Logger) port.CacheRepositoryPort {
	return &CacheRepository{
		db:     db,
		logger: logger.With("component", "cache_repository"),
	}
}

func cacheTableFor(category domain.DataCategory) (string, error) {
	table, ok := cacheTables[category]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	return table, nil
}

// GetRecord retrieves the cached record for one (tenant, user, category) key.
// Returns domain.ErrCacheRecordNotFound when the key has never been written.
func (r *CacheRepository) GetRecord(ctx context.Context, category domain.DataCategory, tenantID, userID uuid.UUID) (*domain.CacheRecord, error) {
	table, err := cacheTableFor(category)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT tenant_id, user_id, payload, updated_at
		FROM %s WHERE tenant_id = $1 AND user_id = $2`, table)

	record := &domain.CacheRecord{Category: category}
	err = r.db.QueryRow(ctx, query, tenantID, userID).Scan(
		&record.TenantID,
		&record.UserID,
		&record.Payload,
		&record.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCacheRecordNotFound
		}
		r.logger.Error("Failed to get cache record", "category", category, "tenant_id", tenantID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get cache record: %w", err)
	}

	return record, nil
}

// UpsertRecord writes a record, replacing any previous payload for the key.
// Last write by arrival order wins; callers do not compare timestamps first.
func (r *CacheRepository) UpsertRecord(ctx context.Context, record *domain.CacheRecord) error {
	table, err := cacheTableFor(record.Category)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (tenant_id, user_id, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, user_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at`, table)

	_, err = r.db.Exec(ctx, query,
		record.TenantID,
		record.UserID,
		record.Payload,
		record.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to upsert cache record", "category", record.Category, "tenant_id", record.TenantID, "user_id", record.UserID, "error", err)
		return fmt.Errorf("failed to upsert cache record: %w", err)
	}

	r.logger.Debug("Cache record upserted", "category", record.Category, "tenant_id", record.TenantID, "user_id", record.UserID)
	return nil
}

// ListRecords retrieves the cached records across all categories for one
// (tenant, user) pair. Categories with no record are simply absent.
func (r *CacheRepository) ListRecords(ctx context.Context, tenantID, userID uuid.UUID) ([]*domain.CacheRecord, error) {
	records := make([]*domain.CacheRecord, 0, len(domain.AllCategories))

	for _, category := range domain.AllCategories {
		record, err := r.GetRecord(ctx, category, tenantID, userID)
		if err != nil {
			if err == domain.ErrCacheRecordNotFound {
				continue
			}
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// DeleteRecords removes every cached category for one (tenant, user) pair.
// Used when an identity is deleted upstream.
func (r *CacheRepository) DeleteRecords(ctx context.Context, tenantID, userID uuid.UUID) error {
	for _, category := range domain.AllCategories {
		table, err := cacheTableFor(category)
		if err != nil {
			return err
		}

		query := fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = $1 AND user_id = $2`, table)

		if _, err := r.db.Exec(ctx, query, tenantID, userID); err != nil {
			r.logger.Error("Failed to delete cache records", "category", category, "tenant_id", tenantID, "user_id", userID, "error", err)
			return fmt.Errorf("failed to delete cache records: %w", err)
		}
	}

	r.logger.Info("Cache records deleted", "tenant_id", tenantID, "user_id", userID)
	return nil
}
