package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"account-hub/app/domain"
	"account-hub/app/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TenantRepository implements port.TenantRepositoryPort for PostgreSQL
type TenantRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewTenantRepository creates a new PostgreSQL tenant repository
func NewTenantRepository(db DatabaseIface, logger *slog.Logger) port.TenantRepositoryPort {
	return &TenantRepository{
		db:     db,
		logger: logger.With("component", "tenant_repository"),
	}
}

const tenantColumns = `id, slug, name, description, status, is_personal, owner_user_id, settings, created_at, updated_at, deleted_at`

// Create inserts a team tenant. A slug collision (SQLSTATE 23505) maps to
// domain.ErrTenantSlugTaken.
func (r *TenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	query := `
		INSERT INTO tenants (
			id, slug, name, description, status, is_personal, owner_user_id,
			settings, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)`

	r.logger.Info("Creating tenant", "tenant_id", tenant.ID, "slug", tenant.Slug)

	_, err := r.db.Exec(ctx, query,
		tenant.ID,
		tenant.Slug,
		tenant.Name,
		tenant.Description,
		tenant.Status,
		tenant.IsPersonal,
		tenant.OwnerUserID,
		tenant.Settings,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn("Tenant slug already taken", "slug", tenant.Slug)
			return domain.ErrTenantSlugTaken
		}
		r.logger.Error("Failed to create tenant", "tenant_id", tenant.ID, "error", err)
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	r.logger.Info("Tenant created successfully", "tenant_id", tenant.ID)
	return nil
}

// CreatePersonal inserts a personal tenant idempotently. The partial unique
// index on owner_user_id makes concurrent first logins race safely: every
// loser hits DO NOTHING and the re-select returns the single winning row.
func (r *TenantRepository) CreatePersonal(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	query := `
		INSERT INTO tenants (
			id, slug, name, description, status, is_personal, owner_user_id,
			settings, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) ON CONFLICT DO NOTHING`

	if !tenant.IsPersonal || tenant.OwnerUserID == nil {
		return nil, fmt.Errorf("tenant is not a personal tenant")
	}

	r.logger.Info("Creating personal tenant", "tenant_id", tenant.ID, "owner_user_id", *tenant.OwnerUserID)

	_, err := r.db.Exec(ctx, query,
		tenant.ID,
		tenant.Slug,
		tenant.Name,
		tenant.Description,
		tenant.Status,
		tenant.IsPersonal,
		tenant.OwnerUserID,
		tenant.Settings,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create personal tenant", "owner_user_id", *tenant.OwnerUserID, "error", err)
		return nil, fmt.Errorf("failed to create personal tenant: %w", err)
	}

	// 勝者の行を読み直す。自分のINSERTが通ったかどうかは問わない。
	winner, err := r.GetPersonalByOwner(ctx, *tenant.OwnerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load personal tenant after insert: %w", err)
	}

	return winner, nil
}

// GetByID retrieves a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants WHERE id = $1 AND deleted_at IS NULL`

	return r.scanTenant(r.db.QueryRow(ctx, query, id))
}

// GetBySlug retrieves a tenant by slug
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants WHERE slug = $1 AND deleted_at IS NULL`

	return r.scanTenant(r.db.QueryRow(ctx, query, slug))
}

// GetPersonalByOwner retrieves the personal tenant owned by a user
func (r *TenantRepository) GetPersonalByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants WHERE owner_user_id = $1 AND is_personal = true AND deleted_at IS NULL`

	return r.scanTenant(r.db.QueryRow(ctx, query, ownerID))
}

func (r *TenantRepository) scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := row.Scan(
		&tenant.ID,
		&tenant.Slug,
		&tenant.Name,
		&tenant.Description,
		&tenant.Status,
		&tenant.IsPersonal,
		&tenant.OwnerUserID,
		&tenant.Settings,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
		&tenant.DeletedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTenantNotFound
		}
		r.logger.Error("Failed to get tenant", "error", err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &tenant, nil
}

// Update updates a tenant in the database
func (r *TenantRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	query := `
		UPDATE tenants SET
			slug = $2, name = $3, description = $4, status = $5, settings = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL`

	r.logger.Info("Updating tenant", "tenant_id", tenant.ID, "name", tenant.Name)

	result, err := r.db.Exec(ctx, query,
		tenant.ID,
		tenant.Slug,
		tenant.Name,
		tenant.Description,
		tenant.Status,
		tenant.Settings,
		tenant.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update tenant", "tenant_id", tenant.ID, "error", err)
		return fmt.Errorf("failed to update tenant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrTenantNotFound
	}

	r.logger.Info("Tenant updated successfully", "tenant_id", tenant.ID)
	return nil
}
