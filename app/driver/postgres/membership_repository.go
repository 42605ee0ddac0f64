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

// MembershipRepository implements port.MembershipRepositoryPort for PostgreSQL
type MembershipRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewMembershipRepository creates a new PostgreSQL membership repository
func NewMembershipRepository(db DatabaseIface, logger *slog.Logger) port.MembershipRepositoryPort {
	return &MembershipRepository{
		db:     db,
		logger: logger.With("component", "membership_repository"),
	}
}

// Ensure inserts the membership if absent. An existing (user, tenant) row is
// left untouched, so repeated session resolution never rewrites roles.
func (r *MembershipRepository) Ensure(ctx context.Context, membership *domain.Membership) error {
	query := `
		INSERT INTO memberships (
			id, user_id, tenant_id, role, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) ON CONFLICT (user_id, tenant_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query,
		membership.ID,
		membership.UserID,
		membership.TenantID,
		membership.Role,
		membership.Status,
		membership.CreatedAt,
		membership.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to ensure membership", "user_id", membership.UserID, "tenant_id", membership.TenantID, "error", err)
		return fmt.Errorf("failed to ensure membership: %w", err)
	}

	return nil
}

// Get retrieves the membership linking a user to a tenant
func (r *MembershipRepository) Get(ctx context.Context, userID, tenantID uuid.UUID) (*domain.Membership, error) {
	query := `
		SELECT id, user_id, tenant_id, role, status, created_at, updated_at
		FROM memberships WHERE user_id = $1 AND tenant_id = $2`

	var membership domain.Membership
	err := r.db.QueryRow(ctx, query, userID, tenantID).Scan(
		&membership.ID,
		&membership.UserID,
		&membership.TenantID,
		&membership.Role,
		&membership.Status,
		&membership.CreatedAt,
		&membership.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrMembershipNotFound
		}
		r.logger.Error("Failed to get membership", "user_id", userID, "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &membership, nil
}

// ListByUser retrieves all active memberships for a user, oldest first so the
// personal tenant created at first login stays at the head.
func (r *MembershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Membership, error) {
	query := `
		SELECT id, user_id, tenant_id, role, status, created_at, updated_at
		FROM memberships WHERE user_id = $1 AND status = $2
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, userID, domain.MembershipStatusActive)
	if err != nil {
		r.logger.Error("Failed to list memberships", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*domain.Membership
	for rows.Next() {
		var membership domain.Membership
		err := rows.Scan(
			&membership.ID,
			&membership.UserID,
			&membership.TenantID,
			&membership.Role,
			&membership.Status,
			&membership.CreatedAt,
			&membership.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan membership row", "error", err)
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, &membership)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating membership rows", "error", err)
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}

	return memberships, nil
}

// CountByTenant counts active members of a tenant, used for member limits
func (r *MembershipRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM memberships WHERE tenant_id = $1 AND status = $2`

	var count int
	err := r.db.QueryRow(ctx, query, tenantID, domain.MembershipStatusActive).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count memberships", "tenant_id", tenantID, "error", err)
		return 0, fmt.Errorf("failed to count memberships: %w", err)
	}

	return count, nil
}
