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

// UserRepository implements port.UserRepositoryPort for PostgreSQL
type UserRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db DatabaseIface, logger *slog.Logger) port.UserRepositoryPort {
	return &UserRepository{
		db:     db,
		logger: logger.With("component", "user_repository"),
	}
}

const userColumns = `id, kratos_id, email, name, status, email_verified, default_tenant_id, preferences, created_at, updated_at, last_seen_at, deleted_at`

// CreateIfAbsent inserts the local user for an identity if one does not exist
// yet. The unique index on kratos_id makes concurrent first logins race
// safely: losers hit DO NOTHING and the re-select returns the winning row.
func (r *UserRepository) CreateIfAbsent(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (
			id, kratos_id, email, name, status, email_verified,
			default_tenant_id, preferences, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) ON CONFLICT (kratos_id) DO NOTHING`

	r.logger.Info("Creating user if absent", "kratos_id", user.KratosID, "email", user.Email)

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.KratosID,
		user.Email,
		user.Name,
		user.Status,
		user.EmailVerified,
		user.DefaultTenantID,
		user.Preferences,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create user", "kratos_id", user.KratosID, "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	winner, err := r.GetByKratosID(ctx, user.KratosID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user after insert: %w", err)
	}

	return winner, nil
}

// GetByID retrieves a user by internal ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE id = $1 AND deleted_at IS NULL`

	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByKratosID retrieves a user by their identity-provider ID
func (r *UserRepository) GetByKratosID(ctx context.Context, kratosID uuid.UUID) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE kratos_id = $1 AND deleted_at IS NULL`

	return r.scanUser(r.db.QueryRow(ctx, query, kratosID))
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.KratosID,
		&user.Email,
		&user.Name,
		&user.Status,
		&user.EmailVerified,
		&user.DefaultTenantID,
		&user.Preferences,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastSeenAt,
		&user.DeletedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("Failed to get user", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Update persists claim drift, default-tenant moves and status changes
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET
			email = $2, name = $3, status = $4, email_verified = $5,
			default_tenant_id = $6, preferences = $7, updated_at = $8,
			last_seen_at = $9, deleted_at = $10
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Status,
		user.EmailVerified,
		user.DefaultTenantID,
		user.Preferences,
		user.UpdatedAt,
		user.LastSeenAt,
		user.DeletedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update user", "user_id", user.ID, "error", err)
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
