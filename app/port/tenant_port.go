package port

//go:generate mockgen -source=tenant_port.go -destination=../mocks/mock_tenant_port.go

import (
	"context"

	"account-hub/app/domain"
	"github.com/google/uuid"
)

// TenantUsecase defines tenant resolution and management business logic
type TenantUsecase interface {
	// ResolveSession maps verified claims onto a local (user, tenant, role).
	// It lazily creates the local user and the personal tenant, soft-fails
	// unresolvable explicit tenants to the personal tenant, and never
	// returns an error for a valid authenticated session.
	ResolveSession(ctx context.Context, claims *domain.SessionClaims) (*domain.SessionContext, error)

	// Tenant management
	CreateTenant(ctx context.Context, ownerID uuid.UUID, req *domain.CreateTenantRequest) (*domain.Tenant, error)
	GetTenantByID(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)

	// Tenant queries
	ListUserTenants(ctx context.Context, userID uuid.UUID) ([]*domain.TenantWithRole, error)

	// SwitchTenant moves the user's default tenant after verifying
	// membership and kicks off a background cache refresh for the target.
	SwitchTenant(ctx context.Context, userID, tenantID uuid.UUID) (*domain.SessionContext, error)
}

// TenantRepositoryPort defines tenant data access interface
type TenantRepositoryPort interface {
	// Create inserts a team tenant; a slug collision returns
	// domain.ErrTenantSlugTaken.
	Create(ctx context.Context, tenant *domain.Tenant) error

	// CreatePersonal inserts a personal tenant idempotently: under
	// concurrent first logins exactly one row wins and every caller gets
	// that winning row back.
	CreatePersonal(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error)

	GetByID(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	GetPersonalByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Tenant, error)
	Update(ctx context.Context, tenant *domain.Tenant) error
}

// MembershipRepositoryPort defines membership data access interface
type MembershipRepositoryPort interface {
	// Ensure inserts the membership if absent; an existing (user, tenant)
	// row is left untouched.
	Ensure(ctx context.Context, membership *domain.Membership) error

	Get(ctx context.Context, userID, tenantID uuid.UUID) (*domain.Membership, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Membership, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
}
