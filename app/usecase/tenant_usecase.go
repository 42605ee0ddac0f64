package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"account-hub/app/domain"
	"account-hub/app/port"
	"account-hub/app/utils/metrics"

	"github.com/google/uuid"
)

// TenantUsecase resolves authenticated sessions onto local (user, tenant,
// role) triples and manages tenant membership. Resolution never fails for a
// valid session: unresolvable tenant choices fall back to the user's personal
// tenant, which is created on demand when missing.
type TenantUsecase struct {
	userRepo       port.UserRepositoryPort
	tenantRepo     port.TenantRepositoryPort
	membershipRepo port.MembershipRepositoryPort
	accountUsecase port.AccountUsecase
	logger         *slog.Logger
}

// NewTenantUsecase creates a new TenantUsecase
func NewTenantUsecase(
	userRepo port.UserRepositoryPort,
	tenantRepo port.TenantRepositoryPort,
	membershipRepo port.MembershipRepositoryPort,
	accountUsecase port.AccountUsecase,
	logger *slog.Logger,
) *TenantUsecase {
	return &TenantUsecase{
		userRepo:       userRepo,
		tenantRepo:     tenantRepo,
		membershipRepo: membershipRepo,
		accountUsecase: accountUsecase,
		logger:         logger.With("component", "tenant_usecase"),
	}
}

// ResolveSession maps verified identity-provider claims onto the local user,
// the tenant this request operates in, and the caller's role. The local user
// and the personal tenant are created lazily; an explicit tenant named by the
// claims soft-fails to the personal tenant when it cannot be resolved.
func (u *TenantUsecase) ResolveSession(ctx context.Context, claims *domain.SessionClaims) (*domain.SessionContext, error) {
	if claims == nil {
		return nil, domain.ErrInvalidSession
	}
	if err := claims.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSession, err)
	}

	user, err := u.resolveUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	personal, err := u.ensurePersonalTenant(ctx, user)
	if err != nil {
		return nil, err
	}

	tenant, role := u.selectTenant(ctx, user, claims, personal)

	return &domain.SessionContext{
		UserID:     user.ID.String(),
		TenantID:   tenant.ID.String(),
		IdentityID: claims.IdentityID,
		Email:      user.Email,
		Role:       role,
	}, nil
}

// resolveUser looks up the local user by identity ID, creating it on first
// login and syncing denormalized profile columns that drifted from the claims.
func (u *TenantUsecase) resolveUser(ctx context.Context, claims *domain.SessionClaims) (*domain.User, error) {
	kratosID, err := uuid.Parse(claims.IdentityID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed identity ID", domain.ErrInvalidSession)
	}

	user, err := u.userRepo.GetByKratosID(ctx, kratosID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}

		// 初回ログイン: ローカルユーザーを遅延作成する
		fresh, err := domain.NewUserFromClaims(claims)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSession, err)
		}

		user, err = u.userRepo.CreateIfAbsent(ctx, fresh)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		u.logger.Info("local user created on first login",
			"user_id", user.ID,
			"kratos_id", kratosID)
		return user, nil
	}

	if user.ApplyClaims(claims) {
		if err := u.userRepo.Update(ctx, user); err != nil {
			// 同期は次のリクエストで再試行されるため、ここでは失敗させない
			u.logger.Warn("failed to sync profile from claims",
				"user_id", user.ID,
				"error", err)
		}
	}

	return user, nil
}

// ensurePersonalTenant returns the user's personal tenant, creating it when
// missing. CreatePersonal is idempotent against concurrent first logins, so
// every racing caller converges on the same winning row.
func (u *TenantUsecase) ensurePersonalTenant(ctx context.Context, user *domain.User) (*domain.Tenant, error) {
	personal, err := u.tenantRepo.GetPersonalByOwner(ctx, user.ID)
	if err == nil {
		return personal, nil
	}
	if !errors.Is(err, domain.ErrTenantNotFound) {
		return nil, fmt.Errorf("failed to look up personal tenant: %w", err)
	}

	fresh, err := domain.NewPersonalTenant(user.ID, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to build personal tenant: %w", err)
	}

	personal, err = u.tenantRepo.CreatePersonal(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("failed to provision personal tenant: %w", err)
	}

	membership, err := domain.NewMembership(user.ID, personal.ID, domain.TenantRoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to build owner membership: %w", err)
	}
	if err := u.membershipRepo.Ensure(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to ensure owner membership: %w", err)
	}

	metrics.RecordPersonalTenantProvision()
	u.logger.Info("personal tenant provisioned",
		"user_id", user.ID,
		"tenant_id", personal.ID)

	return personal, nil
}

// selectTenant picks the tenant for this session: an explicit hint from the
// claims first, then the user's default tenant, then the personal tenant.
// Unresolvable or unauthorized choices log a warning and fall through; the
// personal tenant itself never fails here.
func (u *TenantUsecase) selectTenant(ctx context.Context, user *domain.User, claims *domain.SessionClaims, personal *domain.Tenant) (*domain.Tenant, domain.TenantRole) {
	if claims.TenantHint != "" {
		if tenant, role, ok := u.resolveHint(ctx, user, claims.TenantHint); ok {
			return tenant, role
		}
		u.logger.Warn("explicit tenant unresolvable, falling back to personal",
			"user_id", user.ID,
			"tenant_hint", claims.TenantHint)
	}

	if user.DefaultTenantID != nil && *user.DefaultTenantID != personal.ID {
		if tenant, role, ok := u.memberTenant(ctx, user, *user.DefaultTenantID); ok {
			return tenant, role
		}
		u.logger.Warn("default tenant unresolvable, falling back to personal",
			"user_id", user.ID,
			"tenant_id", *user.DefaultTenantID)
	}

	return personal, domain.TenantRoleOwner
}

// resolveHint resolves an explicit tenant reference, which may be a tenant ID
// or a slug.
func (u *TenantUsecase) resolveHint(ctx context.Context, user *domain.User, hint string) (*domain.Tenant, domain.TenantRole, bool) {
	if tenantID, err := uuid.Parse(hint); err == nil {
		return u.memberTenant(ctx, user, tenantID)
	}

	tenant, err := u.tenantRepo.GetBySlug(ctx, hint)
	if err != nil {
		return nil, "", false
	}

	return u.checkAccess(ctx, user, tenant)
}

func (u *TenantUsecase) memberTenant(ctx context.Context, user *domain.User, tenantID uuid.UUID) (*domain.Tenant, domain.TenantRole, bool) {
	tenant, err := u.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, "", false
	}

	return u.checkAccess(ctx, user, tenant)
}

// checkAccess verifies the tenant is active and the user holds an active
// membership in it.
func (u *TenantUsecase) checkAccess(ctx context.Context, user *domain.User, tenant *domain.Tenant) (*domain.Tenant, domain.TenantRole, bool) {
	if !tenant.IsActive() {
		return nil, "", false
	}

	membership, err := u.membershipRepo.Get(ctx, user.ID, tenant.ID)
	if err != nil || !membership.IsActive() {
		return nil, "", false
	}

	return tenant, membership.Role, true
}

// CreateTenant creates a team tenant with the creator as owner.
func (u *TenantUsecase) CreateTenant(ctx context.Context, ownerID uuid.UUID, req *domain.CreateTenantRequest) (*domain.Tenant, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: missing request body", domain.ErrInvalidInput)
	}

	tenant, err := domain.NewTenant(req.Slug, req.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := u.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	membership, err := domain.NewMembership(ownerID, tenant.ID, domain.TenantRoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to build owner membership: %w", err)
	}
	if err := u.membershipRepo.Ensure(ctx, membership); err != nil {
		// ロールバック: 所有者のいないテナントを残さない
		tenant.SoftDelete()
		if rbErr := u.tenantRepo.Update(ctx, tenant); rbErr != nil {
			u.logger.Error("failed to roll back orphaned tenant",
				"tenant_id", tenant.ID,
				"error", rbErr)
		}
		return nil, fmt.Errorf("failed to create owner membership: %w", err)
	}

	u.logger.Info("tenant created",
		"tenant_id", tenant.ID,
		"slug", tenant.Slug,
		"owner_id", ownerID)

	return tenant, nil
}

// GetTenantByID fetches one tenant.
func (u *TenantUsecase) GetTenantByID(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	tenant, err := u.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return tenant, nil
}

// ListUserTenants lists every tenant the user holds an active membership in,
// paired with the user's role. Tenants that vanished under their membership
// rows are skipped, not errors.
func (u *TenantUsecase) ListUserTenants(ctx context.Context, userID uuid.UUID) ([]*domain.TenantWithRole, error) {
	memberships, err := u.membershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	tenants := make([]*domain.TenantWithRole, 0, len(memberships))
	for _, membership := range memberships {
		if !membership.IsActive() {
			continue
		}

		tenant, err := u.tenantRepo.GetByID(ctx, membership.TenantID)
		if err != nil {
			if errors.Is(err, domain.ErrTenantNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to get tenant %s: %w", membership.TenantID, err)
		}
		if tenant.IsDeleted() {
			continue
		}

		tenants = append(tenants, &domain.TenantWithRole{
			Tenant: tenant,
			Role:   membership.Role,
		})
	}

	return tenants, nil
}

// SwitchTenant moves the user's default tenant after verifying an active
// membership in the target, then kicks off a background cache refresh so the
// first read in the new tenant is warm.
func (u *TenantUsecase) SwitchTenant(ctx context.Context, userID, tenantID uuid.UUID) (*domain.SessionContext, error) {
	membership, err := u.membershipRepo.Get(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrMembershipNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}
	if !membership.IsActive() {
		return nil, domain.ErrMembershipNotFound
	}

	tenant, err := u.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if !tenant.IsActive() {
		return nil, domain.ErrTenantDisabled
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.SetDefaultTenant(tenant.ID)
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update default tenant: %w", err)
	}

	// 切り替え先のキャッシュを裏で温めておく
	u.accountUsecase.RefreshAsync(tenant.ID, user.ID)

	u.logger.Info("default tenant switched",
		"user_id", user.ID,
		"tenant_id", tenant.ID,
		"role", membership.Role)

	return &domain.SessionContext{
		UserID:     user.ID.String(),
		TenantID:   tenant.ID.String(),
		IdentityID: user.KratosID.String(),
		Email:      user.Email,
		Role:       membership.Role,
	}, nil
}
