package postgres

import (
	"context"
	"testing"

	"account-hub/app/domain"
	"account-hub/app/utils/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a test tenant repository with mocked database
func createTestTenantRepository(t *testing.T) (*TenantRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)

	testLogger, err := logger.New("debug")
	require.NoError(t, err)

	repo := NewTenantRepository(mockDB, testLogger).(*TenantRepository)

	return repo, mockDB
}

func tenantRows(tenant *domain.Tenant) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "slug", "name", "description", "status", "is_personal",
		"owner_user_id", "settings", "created_at", "updated_at", "deleted_at",
	}).AddRow(
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
		tenant.DeletedAt,
	)
}

func TestTenantRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface, *domain.Tenant)
		wantErr error
	}{
		{
			name: "successful tenant creation",
			setupDB: func(mockDB pgxmock.PgxPoolIface, tenant *domain.Tenant) {
				mockDB.ExpectExec("INSERT INTO tenants").
					WithArgs(
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
					).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			wantErr: nil,
		},
		{
			name: "slug collision maps to slug taken",
			setupDB: func(mockDB pgxmock.PgxPoolIface, tenant *domain.Tenant) {
				mockDB.ExpectExec("INSERT INTO tenants").
					WithArgs(
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
					).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tenants_slug_key"})
			},
			wantErr: domain.ErrTenantSlugTaken,
		},
		{
			name: "database error during creation",
			setupDB: func(mockDB pgxmock.PgxPoolIface, tenant *domain.Tenant) {
				mockDB.ExpectExec("INSERT INTO tenants").
					WithArgs(
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
					).
					WillReturnError(pgx.ErrTxClosed)
			},
			wantErr: pgx.ErrTxClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mockDB := createTestTenantRepository(t)
			defer mockDB.Close()

			tenant, err := domain.NewTenant("acme-corp", "Acme Corp")
			require.NoError(t, err)

			tt.setupDB(mockDB, tenant)

			err = repo.Create(context.Background(), tenant)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}

func TestTenantRepository_CreatePersonal(t *testing.T) {
	t.Run("insert wins and returns the inserted row", func(t *testing.T) {
		repo, mockDB := createTestTenantRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		tenant, err := domain.NewPersonalTenant(ownerID, "Aya")
		require.NoError(t, err)

		mockDB.ExpectExec("INSERT INTO tenants").
			WithArgs(
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
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectQuery("SELECT(.+)FROM tenants WHERE owner_user_id").
			WithArgs(ownerID).
			WillReturnRows(tenantRows(tenant))

		winner, err := repo.CreatePersonal(context.Background(), tenant)

		assert.NoError(t, err)
		require.NotNil(t, winner)
		assert.Equal(t, tenant.ID, winner.ID)
		assert.True(t, winner.IsPersonal)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	// 同時初回ログイン: 負けた側もエラーにせず勝者の行を返す
	t.Run("conflict loser receives the winning row", func(t *testing.T) {
		repo, mockDB := createTestTenantRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		loser, err := domain.NewPersonalTenant(ownerID, "Aya")
		require.NoError(t, err)
		winner, err := domain.NewPersonalTenant(ownerID, "Aya")
		require.NoError(t, err)

		mockDB.ExpectExec("INSERT INTO tenants").
			WithArgs(
				loser.ID,
				loser.Slug,
				loser.Name,
				loser.Description,
				loser.Status,
				loser.IsPersonal,
				loser.OwnerUserID,
				loser.Settings,
				loser.CreatedAt,
				loser.UpdatedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mockDB.ExpectQuery("SELECT(.+)FROM tenants WHERE owner_user_id").
			WithArgs(ownerID).
			WillReturnRows(tenantRows(winner))

		got, err := repo.CreatePersonal(context.Background(), loser)

		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, winner.ID, got.ID)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("rejects non-personal tenant", func(t *testing.T) {
		repo, mockDB := createTestTenantRepository(t)
		defer mockDB.Close()

		tenant, err := domain.NewTenant("acme-corp", "Acme Corp")
		require.NoError(t, err)

		got, err := repo.CreatePersonal(context.Background(), tenant)

		assert.Error(t, err)
		assert.Nil(t, got)
		assert.Contains(t, err.Error(), "not a personal tenant")
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestTenantRepository_GetByID(t *testing.T) {
	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface, *domain.Tenant)
		wantErr error
	}{
		{
			name: "tenant found",
			setupDB: func(mockDB pgxmock.PgxPoolIface, tenant *domain.Tenant) {
				mockDB.ExpectQuery("SELECT(.+)FROM tenants WHERE id").
					WithArgs(tenant.ID).
					WillReturnRows(tenantRows(tenant))
			},
		},
		{
			name: "tenant not found",
			setupDB: func(mockDB pgxmock.PgxPoolIface, tenant *domain.Tenant) {
				mockDB.ExpectQuery("SELECT(.+)FROM tenants WHERE id").
					WithArgs(tenant.ID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrTenantNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mockDB := createTestTenantRepository(t)
			defer mockDB.Close()

			tenant, err := domain.NewTenant("acme-corp", "Acme Corp")
			require.NoError(t, err)

			tt.setupDB(mockDB, tenant)

			got, err := repo.GetByID(context.Background(), tenant.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tenant.Slug, got.Slug)
				assert.Equal(t, tenant.Settings.Limits.MaxMembers, got.Settings.Limits.MaxMembers)
			}

			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}

func TestTenantRepository_GetPersonalByOwner(t *testing.T) {
	repo, mockDB := createTestTenantRepository(t)
	defer mockDB.Close()

	ownerID := uuid.New()

	mockDB.ExpectQuery("SELECT(.+)FROM tenants WHERE owner_user_id").
		WithArgs(ownerID).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetPersonalByOwner(context.Background(), ownerID)

	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
	assert.Nil(t, got)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestTenantRepository_Update(t *testing.T) {
	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface, *domain.Tenant)
		wantErr error
	}{
		{
			name: "successful update",
			setupDB: func(mockDB pgxmock.PgxPoolIface, tenant *domain.Tenant) {
				mockDB.ExpectExec("UPDATE tenants SET").
					WithArgs(
						tenant.ID,
						tenant.Slug,
						tenant.Name,
						tenant.Description,
						tenant.Status,
						tenant.Settings,
						tenant.UpdatedAt,
					).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "tenant not found or already deleted",
			setupDB: func(mockDB pgxmock.PgxPoolIface, tenant *domain.Tenant) {
				mockDB.ExpectExec("UPDATE tenants SET").
					WithArgs(
						tenant.ID,
						tenant.Slug,
						tenant.Name,
						tenant.Description,
						tenant.Status,
						tenant.Settings,
						tenant.UpdatedAt,
					).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrTenantNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mockDB := createTestTenantRepository(t)
			defer mockDB.Close()

			tenant, err := domain.NewTenant("acme-corp", "Acme Corp")
			require.NoError(t, err)
			require.NoError(t, tenant.UpdateName("Acme Corporation"))

			tt.setupDB(mockDB, tenant)

			err = repo.Update(context.Background(), tenant)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}
