package postgres

import (
	"context"
	"testing"

	"account-hub/app/domain"
	"account-hub/app/utils/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a test user repository with mocked database
func createTestUserRepository(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)

	testLogger, err := logger.New("debug")
	require.NoError(t, err)

	repo := NewUserRepository(mockDB, testLogger).(*UserRepository)

	return repo, mockDB
}

func userRows(user *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "kratos_id", "email", "name", "status", "email_verified",
		"default_tenant_id", "preferences", "created_at", "updated_at",
		"last_seen_at", "deleted_at",
	}).AddRow(
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
		user.LastSeenAt,
		user.DeletedAt,
	)
}

func TestUserRepository_CreateIfAbsent(t *testing.T) {
	t.Run("first login inserts and returns the new row", func(t *testing.T) {
		repo, mockDB := createTestUserRepository(t)
		defer mockDB.Close()

		user, err := domain.NewUser("aya@example.com", uuid.New())
		require.NoError(t, err)

		mockDB.ExpectExec("INSERT INTO users").
			WithArgs(
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
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectQuery("SELECT(.+)FROM users WHERE kratos_id").
			WithArgs(user.KratosID).
			WillReturnRows(userRows(user))

		got, err := repo.CreateIfAbsent(context.Background(), user)

		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Email, got.Email)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	// 同じアイデンティティの同時作成: DO NOTHINGで負けた側は既存行を取得する
	t.Run("concurrent creation loser receives the existing row", func(t *testing.T) {
		repo, mockDB := createTestUserRepository(t)
		defer mockDB.Close()

		kratosID := uuid.New()
		existing, err := domain.NewUser("aya@example.com", kratosID)
		require.NoError(t, err)
		loser, err := domain.NewUser("aya@example.com", kratosID)
		require.NoError(t, err)

		mockDB.ExpectExec("INSERT INTO users").
			WithArgs(
				loser.ID,
				loser.KratosID,
				loser.Email,
				loser.Name,
				loser.Status,
				loser.EmailVerified,
				loser.DefaultTenantID,
				loser.Preferences,
				loser.CreatedAt,
				loser.UpdatedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mockDB.ExpectQuery("SELECT(.+)FROM users WHERE kratos_id").
			WithArgs(kratosID).
			WillReturnRows(userRows(existing))

		got, err := repo.CreateIfAbsent(context.Background(), loser)

		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, existing.ID, got.ID)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("database error during insert", func(t *testing.T) {
		repo, mockDB := createTestUserRepository(t)
		defer mockDB.Close()

		user, err := domain.NewUser("aya@example.com", uuid.New())
		require.NoError(t, err)

		mockDB.ExpectExec("INSERT INTO users").
			WithArgs(
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
			).
			WillReturnError(pgx.ErrTxClosed)

		got, err := repo.CreateIfAbsent(context.Background(), user)

		assert.Error(t, err)
		assert.Nil(t, got)
		assert.Contains(t, err.Error(), "failed to create user")
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByKratosID(t *testing.T) {
	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface, *domain.User)
		wantErr error
	}{
		{
			name: "user found",
			setupDB: func(mockDB pgxmock.PgxPoolIface, user *domain.User) {
				mockDB.ExpectQuery("SELECT(.+)FROM users WHERE kratos_id").
					WithArgs(user.KratosID).
					WillReturnRows(userRows(user))
			},
		},
		{
			name: "user not found",
			setupDB: func(mockDB pgxmock.PgxPoolIface, user *domain.User) {
				mockDB.ExpectQuery("SELECT(.+)FROM users WHERE kratos_id").
					WithArgs(user.KratosID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mockDB := createTestUserRepository(t)
			defer mockDB.Close()

			user, err := domain.NewUser("aya@example.com", uuid.New())
			require.NoError(t, err)

			tt.setupDB(mockDB, user)

			got, err := repo.GetByKratosID(context.Background(), user.KratosID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, user.KratosID, got.KratosID)
				assert.Equal(t, user.Preferences.Theme, got.Preferences.Theme)
			}

			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	repo, mockDB := createTestUserRepository(t)
	defer mockDB.Close()

	user, err := domain.NewUser("aya@example.com", uuid.New())
	require.NoError(t, err)

	mockDB.ExpectQuery("SELECT(.+)FROM users WHERE id").
		WithArgs(user.ID).
		WillReturnRows(userRows(user))

	got, err := repo.GetByID(context.Background(), user.ID)

	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface, *domain.User)
		wantErr error
	}{
		{
			name: "successful update",
			setupDB: func(mockDB pgxmock.PgxPoolIface, user *domain.User) {
				mockDB.ExpectExec("UPDATE users SET").
					WithArgs(
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
					).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "user not found",
			setupDB: func(mockDB pgxmock.PgxPoolIface, user *domain.User) {
				mockDB.ExpectExec("UPDATE users SET").
					WithArgs(
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
					).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mockDB := createTestUserRepository(t)
			defer mockDB.Close()

			user, err := domain.NewUser("aya@example.com", uuid.New())
			require.NoError(t, err)

			claims := &domain.SessionClaims{
				IdentityID: user.KratosID.String(),
				Email:      "aya@new-example.com",
				Name:       "Aya",
			}
			require.True(t, user.ApplyClaims(claims))

			tt.setupDB(mockDB, user)

			err = repo.Update(context.Background(), user)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}
