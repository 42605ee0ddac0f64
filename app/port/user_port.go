package port

//go:generate mockgen -source=user_port.go -destination=../mocks/mock_user_port.go

import (
	"context"

	"account-hub/app/domain"
	"github.com/google/uuid"
)

// UserRepositoryPort defines user data access interface
type UserRepositoryPort interface {
	// CreateIfAbsent inserts the user keyed by identity ID idempotently:
	// under concurrent first logins exactly one row wins and every caller
	// gets that winning row back.
	CreateIfAbsent(ctx context.Context, user *domain.User) (*domain.User, error)

	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByKratosID(ctx context.Context, kratosID uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
