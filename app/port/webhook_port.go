package port

//go:generate mockgen -source=webhook_port.go -destination=../mocks/mock_webhook_port.go

import (
	"context"

	"account-hub/app/domain"
	"github.com/google/uuid"
)

// WebhookUsecase defines webhook delivery reconciliation. ProcessEvent is
// called with the raw body after signature verification has already
// succeeded; everything that can go wrong afterwards is expressed in the
// acknowledgement, not as an error.
type WebhookUsecase interface {
	// ProcessEvent runs one delivery through the reconciliation state
	// machine: idempotency check, durable intake, typed dispatch, terminal
	// status. The returned ack is always safe to serialize with HTTP 200.
	ProcessEvent(ctx context.Context, source domain.WebhookSource, body []byte) (*domain.WebhookAck, error)

	// ListFailedEvents lists terminally failed deliveries for operator
	// inspection. Failed deliveries are never retried automatically.
	ListFailedEvents(ctx context.Context, limit int) ([]*domain.WebhookEvent, error)
}

// WebhookEventRepositoryPort defines webhook delivery record data access
type WebhookEventRepositoryPort interface {
	// Insert stores a new delivery record. A (source, provider_event_id)
	// collision returns domain.ErrDuplicateEvent.
	Insert(ctx context.Context, event *domain.WebhookEvent) error

	// Exists reports whether a delivery for the provider event was already
	// recorded.
	Exists(ctx context.Context, source domain.WebhookSource, providerEventID string) (bool, error)

	// Update persists a state transition on an existing record.
	Update(ctx context.Context, event *domain.WebhookEvent) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookEvent, error)
	ListByStatus(ctx context.Context, status domain.WebhookEventStatus, limit int) ([]*domain.WebhookEvent, error)
}
