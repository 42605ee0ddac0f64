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

// WebhookEventRepository implements port.WebhookEventRepositoryPort for PostgreSQL
type WebhookEventRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewWebhookEventRepository creates a new PostgreSQL webhook event repository
func NewWebhookEventRepository(db DatabaseIface, logger *slog.Logger) port.WebhookEventRepositoryPort {
	return &WebhookEventRepository{
		db:     db,
		logger: logger.With("component", "webhook_event_repository"),
	}
}

// Insert stores a new delivery record. The unique index on
// (source, provider_event_id) is the idempotency barrier: a second delivery
// of the same provider event maps to domain.ErrDuplicateEvent.
func (r *WebhookEventRepository) Insert(ctx context.Context, event *domain.WebhookEvent) error {
	query := `
		INSERT INTO webhook_events (
			id, source, provider_event_id, event_type, tenant_id, user_id,
			payload, status, note, error_message, received_at, processed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.Source,
		event.ProviderEventID,
		event.EventType,
		event.TenantID,
		event.UserID,
		event.Payload,
		event.Status,
		event.Note,
		event.ErrorMessage,
		event.ReceivedAt,
		event.ProcessedAt,
	)

	if err != nil {
		// Check for duplicate key error (SQLSTATE 23505)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Info("Webhook delivery already recorded", "source", event.Source, "provider_event_id", event.ProviderEventID)
			return domain.ErrDuplicateEvent
		}
		r.logger.Error("Failed to insert webhook event", "source", event.Source, "provider_event_id", event.ProviderEventID, "error", err)
		return fmt.Errorf("failed to insert webhook event: %w", err)
	}

	r.logger.Info("Webhook event recorded", "event_id", event.ID, "source", event.Source, "event_type", event.EventType)
	return nil
}

// Exists reports whether a delivery for the provider event was already recorded
func (r *WebhookEventRepository) Exists(ctx context.Context, source domain.WebhookSource, providerEventID string) (bool, error) {
	query := `SELECT COUNT(*) FROM webhook_events WHERE source = $1 AND provider_event_id = $2`

	var count int
	err := r.db.QueryRow(ctx, query, source, providerEventID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to check webhook event existence", "source", source, "provider_event_id", providerEventID, "error", err)
		return false, fmt.Errorf("failed to check webhook event existence: %w", err)
	}

	return count > 0, nil
}

// Update persists a state transition on an existing record
func (r *WebhookEventRepository) Update(ctx context.Context, event *domain.WebhookEvent) error {
	query := `
		UPDATE webhook_events SET
			tenant_id = $2, user_id = $3, status = $4, note = $5,
			error_message = $6, processed_at = $7
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		event.ID,
		event.TenantID,
		event.UserID,
		event.Status,
		event.Note,
		event.ErrorMessage,
		event.ProcessedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update webhook event", "event_id", event.ID, "error", err)
		return fmt.Errorf("failed to update webhook event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("webhook event not found: %s", event.ID)
	}

	return nil
}

// GetByID retrieves a delivery record by its internal ID
func (r *WebhookEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookEvent, error) {
	query := `
		SELECT id, source, provider_event_id, event_type, tenant_id, user_id,
			payload, status, note, error_message, received_at, processed_at
		FROM webhook_events WHERE id = $1`

	event := &domain.WebhookEvent{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Source,
		&event.ProviderEventID,
		&event.EventType,
		&event.TenantID,
		&event.UserID,
		&event.Payload,
		&event.Status,
		&event.Note,
		&event.ErrorMessage,
		&event.ReceivedAt,
		&event.ProcessedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("webhook event not found: %s", id)
		}
		r.logger.Error("Failed to get webhook event", "event_id", id, "error", err)
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}

	return event, nil
}

// ListByStatus retrieves delivery records in the given terminal or in-flight
// status, newest first. Used by operators to inspect failed deliveries.
func (r *WebhookEventRepository) ListByStatus(ctx context.Context, status domain.WebhookEventStatus, limit int) ([]*domain.WebhookEvent, error) {
	query := `
		SELECT id, source, provider_event_id, event_type, tenant_id, user_id,
			payload, status, note, error_message, received_at, processed_at
		FROM webhook_events WHERE status = $1
		ORDER BY received_at DESC LIMIT $2`

	rows, err := r.db.Query(ctx, query, status, limit)
	if err != nil {
		r.logger.Error("Failed to list webhook events", "status", status, "error", err)
		return nil, fmt.Errorf("failed to list webhook events: %w", err)
	}
	defer rows.Close()

	var events []*domain.WebhookEvent
	for rows.Next() {
		event := &domain.WebhookEvent{}
		err := rows.Scan(
			&event.ID,
			&event.Source,
			&event.ProviderEventID,
			&event.EventType,
			&event.TenantID,
			&event.UserID,
			&event.Payload,
			&event.Status,
			&event.Note,
			&event.ErrorMessage,
			&event.ReceivedAt,
			&event.ProcessedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan webhook event row", "error", err)
			return nil, fmt.Errorf("failed to scan webhook event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating webhook event rows", "error", err)
		return nil, fmt.Errorf("error iterating webhook events: %w", err)
	}

	return events, nil
}
