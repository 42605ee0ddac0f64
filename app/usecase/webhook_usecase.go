package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"account-hub/app/domain"
	"account-hub/app/port"
	"account-hub/app/utils/metrics"

	"github.com/google/uuid"
)

const defaultFailedEventLimit = 50

// WebhookUsecase reconciles upstream webhook deliveries against the local
// cache and user store. Signature verification happens in the REST layer;
// everything after it is expressed in the acknowledgement so providers always
// get a 200 for a delivery that was durably received.
type WebhookUsecase struct {
	eventRepo       port.WebhookEventRepositoryPort
	cacheRepo       port.CacheRepositoryPort
	userRepo        port.UserRepositoryPort
	identityGateway port.IdentityGateway
	logger          *slog.Logger
}

// NewWebhookUsecase creates a new WebhookUsecase
func NewWebhookUsecase(
	eventRepo port.WebhookEventRepositoryPort,
	cacheRepo port.CacheRepositoryPort,
	userRepo port.UserRepositoryPort,
	identityGateway port.IdentityGateway,
	logger *slog.Logger,
) *WebhookUsecase {
	return &WebhookUsecase{
		eventRepo:       eventRepo,
		cacheRepo:       cacheRepo,
		userRepo:        userRepo,
		identityGateway: identityGateway,
		logger:          logger.With("component", "webhook_usecase"),
	}
}

// subjectFields is the minimal subject mapping billing and CRM events carry.
type subjectFields struct {
	TenantID uuid.UUID `json:"tenant_id"`
	UserID   uuid.UUID `json:"user_id"`
}

// identityFields is the subject mapping identity events carry.
type identityFields struct {
	IdentityID string `json:"identity_id"`
}

// ProcessEvent runs one delivery through the reconciliation state machine.
// The returned ack is always safe to serialize with HTTP 200; an error means
// the delivery could not be durably recorded and the provider should retry.
func (u *WebhookUsecase) ProcessEvent(ctx context.Context, source domain.WebhookSource, body []byte) (*domain.WebhookAck, error) {
	if !source.IsValid() {
		return nil, fmt.Errorf("invalid webhook source: %q", source)
	}

	envelope, err := domain.ParseWebhookEnvelope(body)
	if err != nil {
		u.recordMalformed(ctx, source, body, err)
		metrics.RecordWebhookEvent(string(source), "malformed")
		u.logger.Warn("webhook body rejected", "source", source, "error", err)
		return domain.AckSkipped(domain.AckReasonInvalidBody), nil
	}

	// 再送されたイベントは処理せずに応答する
	exists, err := u.eventRepo.Exists(ctx, source, envelope.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check delivery history: %w", err)
	}
	if exists {
		metrics.RecordWebhookEvent(string(source), "duplicate")
		u.logger.Info("duplicate webhook delivery acknowledged",
			"source", source,
			"event_id", envelope.EventID)
		return domain.AckSkipped(domain.AckReasonDuplicate), nil
	}

	eventType := domain.WebhookEventType(envelope.EventType)
	event, err := domain.NewWebhookEvent(source, envelope.EventID, eventType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build delivery record: %w", err)
	}

	if !eventType.BelongsTo(source) {
		return u.ackUnknownType(ctx, event)
	}

	// Durable intake before dispatch. Two concurrent first deliveries race
	// on the (source, provider_event_id) unique index; the loser is a
	// duplicate.
	if err := u.eventRepo.Insert(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateEvent) {
			metrics.RecordWebhookEvent(string(source), "duplicate")
			return domain.AckSkipped(domain.AckReasonDuplicate), nil
		}
		return nil, fmt.Errorf("failed to record delivery: %w", err)
	}

	ack := u.dispatch(ctx, event, envelope)

	if err := u.eventRepo.Update(ctx, event); err != nil {
		u.logger.Error("failed to persist delivery status",
			"event_id", event.ID,
			"provider_event_id", event.ProviderEventID,
			"error", err)
	}

	return ack, nil
}

// ListFailedEvents lists terminally failed deliveries for operator
// inspection. Failed deliveries are never retried automatically.
func (u *WebhookUsecase) ListFailedEvents(ctx context.Context, limit int) ([]*domain.WebhookEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultFailedEventLimit
	}

	events, err := u.eventRepo.ListByStatus(ctx, domain.WebhookStatusFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed deliveries: %w", err)
	}

	return events, nil
}

// dispatch applies one known event type and settles the record into its
// terminal status. Processing failures become part of the ack, not errors.
func (u *WebhookUsecase) dispatch(ctx context.Context, event *domain.WebhookEvent, envelope *domain.WebhookEnvelope) *domain.WebhookAck {
	var (
		note string
		err  error
	)

	switch event.EventType {
	case domain.EventSubscriptionUpdated, domain.EventSubscriptionDeleted:
		note, err = u.applyCacheEvent(ctx, event, envelope, domain.CategoryBilling)
	case domain.EventEntitlementUpdated:
		note, err = u.applyCacheEvent(ctx, event, envelope, domain.CategoryEntitlements)
	case domain.EventContactUpdated:
		note, err = u.applyCacheEvent(ctx, event, envelope, domain.CategoryProfile)
	case domain.EventIdentityUpdated:
		note, err = u.applyIdentityUpdated(ctx, event, envelope)
	case domain.EventIdentityDeleted:
		note, err = u.applyIdentityDeleted(ctx, envelope)
	default:
		// BelongsTo filters before dispatch; keep the default harmless.
		note = "no handler registered, acknowledged"
	}

	if err != nil {
		if markErr := event.MarkFailed(err); markErr != nil {
			u.logger.Error("failed to settle delivery record", "event_id", event.ID, "error", markErr)
		}
		metrics.RecordWebhookEvent(string(event.Source), "failed")
		u.logger.Warn("webhook processing failed",
			"source", event.Source,
			"event_type", event.EventType,
			"provider_event_id", event.ProviderEventID,
			"error", err)

		reason := domain.AckReasonProcessError
		if errors.Is(err, domain.ErrSubjectUnresolved) {
			reason = domain.AckReasonNoSubject
		}
		return domain.AckSkipped(reason)
	}

	if markErr := event.MarkSuccess(note); markErr != nil {
		u.logger.Error("failed to settle delivery record", "event_id", event.ID, "error", markErr)
	}
	metrics.RecordWebhookEvent(string(event.Source), "success")
	u.logger.Info("webhook delivery processed",
		"source", event.Source,
		"event_type", event.EventType,
		"provider_event_id", event.ProviderEventID,
		"note", note)

	return domain.AckProcessed()
}

// applyCacheEvent upserts the event data as the new cached payload for the
// mapped (tenant, user). Last write by arrival wins against concurrent
// refreshes; divergence converges on the next refresh cycle.
func (u *WebhookUsecase) applyCacheEvent(ctx context.Context, event *domain.WebhookEvent, envelope *domain.WebhookEnvelope, category domain.DataCategory) (string, error) {
	subject, err := resolveSubject(envelope.Data)
	if err != nil {
		return "", err
	}
	event.BindSubject(subject.TenantID, subject.UserID)

	record, err := domain.NewCacheRecord(subject.TenantID, subject.UserID, category, envelope.Data, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to build cache record: %w", err)
	}

	if err := u.cacheRepo.UpsertRecord(ctx, record); err != nil {
		return "", fmt.Errorf("failed to upsert %s cache: %w", category, err)
	}

	return fmt.Sprintf("%s cache updated", category), nil
}

// applyIdentityUpdated re-syncs the denormalized user profile columns. The
// event body is only a notification; the traits are pulled fresh from the
// identity provider's admin API.
func (u *WebhookUsecase) applyIdentityUpdated(ctx context.Context, event *domain.WebhookEvent, envelope *domain.WebhookEnvelope) (string, error) {
	kratosID, err := resolveIdentity(envelope.Data)
	if err != nil {
		return "", err
	}

	user, err := u.userRepo.GetByKratosID(ctx, kratosID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", fmt.Errorf("%w: no local user for identity %s", domain.ErrSubjectUnresolved, kratosID)
		}
		return "", fmt.Errorf("failed to load local user: %w", err)
	}

	claims, err := u.identityGateway.GetIdentity(ctx, kratosID.String())
	if err != nil {
		return "", fmt.Errorf("failed to load identity traits: %w", err)
	}

	if user.DefaultTenantID != nil {
		event.BindSubject(*user.DefaultTenantID, user.ID)
	}

	if !user.ApplyClaims(claims) {
		return "user profile already current", nil
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return "", fmt.Errorf("failed to update user profile: %w", err)
	}

	return "user profile synchronized", nil
}

// applyIdentityDeleted deactivates the local user. A delivery for an identity
// that never materialized locally is a no-op, not a failure.
func (u *WebhookUsecase) applyIdentityDeleted(ctx context.Context, envelope *domain.WebhookEnvelope) (string, error) {
	kratosID, err := resolveIdentity(envelope.Data)
	if err != nil {
		return "", err
	}

	user, err := u.userRepo.GetByKratosID(ctx, kratosID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "no local user, nothing to deactivate", nil
		}
		return "", fmt.Errorf("failed to load local user: %w", err)
	}

	if user.IsDeleted() {
		return "user already deactivated", nil
	}

	user.Deactivate()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return "", fmt.Errorf("failed to deactivate user: %w", err)
	}

	// 退会済みユーザーのキャッシュは残さない。失敗しても鮮度判定が回収する
	if user.DefaultTenantID != nil {
		if err := u.cacheRepo.DeleteRecords(ctx, *user.DefaultTenantID, user.ID); err != nil {
			u.logger.Warn("failed to evict cache for deactivated user",
				"user_id", user.ID,
				"tenant_id", *user.DefaultTenantID,
				"error", err)
		}
	}

	return "user deactivated", nil
}

// ackUnknownType records the delivery for audit and acknowledges it without
// touching local state.
func (u *WebhookUsecase) ackUnknownType(ctx context.Context, event *domain.WebhookEvent) (*domain.WebhookAck, error) {
	if err := event.MarkSuccess("unknown event type, no local mutation"); err != nil {
		u.logger.Error("failed to settle delivery record", "event_id", event.ID, "error", err)
	}

	if err := u.eventRepo.Insert(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateEvent) {
			metrics.RecordWebhookEvent(string(event.Source), "duplicate")
			return domain.AckSkipped(domain.AckReasonDuplicate), nil
		}
		return nil, fmt.Errorf("failed to record delivery: %w", err)
	}

	metrics.RecordWebhookEvent(string(event.Source), "unknown_type")
	u.logger.Info("unknown webhook event type acknowledged",
		"source", event.Source,
		"event_type", event.EventType,
		"provider_event_id", event.ProviderEventID)

	return domain.AckSkipped(domain.AckReasonUnknownType), nil
}

// recordMalformed keeps an audit record for a signed but unparseable body
// when the delivery carries enough to key one.
func (u *WebhookUsecase) recordMalformed(ctx context.Context, source domain.WebhookSource, body []byte, cause error) {
	var partial struct {
		EventID string `json:"event_id"`
	}
	if json.Unmarshal(body, &partial) != nil || partial.EventID == "" {
		// イベントIDなしでは記録のしようがない
		return
	}

	event, err := domain.NewWebhookEvent(source, partial.EventID, "malformed", body)
	if err != nil {
		return
	}
	if markErr := event.MarkFailed(cause); markErr != nil {
		return
	}

	if err := u.eventRepo.Insert(ctx, event); err != nil && !errors.Is(err, domain.ErrDuplicateEvent) {
		u.logger.Error("failed to record malformed delivery",
			"source", source,
			"provider_event_id", partial.EventID,
			"error", err)
	}
}

func resolveSubject(data json.RawMessage) (*subjectFields, error) {
	var subject subjectFields
	if err := json.Unmarshal(data, &subject); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	if subject.TenantID == (uuid.UUID{}) || subject.UserID == (uuid.UUID{}) {
		return nil, fmt.Errorf("%w: event data carries no tenant/user mapping", domain.ErrSubjectUnresolved)
	}

	return &subject, nil
}

func resolveIdentity(data json.RawMessage) (uuid.UUID, error) {
	var fields identityFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	if fields.IdentityID == "" {
		return uuid.UUID{}, fmt.Errorf("%w: event data carries no identity_id", domain.ErrSubjectUnresolved)
	}

	kratosID, err := uuid.Parse(fields.IdentityID)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: invalid identity_id: %v", domain.ErrMalformedPayload, err)
	}

	return kratosID, nil
}
