package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WebhookSource identifies which upstream delivered an event.
type WebhookSource string

const (
	WebhookSourceBilling  WebhookSource = "billing"
	WebhookSourceCRM      WebhookSource = "crm"
	WebhookSourceIdentity WebhookSource = "identity"
)

// IsValid returns true if the source is one of the known upstreams
func (s WebhookSource) IsValid() bool {
	switch s {
	case WebhookSourceBilling, WebhookSourceCRM, WebhookSourceIdentity:
		return true
	}
	return false
}

// WebhookEventType is the provider-assigned event classification.
type WebhookEventType string

const (
	// Billing events
	EventSubscriptionUpdated WebhookEventType = "subscription.updated"
	EventSubscriptionDeleted WebhookEventType = "subscription.deleted"
	EventEntitlementUpdated  WebhookEventType = "entitlement.updated"

	// CRM events
	EventContactUpdated WebhookEventType = "contact.updated"

	// Identity events
	EventIdentityUpdated WebhookEventType = "identity.updated"
	EventIdentityDeleted WebhookEventType = "identity.deleted"
)

// knownEventTypes maps each handled type to the source expected to emit it.
var knownEventTypes = map[WebhookEventType]WebhookSource{
	EventSubscriptionUpdated: WebhookSourceBilling,
	EventSubscriptionDeleted: WebhookSourceBilling,
	EventEntitlementUpdated:  WebhookSourceBilling,
	EventContactUpdated:      WebhookSourceCRM,
	EventIdentityUpdated:     WebhookSourceIdentity,
	EventIdentityDeleted:     WebhookSourceIdentity,
}

// IsKnown reports whether the event type has a handler. Unknown types are
// acknowledged without local mutation.
func (t WebhookEventType) IsKnown() bool {
	_, ok := knownEventTypes[t]
	return ok
}

// BelongsTo reports whether the event type is expected from the given source.
func (t WebhookEventType) BelongsTo(source WebhookSource) bool {
	s, ok := knownEventTypes[t]
	return ok && s == source
}

// WebhookEventStatus represents the processing state of one delivery.
// Lifecycle: processing → success | failed. Deliveries that fail signature
// verification are never recorded, and failed records are never auto-retried.
type WebhookEventStatus string

const (
	WebhookStatusProcessing WebhookEventStatus = "processing"
	WebhookStatusSuccess    WebhookEventStatus = "success"
	WebhookStatusFailed     WebhookEventStatus = "failed"
)

// WebhookEvent is the durable record of one webhook delivery. The
// (Source, ProviderEventID) pair is unique: a second delivery of the same
// provider event is a duplicate and triggers no re-processing.
type WebhookEvent struct {
	ID              uuid.UUID          `json:"id"`
	Source          WebhookSource      `json:"source"`
	ProviderEventID string             `json:"provider_event_id"`
	EventType       WebhookEventType   `json:"event_type"`
	TenantID        *uuid.UUID         `json:"tenant_id,omitempty"`
	UserID          *uuid.UUID         `json:"user_id,omitempty"`
	Payload         json.RawMessage    `json:"payload"`
	Status          WebhookEventStatus `json:"status"`
	Note            string             `json:"note,omitempty"`
	ErrorMessage    string             `json:"error_message,omitempty"`
	ReceivedAt      time.Time          `json:"received_at"`
	ProcessedAt     *time.Time         `json:"processed_at,omitempty"`
}

// NewWebhookEvent creates a delivery record in the processing state
func NewWebhookEvent(source WebhookSource, providerEventID string, eventType WebhookEventType, payload json.RawMessage) (*WebhookEvent, error) {
	if !source.IsValid() {
		return nil, fmt.Errorf("invalid webhook source: %q", source)
	}

	if providerEventID == "" {
		return nil, fmt.Errorf("provider event ID is required")
	}

	if eventType == "" {
		return nil, fmt.Errorf("event type is required")
	}

	return &WebhookEvent{
		ID:              uuid.New(),
		Source:          source,
		ProviderEventID: providerEventID,
		EventType:       eventType,
		Payload:         payload,
		Status:          WebhookStatusProcessing,
		ReceivedAt:      time.Now(),
	}, nil
}

// BindSubject attaches the resolved local (tenant, user) to the record.
func (e *WebhookEvent) BindSubject(tenantID, userID uuid.UUID) {
	e.TenantID = &tenantID
	e.UserID = &userID
}

// MarkSuccess transitions the record to its terminal success state.
func (e *WebhookEvent) MarkSuccess(note string) error {
	if e.Status != WebhookStatusProcessing {
		return fmt.Errorf("cannot mark %s event as success", e.Status)
	}
	now := time.Now()
	e.Status = WebhookStatusSuccess
	e.Note = note
	e.ProcessedAt = &now
	return nil
}

// MarkFailed transitions the record to its terminal failed state. Failed
// records are kept for operator inspection and are never retried
// automatically.
func (e *WebhookEvent) MarkFailed(cause error) error {
	if e.Status != WebhookStatusProcessing {
		return fmt.Errorf("cannot mark %s event as failed", e.Status)
	}
	now := time.Now()
	e.Status = WebhookStatusFailed
	if cause != nil {
		e.ErrorMessage = cause.Error()
	}
	e.ProcessedAt = &now
	return nil
}

// IsTerminal returns true once the record has finished processing
func (e *WebhookEvent) IsTerminal() bool {
	return e.Status == WebhookStatusSuccess || e.Status == WebhookStatusFailed
}

// WebhookAck is the acknowledgement contract returned to providers.
// Received is true for every delivery that passed signature verification;
// Processed is true only when local state was (or already had been)
// successfully mutated by this event type.
type WebhookAck struct {
	Received  bool   `json:"received"`
	Processed bool   `json:"processed"`
	Reason    string `json:"reason,omitempty"`
}

// Canonical acknowledgement reasons. Providers key retry/alerting logic off
// these strings, so they are part of the wire contract.
const (
	AckReasonDuplicate    = "Duplicate event"
	AckReasonUnknownType  = "Unknown event type"
	AckReasonNoSubject    = "Subject mapping not found"
	AckReasonInvalidBody  = "Malformed payload"
	AckReasonProcessError = "Processing failed"
)

// AckProcessed is the acknowledgement for a successfully applied event.
func AckProcessed() *WebhookAck {
	return &WebhookAck{Received: true, Processed: true}
}

// AckSkipped acknowledges receipt without processing, with the reason.
func AckSkipped(reason string) *WebhookAck {
	return &WebhookAck{Received: true, Processed: false, Reason: reason}
}

// WebhookEnvelope is the minimal structure every provider payload shares.
// The full payload stays opaque; only these fields drive routing.
type WebhookEnvelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

// ParseWebhookEnvelope extracts the routing envelope from a raw delivery
// body. Called only after signature verification.
func ParseWebhookEnvelope(body []byte) (*WebhookEnvelope, error) {
	var env WebhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if env.EventID == "" {
		return nil, fmt.Errorf("%w: missing event_id", ErrMalformedPayload)
	}

	if env.EventType == "" {
		return nil, fmt.Errorf("%w: missing event_type", ErrMalformedPayload)
	}

	return &env, nil
}
