package port

//go:generate mockgen -source=upstream_port.go -destination=../mocks/mock_upstream_port.go

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// BillingGateway defines access to the payments service. Payloads are opaque
// upstream JSON; transport errors surface as domain upstream errors.
type BillingGateway interface {
	FetchBillingSummary(ctx context.Context, tenantID, userID uuid.UUID) (json.RawMessage, error)
	FetchEntitlements(ctx context.Context, tenantID, userID uuid.UUID) (json.RawMessage, error)
}

// CRMGateway defines access to the CRM service.
type CRMGateway interface {
	FetchProfile(ctx context.Context, tenantID, userID uuid.UUID) (json.RawMessage, error)
}
