package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"account-hub/app/domain"
	"account-hub/app/driver/billing"
	"account-hub/app/port"

	"github.com/google/uuid"
)

// BillingAPI is the slice of the billing client this gateway needs.
type BillingAPI interface {
	GetSubscription(ctx context.Context, tenantID, userID uuid.UUID) (json.RawMessage, error)
	GetEntitlements(ctx context.Context, tenantID, userID uuid.UUID) (json.RawMessage, error)
}

// BillingGateway implements port.BillingGateway. It translates billing
// driver errors into domain upstream errors.
type BillingGateway struct {
	client BillingAPI
	logger *slog.Logger
}

// NewBillingGateway creates a new BillingGateway instance
func NewBillingGateway(client BillingAPI, logger *slog.Logger) port.BillingGateway {
	return &BillingGateway{
		client: client,
		logger: logger.With("component", "billing_gateway"),
	}
}

// FetchBillingSummary fetches the current subscription state for a user.
func (g *BillingGateway) FetchBillingSummary(ctx context.Context, tenantID, userID uuid.UUID) (json.RawMessage, error) {
	payload, err := g.client.GetSubscription(ctx, tenantID, userID)
	if err != nil {
		g.logger.Warn("billing summary fetch failed",
			"tenant_id", tenantID,
			"user_id", userID,
			"error", err)
		return nil, translateBillingError(err)
	}

	return payload, nil
}

// FetchEntitlements fetches the current entitlement set for a user.
func (g *BillingGateway) FetchEntitlements(ctx context.Context, tenantID, userID uuid.UUID) (json.RawMessage, error) {
	payload, err := g.client.GetEntitlements(ctx, tenantID, userID)
	if err != nil {
		g.logger.Warn("entitlements fetch failed",
			"tenant_id", tenantID,
			"user_id", userID,
			"error", err)
		return nil, translateBillingError(err)
	}

	return payload, nil
}

func translateBillingError(err error) error {
	switch {
	case errors.Is(err, billing.ErrUnauthorized):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamAuth, err)
	case errors.Is(err, billing.ErrNotFound):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamNotFound, err)
	case errors.Is(err, billing.ErrRateLimited):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamRateLimited, err)
	case errors.Is(err, billing.ErrTemporaryFailure):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrUpstreamRejected, err)
	}
}
