package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"account-hub/app/domain"
	"account-hub/app/driver/crm"
	"account-hub/app/port"

	"github.com/google/uuid"
)

// CRMAPI is the slice of the CRM client this gateway needs.
type CRMAPI interface {
	GetContact(ctx context.Context, tenantID, userID uuid.UUID) (json.RawMessage, error)
}

// CRMGateway implements port.CRMGateway. It translates CRM driver errors
// into domain upstream errors.
type CRMGateway struct {
	client CRMAPI
	logger *slog.Logger
}

// NewCRMGateway creates a new CRMGateway instance
func NewCRMGateway(client CRMAPI, logger *slog.Logger) port.CRMGateway {
	return &CRMGateway{
		client: client,
		logger: logger.With("component", "crm_gateway"),
	}
}

// FetchProfile fetches the CRM contact backing a user's profile.
func (g *CRMGateway) FetchProfile(ctx context.Context, tenantID, userID uuid.UUID) (json.RawMessage, error) {
	payload, err := g.client.GetContact(ctx, tenantID, userID)
	if err != nil {
		g.logger.Warn("profile fetch failed",
			"tenant_id", tenantID,
			"user_id", userID,
			"error", err)
		return nil, translateCRMError(err)
	}

	return payload, nil
}

func translateCRMError(err error) error {
	switch {
	case errors.Is(err, crm.ErrUnauthorized):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamAuth, err)
	case errors.Is(err, crm.ErrNotFound):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamNotFound, err)
	case errors.Is(err, crm.ErrRateLimited):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamRateLimited, err)
	case errors.Is(err, crm.ErrTemporaryFailure):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrUpstreamRejected, err)
	}
}
