package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"account-hub/app/domain"
	"account-hub/app/driver/kratos"
	"account-hub/app/port"

	kratosclient "github.com/ory/kratos-client-go"
)

// IdentityProvider is the slice of the Kratos client this gateway needs.
type IdentityProvider interface {
	WhoAmI(ctx context.Context, sessionToken string) (*kratosclient.Session, error)
	WhoAmIWithCookie(ctx context.Context, cookieHeader string) (*kratosclient.Session, error)
	GetIdentity(ctx context.Context, identityID string) (*kratosclient.Identity, error)
}

// IdentityGateway implements port.IdentityGateway. It acts as an
// anti-corruption layer between the domain and the identity provider.
type IdentityGateway struct {
	client IdentityProvider
	logger *slog.Logger
}

// NewIdentityGateway creates a new IdentityGateway instance
func NewIdentityGateway(client IdentityProvider, logger *slog.Logger) port.IdentityGateway {
	return &IdentityGateway{
		client: client,
		logger: logger.With("component", "identity_gateway"),
	}
}

// WhoAmI verifies a session token and returns the asserted claims.
func (g *IdentityGateway) WhoAmI(ctx context.Context, sessionToken string) (*domain.SessionClaims, error) {
	session, err := g.client.WhoAmI(ctx, sessionToken)
	if err != nil {
		return nil, g.translateSessionError(err)
	}

	return g.sessionClaims(session)
}

// WhoAmIWithCookie verifies a browser session from the raw Cookie header.
func (g *IdentityGateway) WhoAmIWithCookie(ctx context.Context, cookieHeader string) (*domain.SessionClaims, error) {
	session, err := g.client.WhoAmIWithCookie(ctx, cookieHeader)
	if err != nil {
		return nil, g.translateSessionError(err)
	}

	return g.sessionClaims(session)
}

// GetIdentity fetches the provider's current traits for an identity.
func (g *IdentityGateway) GetIdentity(ctx context.Context, identityID string) (*domain.SessionClaims, error) {
	identity, err := g.client.GetIdentity(ctx, identityID)
	if err != nil {
		switch {
		case errors.Is(err, kratos.ErrIdentityNotFound):
			return nil, fmt.Errorf("%w: identity %s", domain.ErrUserNotFound, identityID)
		case errors.Is(err, kratos.ErrUnavailable):
			return nil, domain.NewIdentityError(domain.ErrCodeInternal, "identity provider unavailable", err)
		default:
			return nil, fmt.Errorf("failed to fetch identity %s: %w", identityID, err)
		}
	}

	claims, err := kratos.IdentityToClaims(identity)
	if err != nil {
		g.logger.Error("identity conversion failed", "identity_id", identityID, "error", err)
		return nil, fmt.Errorf("failed to convert identity %s: %w", identityID, err)
	}

	return claims, nil
}

func (g *IdentityGateway) sessionClaims(session *kratosclient.Session) (*domain.SessionClaims, error) {
	claims, err := kratos.SessionToClaims(session)
	if err != nil {
		g.logger.Warn("session conversion failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSession, err)
	}

	g.logger.Debug("session verified",
		"identity_id", claims.IdentityID,
		"session_id", claims.SessionID)

	return claims, nil
}

// translateSessionError maps driver errors onto domain errors so the
// middleware can answer 401 for bad tokens and 503 for provider outages.
func (g *IdentityGateway) translateSessionError(err error) error {
	switch {
	case errors.Is(err, kratos.ErrSessionInvalid):
		return fmt.Errorf("%w: %v", domain.ErrInvalidSession, err)
	case errors.Is(err, kratos.ErrUnavailable):
		return domain.NewIdentityError(domain.ErrCodeInternal, "identity provider unavailable", err)
	default:
		return fmt.Errorf("session verification failed: %w", err)
	}
}
