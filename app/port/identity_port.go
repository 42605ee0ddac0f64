package port

//go:generate mockgen -source=identity_port.go -destination=../mocks/mock_identity_port.go

import (
	"context"

	"account-hub/app/domain"
)

// IdentityGateway defines access to the identity provider. Token
// verification is fully delegated: a token the provider accepts yields
// claims, anything else yields a session error.
type IdentityGateway interface {
	// WhoAmI verifies a session token (X-Session-Token or Bearer form) and
	// returns the asserted claims.
	WhoAmI(ctx context.Context, sessionToken string) (*domain.SessionClaims, error)

	// WhoAmIWithCookie verifies a browser session from the raw Cookie
	// header.
	WhoAmIWithCookie(ctx context.Context, cookieHeader string) (*domain.SessionClaims, error)

	// GetIdentity fetches the current traits for an identity via the admin
	// API, used when reconciling identity webhook events.
	GetIdentity(ctx context.Context, identityID string) (*domain.SessionClaims, error)
}
