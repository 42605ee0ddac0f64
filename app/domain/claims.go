package domain

import (
	"context"
	"fmt"
	"time"
)

// SessionClaims is the verified identity asserted by the identity provider
// for one request. Token verification itself is delegated upstream; these
// fields are trusted as-is once the provider has accepted the token.
type SessionClaims struct {
	IdentityID    string     `json:"identity_id"`
	SessionID     string     `json:"session_id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	EmailVerified bool       `json:"email_verified"`
	TenantHint    string     `json:"tenant_hint,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// Validate checks the minimum fields resolution needs
func (c *SessionClaims) Validate() error {
	if c.IdentityID == "" {
		return fmt.Errorf("claims missing identity ID")
	}
	if c.Email == "" {
		return fmt.Errorf("claims missing email")
	}
	return nil
}

// SessionContext is the per-request resolution result: the local user, the
// tenant the request operates in, and the caller's role inside it. Resolution
// never fails for a valid session; at worst the tenant falls back to the
// user's personal tenant.
type SessionContext struct {
	UserID     string     `json:"user_id"`
	TenantID   string     `json:"tenant_id"`
	IdentityID string     `json:"identity_id"`
	Email      string     `json:"email"`
	Role       TenantRole `json:"role"`
}

type sessionContextKey struct{}

// WithSessionContext attaches the resolved session to a context.
func WithSessionContext(ctx context.Context, sc *SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sc)
}

// SessionFromContext extracts the resolved session from a context.
func SessionFromContext(ctx context.Context) (*SessionContext, error) {
	sc, ok := ctx.Value(sessionContextKey{}).(*SessionContext)
	if !ok || sc == nil {
		return nil, ErrUnauthorized
	}
	return sc, nil
}
