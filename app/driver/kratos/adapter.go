package kratos

import (
	"fmt"
	"strings"

	kratosclient "github.com/ory/kratos-client-go"

	"account-hub/app/domain"
)

// SessionToClaims converts a verified Kratos session into session claims.
// Trait values are trusted as-is; Kratos already validated them against the
// identity schema.
func SessionToClaims(session *kratosclient.Session) (*domain.SessionClaims, error) {
	if session == nil {
		return nil, fmt.Errorf("kratos session is nil")
	}
	if !session.GetActive() {
		return nil, fmt.Errorf("%w: session inactive", ErrSessionInvalid)
	}

	identity, ok := session.GetIdentityOk()
	if !ok || identity == nil {
		return nil, fmt.Errorf("%w: session carries no identity", ErrSessionInvalid)
	}

	claims := identityClaims(identity)
	claims.SessionID = session.Id
	if session.ExpiresAt != nil {
		claims.ExpiresAt = session.ExpiresAt
	}

	if err := claims.Validate(); err != nil {
		return nil, fmt.Errorf("kratos session claims incomplete: %w", err)
	}

	return claims, nil
}

// IdentityToClaims converts an admin API identity into claims. Used when an
// identity webhook forces a re-read of the provider's current traits; no
// session fields are present.
func IdentityToClaims(identity *kratosclient.Identity) (*domain.SessionClaims, error) {
	if identity == nil {
		return nil, fmt.Errorf("kratos identity is nil")
	}

	claims := identityClaims(identity)
	if err := claims.Validate(); err != nil {
		return nil, fmt.Errorf("kratos identity claims incomplete: %w", err)
	}

	return claims, nil
}

func identityClaims(identity *kratosclient.Identity) *domain.SessionClaims {
	claims := &domain.SessionClaims{
		IdentityID: identity.Id,
	}

	if traits, ok := identity.GetTraits().(map[string]interface{}); ok {
		if email, ok := traits["email"].(string); ok {
			claims.Email = email
		}
		claims.Name = extractName(traits)
		if hint, ok := traits["tenant"].(string); ok {
			claims.TenantHint = hint
		}
	}

	// Verification status rides on the address list, not the traits
	for _, addr := range identity.GetVerifiableAddresses() {
		if addr.Via == "email" && addr.Value == claims.Email {
			claims.EmailVerified = addr.Verified
			break
		}
	}

	return claims
}

// extractName handles both flat string and structured first/last name traits.
func extractName(traits map[string]interface{}) string {
	switch name := traits["name"].(type) {
	case string:
		return name
	case map[string]interface{}:
		first, _ := name["first"].(string)
		last, _ := name["last"].(string)
		return strings.TrimSpace(first + " " + last)
	}
	return ""
}
