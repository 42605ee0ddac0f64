package gateway

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"account-hub/app/domain"
	"account-hub/app/driver/kratos"

	kratosclient "github.com/ory/kratos-client-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a test logger
func testLogger() *slog.Logger {
	return slog.Default()
}

type stubIdentityProvider struct {
	session  *kratosclient.Session
	identity *kratosclient.Identity
	err      error
}

func (s *stubIdentityProvider) WhoAmI(ctx context.Context, sessionToken string) (*kratosclient.Session, error) {
	return s.session, s.err
}

func (s *stubIdentityProvider) WhoAmIWithCookie(ctx context.Context, cookieHeader string) (*kratosclient.Session, error) {
	return s.session, s.err
}

func (s *stubIdentityProvider) GetIdentity(ctx context.Context, identityID string) (*kratosclient.Identity, error) {
	return s.identity, s.err
}

func verifiedSession() *kratosclient.Session {
	return &kratosclient.Session{
		Id:     "session-abc",
		Active: kratosclient.PtrBool(true),
		Identity: &kratosclient.Identity{
			Id: "identity-123",
			Traits: map[string]interface{}{
				"email": "aya@example.com",
				"name":  "Aya",
			},
		},
	}
}

func TestIdentityGateway_WhoAmI(t *testing.T) {
	t.Run("valid token yields claims", func(t *testing.T) {
		gateway := NewIdentityGateway(&stubIdentityProvider{session: verifiedSession()}, testLogger())

		claims, err := gateway.WhoAmI(context.Background(), "ory_st_token")

		require.NoError(t, err)
		assert.Equal(t, "identity-123", claims.IdentityID)
		assert.Equal(t, "aya@example.com", claims.Email)
		assert.Equal(t, "session-abc", claims.SessionID)
	})

	t.Run("rejected token maps to invalid session", func(t *testing.T) {
		gateway := NewIdentityGateway(&stubIdentityProvider{err: kratos.ErrSessionInvalid}, testLogger())

		claims, err := gateway.WhoAmI(context.Background(), "bad-token")

		assert.ErrorIs(t, err, domain.ErrInvalidSession)
		assert.Nil(t, claims)
	})

	t.Run("provider outage maps to identity error, not invalid session", func(t *testing.T) {
		gateway := NewIdentityGateway(&stubIdentityProvider{err: kratos.ErrUnavailable}, testLogger())

		claims, err := gateway.WhoAmI(context.Background(), "any-token")

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidSession)

		var identityErr *domain.IdentityError
		require.True(t, errors.As(err, &identityErr))
		assert.Equal(t, domain.ErrCodeInternal, identityErr.Code)
		assert.Nil(t, claims)
	})

	t.Run("inactive session maps to invalid session", func(t *testing.T) {
		session := verifiedSession()
		session.Active = kratosclient.PtrBool(false)
		gateway := NewIdentityGateway(&stubIdentityProvider{session: session}, testLogger())

		claims, err := gateway.WhoAmI(context.Background(), "stale-token")

		assert.ErrorIs(t, err, domain.ErrInvalidSession)
		assert.Nil(t, claims)
	})
}

func TestIdentityGateway_WhoAmIWithCookie(t *testing.T) {
	t.Run("valid cookie session yields claims", func(t *testing.T) {
		gateway := NewIdentityGateway(&stubIdentityProvider{session: verifiedSession()}, testLogger())

		claims, err := gateway.WhoAmIWithCookie(context.Background(), "ory_kratos_session=abc")

		require.NoError(t, err)
		assert.Equal(t, "identity-123", claims.IdentityID)
	})
}

func TestIdentityGateway_GetIdentity(t *testing.T) {
	t.Run("admin identity yields claims", func(t *testing.T) {
		stub := &stubIdentityProvider{
			identity: &kratosclient.Identity{
				Id:     "identity-123",
				Traits: map[string]interface{}{"email": "aya@example.com"},
			},
		}
		gateway := NewIdentityGateway(stub, testLogger())

		claims, err := gateway.GetIdentity(context.Background(), "identity-123")

		require.NoError(t, err)
		assert.Equal(t, "aya@example.com", claims.Email)
		assert.Empty(t, claims.SessionID)
	})

	t.Run("missing identity maps to user not found", func(t *testing.T) {
		gateway := NewIdentityGateway(&stubIdentityProvider{err: kratos.ErrIdentityNotFound}, testLogger())

		claims, err := gateway.GetIdentity(context.Background(), "gone")

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Nil(t, claims)
	})
}
