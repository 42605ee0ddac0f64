package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"account-hub/app/domain"
	"account-hub/app/port"
)

// AuthMiddleware verifies session tokens with the identity provider and
// resolves them onto a local (user, tenant, role). Token verification is
// fully delegated: whatever the provider accepts is trusted.
type AuthMiddleware struct {
	identityGateway port.IdentityGateway
	tenantUsecase   port.TenantUsecase
	logger          *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(identityGateway port.IdentityGateway, tenantUsecase port.TenantUsecase, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		identityGateway: identityGateway,
		tenantUsecase:   tenantUsecase,
		logger:          logger.With("component", "auth_middleware"),
	}
}

// RequireSession authenticates the request and attaches the resolved session
// to the echo context under the user_id, tenant_id, user_role and
// session_claims keys.
func (m *AuthMiddleware) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			claims, err := m.verify(c)
			if err != nil {
				var identityErr *domain.IdentityError
				if errors.As(err, &identityErr) {
					m.logger.Error("identity provider unreachable", "error", err)
					return echo.NewHTTPError(http.StatusServiceUnavailable, "identity provider unavailable")
				}

				m.logger.Debug("session verification failed", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			// ヘッダーで明示されたテナントはクレームのヒントより優先
			if hint := c.Request().Header.Get("X-Tenant-ID"); hint != "" {
				claims.TenantHint = hint
			}

			session, err := m.tenantUsecase.ResolveSession(ctx, claims)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidSession) {
					m.logger.Warn("claims rejected during resolution", "error", err)
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
				}

				m.logger.Error("session resolution failed",
					"identity_id", claims.IdentityID,
					"error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "session resolution failed")
			}

			c.Set("user_id", session.UserID)
			c.Set("tenant_id", session.TenantID)
			c.Set("user_role", string(session.Role))
			c.Set("session_claims", claims)

			c.SetRequest(c.Request().WithContext(domain.WithSessionContext(ctx, session)))

			return next(c)
		}
	}
}

// verify extracts the session credential and asks the identity provider to
// confirm it. Browser cookies are forwarded whole; API clients use the
// Authorization or X-Session-Token headers.
func (m *AuthMiddleware) verify(c echo.Context) (*domain.SessionClaims, error) {
	ctx := c.Request().Context()

	if cookieHeader := c.Request().Header.Get("Cookie"); strings.Contains(cookieHeader, "ory_kratos_session") {
		return m.identityGateway.WhoAmIWithCookie(ctx, cookieHeader)
	}

	if auth := c.Request().Header.Get("Authorization"); auth != "" {
		token := strings.TrimPrefix(auth, "Bearer ")
		return m.identityGateway.WhoAmI(ctx, token)
	}

	if token := c.Request().Header.Get("X-Session-Token"); token != "" {
		return m.identityGateway.WhoAmI(ctx, token)
	}

	return nil, fmt.Errorf("%w: no session credential", domain.ErrInvalidSession)
}
