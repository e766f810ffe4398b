package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api/httperrors"
	"github.com/patentvault/go-anchor-wallet/internal/auth"
	"github.com/patentvault/go-anchor-wallet/internal/types"
	"github.com/patentvault/go-anchor-wallet/internal/util"
)

type contextKey string

const claimsContextKey contextKey = "auth_claims"

// BearerAuth validates the Authorization header against the JWT manager and
// stores the resolved claims in the request context.
func BearerAuth(manager *auth.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return httperrors.NewHTTPError(http.StatusUnauthorized, types.PublicHTTPErrorTypeCredential, "Missing or malformed bearer token")
			}

			claims, err := manager.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				util.LogFromEchoContext(c).Debug().Err(err).Msg("Rejected bearer token")
				return httperrors.NewHTTPError(http.StatusUnauthorized, types.PublicHTTPErrorTypeCredential, "Invalid bearer token")
			}

			req := c.Request()
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), claimsContextKey, claims)))

			return next(c)
		}
	}
}

// RequireScope rejects authenticated requests whose token does not grant the
// given scope. It must run after BearerAuth.
func RequireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFromContext(c.Request().Context())
			if claims == nil || !claims.HasScope(scope) {
				return httperrors.NewHTTPError(http.StatusForbidden, types.PublicHTTPErrorTypeAccessDenied, "Token does not grant the required scope")
			}
			return next(c)
		}
	}
}

// ClaimsFromContext returns the authenticated claims, or nil outside an
// authenticated route.
func ClaimsFromContext(ctx context.Context) *auth.AppClaims {
	claims, _ := ctx.Value(claimsContextKey).(*auth.AppClaims)
	return claims
}
