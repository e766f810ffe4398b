package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api/httperrors"
	"github.com/patentvault/go-anchor-wallet/internal/api/middleware"
	"github.com/patentvault/go-anchor-wallet/internal/auth"
	"github.com/patentvault/go-anchor-wallet/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invokeProtected(t *testing.T, manager *auth.JWTManager, authorization string) (*auth.AppClaims, error) {
	t.Helper()

	var seen *auth.AppClaims
	handler := middleware.BearerAuth(manager)(middleware.RequireScope(auth.ScopeWallet)(func(c echo.Context) error {
		seen = middleware.ClaimsFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet/network-status", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	c := echo.New().NewContext(req, httptest.NewRecorder())

	err := handler(c)
	return seen, err
}

func TestBearerAuthAcceptsScopedToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", "patentvault", time.Hour)
	token, err := manager.Generate("user-1", []string{auth.ScopeWallet})
	require.NoError(t, err)

	claims, err := invokeProtected(t, manager, "Bearer "+token)
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestBearerAuthRejectsMissingHeader(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", "patentvault", time.Hour)

	_, err := invokeProtected(t, manager, "")
	require.Error(t, err)

	var httpErr *httperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestBearerAuthRejectsForeignToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", "patentvault", time.Hour)
	other := auth.NewJWTManager("other-secret", "patentvault", time.Hour)
	token, err := other.Generate("user-1", []string{auth.ScopeWallet})
	require.NoError(t, err)

	_, err = invokeProtected(t, manager, "Bearer "+token)
	require.Error(t, err)

	var httpErr *httperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireScopeRejectsUnscopedToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", "patentvault", time.Hour)
	token, err := manager.Generate("user-1", []string{"other"})
	require.NoError(t, err)

	_, err = invokeProtected(t, manager, "Bearer "+token)
	require.Error(t, err)

	var httpErr *httperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
	assert.Equal(t, types.PublicHTTPErrorTypeAccessDenied, httpErr.Type)
}
