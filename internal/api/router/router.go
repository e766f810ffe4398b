package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/api/handlers"
	"github.com/patentvault/go-anchor-wallet/internal/api/httperrors"
	"github.com/patentvault/go-anchor-wallet/internal/api/middleware"
	"github.com/patentvault/go-anchor-wallet/internal/auth"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/types"
	"github.com/patentvault/go-anchor-wallet/internal/util"
)

// Init sets up the echo instance, the shared middleware stack and the route
// groups, then attaches all handlers.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.HTTPErrorHandler = errorHandler(s)

	s.Echo.Use(echoMiddleware.RequestID())
	s.Echo.Use(echoMiddleware.Recover())
	s.Echo.Use(echoMiddleware.Secure())
	s.Echo.Use(middleware.Logger())

	s.Router = &api.Router{
		Root:        s.Echo.Group(""),
		Management:  s.Echo.Group("/-"),
		APIV1Wallet: s.Echo.Group("/api/v1/wallet", middleware.BearerAuth(s.JWT), middleware.RequireScope(auth.ScopeWallet)),
	}

	handlers.AttachAllRoutes(s)
}

// errorHandler serializes every error into the public JSON error shape.
// Typed ledger errors keep their kind as the public type; everything else
// degrades to a generic error with the internals hidden in production.
func errorHandler(s *api.Server) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *httperrors.HTTPError
		if !errors.As(err, &httpErr) {
			httpErr = translateError(err, s.Config.Echo.HideInternalServerErrorDetails)
		}

		httpErr.TraceID = c.Response().Header().Get(echo.HeaderXRequestID)

		if httpErr.Internal != nil {
			util.LogFromEchoContext(c).Error().Err(httpErr.Internal).Int("status", httpErr.Code).Msg("Request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(httpErr.Code)
			return
		}

		_ = c.JSON(httpErr.Code, httpErr.PublicHTTPError)
	}
}

func translateError(err error, hideInternals bool) *httperrors.HTTPError {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		title, ok := echoErr.Message.(string)
		if !ok {
			title = http.StatusText(echoErr.Code)
		}
		return httperrors.NewHTTPErrorWithInternal(echoErr.Code, types.PublicHTTPErrorTypeGeneric, title, echoErr.Internal)
	}

	var ledgerErr *ledger.Error
	if errors.As(err, &ledgerErr) {
		return httperrors.NewHTTPErrorWithInternal(statusForKind(ledgerErr.Kind), string(ledgerErr.Kind), ledgerErr.Message, errors.Unwrap(ledgerErr))
	}

	title := "Internal server error"
	if !hideInternals {
		title = err.Error()
	}

	return httperrors.NewHTTPErrorWithInternal(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, title, err)
}

func statusForKind(kind ledger.ErrorKind) int {
	switch kind {
	case ledger.ErrorKindCredential:
		return http.StatusUnauthorized
	case ledger.ErrorKindNotFound:
		return http.StatusNotFound
	case ledger.ErrorKindNetworkUnavailable, ledger.ErrorKindNetworkCongestion:
		return http.StatusServiceUnavailable
	case ledger.ErrorKindInsufficientFunds:
		return http.StatusPaymentRequired
	default:
		// validation, build, malformed signature, expired, already minted
		return http.StatusBadRequest
	}
}
