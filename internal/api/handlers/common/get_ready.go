package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api"
)

// GetReadyRoute reports whether the server finished initialization.
func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(521, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
