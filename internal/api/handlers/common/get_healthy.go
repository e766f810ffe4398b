package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/util"
)

// GetHealthyRoute answers liveness probes. It checks the server's own
// dependencies (database, redis) and reports 521 when any of them is gone.
func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		if !s.Ready() {
			return c.String(521, "Not ready.")
		}

		if err := s.DB.PingContext(ctx); err != nil {
			log.Warn().Err(err).Msg("Database ping failed")
			return c.String(521, "Database unavailable.")
		}

		if err := s.Redis.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis ping failed")
			return c.String(521, "Redis unavailable.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
