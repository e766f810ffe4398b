package common

import (
	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GetMetricsRoute exposes the prometheus registry.
func GetMetricsRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
