package wallet

import (
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/types"
	"github.com/patentvault/go-anchor-wallet/internal/util"
)

func GetNetworkStatusRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.GET("/network-status", getNetworkStatusHandler(s))
}

// getNetworkStatusHandler pings a well-known consensus node and reports
// reachability. An unreachable ledger is a valid answer here, not an error.
func getNetworkStatusHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		network, err := ledger.ParseNetwork(c.QueryParam("network"), ledger.Network(s.Config.Hedera.DefaultNetwork))
		if err != nil {
			return err
		}

		isOnline := true
		if err := s.Queries.Ping(ctx, network); err != nil {
			log.Debug().Err(err).Str("network", string(network)).Msg("Ledger ping failed")
			isOnline = false
		}

		response := &types.GetNetworkStatusResponse{
			IsOnline:  swag.Bool(isOnline),
			Network:   string(network),
			CheckedAt: strfmt.DateTime(s.Clock.Now()),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
