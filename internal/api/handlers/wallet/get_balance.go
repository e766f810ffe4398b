package wallet

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/types"
	"github.com/patentvault/go-anchor-wallet/internal/util"
)

func GetBalanceRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.GET("/balance/:accountId", getBalanceHandler(s))
}

func getBalanceHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		accountID := c.Param("accountId")

		network, err := ledger.ParseNetwork(c.QueryParam("network"), ledger.Network(s.Config.Hedera.DefaultNetwork))
		if err != nil {
			return err
		}

		display, tinybar, err := s.Queries.AccountBalance(ctx, network, accountID)
		if err != nil {
			log.Debug().Err(err).Str("account_id", accountID).Msg("Failed to query account balance")
			return err
		}

		response := &types.GetBalanceResponse{
			AccountID: swag.String(accountID),
			Balance:   swag.String(display),
			Tinybar:   tinybar,
			Network:   string(network),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
