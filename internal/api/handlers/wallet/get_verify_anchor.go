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

func GetVerifyAnchorRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.GET("/verify-anchor/:channelId/:sequenceNumber", getVerifyAnchorHandler(s))
}

// getVerifyAnchorHandler re-reads an anchored message from the ledger's
// mirror API and compares it against the expected hash. Verification is
// advisory: every degraded condition comes back as verified=false with a
// message, never as an error response.
func getVerifyAnchorHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		network, err := ledger.ParseNetwork(c.QueryParam("network"), ledger.Network(s.Config.Hedera.DefaultNetwork))
		if err != nil {
			return err
		}

		result := s.AnchorVerifier.Verify(ctx, network,
			c.Param("channelId"), c.Param("sequenceNumber"), c.QueryParam("expectedHash"))

		response := &types.GetVerifyAnchorResponse{
			Verified:   swag.Bool(result.Verified),
			ActualHash: result.ActualHash,
			Timestamp:  result.Timestamp,
			Message:    result.Message,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
