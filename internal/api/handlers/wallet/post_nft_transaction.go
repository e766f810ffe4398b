package wallet

import (
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/nft"
	"github.com/patentvault/go-anchor-wallet/internal/types"
	"github.com/patentvault/go-anchor-wallet/internal/util"
)

func PostNFTTransactionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/nft-transaction", postNFTTransactionHandler(s))
}

// postNFTTransactionHandler builds the unsigned create-token transaction for
// the patent's token class.
func postNFTTransactionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostNFTTransactionPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		conn, err := connectionFromRequest(s, swag.StringValue(body.AccountID), body.Network, body.ConnectionType)
		if err != nil {
			return err
		}

		result, err := s.NFTWorkflow.PrepareToken(ctx, nft.PrepareTokenRequest{
			PatentID: swag.StringValue(body.PatentID),
			Title:    body.Title,
			Symbol:   body.Symbol,
			Conn:     conn,
		})
		if err != nil {
			log.Debug().Err(err).Str("patent_id", swag.StringValue(body.PatentID)).Msg("Failed to prepare create-token transaction")
			return err
		}

		network, _ := conn.Network()

		response := &types.UnsignedTransactionResponse{
			TransactionBytes: swag.String(result.Signature.TransportB64),
			TransactionID:    swag.String(result.Signature.TransactionID),
			ValidUntil:       strfmt.DateTime(result.Signature.ValidUntil),
			Network:          swag.String(string(network)),
			SignedLocally:    result.Signature.SignedLocally,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
