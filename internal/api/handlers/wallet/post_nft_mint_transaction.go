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

func PostNFTMintTransactionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/nft-mint-transaction", postNFTMintTransactionHandler(s))
}

// postNFTMintTransactionHandler builds the unsigned mint transaction against
// the token class confirmed for the patent.
func postNFTMintTransactionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostNFTMintTransactionPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		conn, err := connectionFromRequest(s, swag.StringValue(body.AccountID), body.Network, body.ConnectionType)
		if err != nil {
			return err
		}

		result, err := s.NFTWorkflow.PrepareMint(ctx, nft.PrepareMintRequest{
			PatentID:      swag.StringValue(body.PatentID),
			ClientTokenID: body.TokenID,
			Metadata: nft.Metadata{
				Title:    body.Metadata.Title,
				Category: body.Metadata.Category,
			},
			Conn: conn,
		})
		if err != nil {
			log.Debug().Err(err).Str("patent_id", swag.StringValue(body.PatentID)).Msg("Failed to prepare mint transaction")
			return err
		}

		network, _ := conn.Network()

		response := &types.PostNFTMintTransactionResponse{
			UnsignedTransactionResponse: types.UnsignedTransactionResponse{
				TransactionBytes: swag.String(result.Signature.TransportB64),
				TransactionID:    swag.String(result.Signature.TransactionID),
				ValidUntil:       strfmt.DateTime(result.Signature.ValidUntil),
				Network:          swag.String(string(network)),
				SignedLocally:    result.Signature.SignedLocally,
			},
			TokenID: swag.String(result.TokenID),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
