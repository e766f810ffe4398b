package wallet

import (
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/anchor"
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/types"
	"github.com/patentvault/go-anchor-wallet/internal/util"
)

func PostMessageTransactionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/message-transaction", postMessageTransactionHandler(s))
}

// postMessageTransactionHandler builds the second anchoring leg: the
// publish-message transaction against the channel confirmed for the patent.
func postMessageTransactionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostMessageTransactionPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		conn, err := connectionFromRequest(s, swag.StringValue(body.AccountID), body.Network, body.ConnectionType)
		if err != nil {
			return err
		}

		result, err := s.AnchorWorkflow.PrepareMessage(ctx, anchor.PrepareMessageRequest{
			PatentID:        swag.StringValue(body.PatentID),
			Hash:            body.Hash,
			ClientChannelID: body.ChannelID,
			Conn:            conn,
		})
		if err != nil {
			log.Debug().Err(err).Str("patent_id", swag.StringValue(body.PatentID)).Msg("Failed to prepare publish-message transaction")
			return err
		}

		network, _ := conn.Network()

		response := &types.PostMessageTransactionResponse{
			UnsignedTransactionResponse: types.UnsignedTransactionResponse{
				TransactionBytes: swag.String(result.Signature.TransportB64),
				TransactionID:    swag.String(result.Signature.TransactionID),
				ValidUntil:       strfmt.DateTime(result.Signature.ValidUntil),
				Network:          swag.String(string(network)),
				SignedLocally:    result.Signature.SignedLocally,
			},
			ChannelID: swag.String(result.ChannelID),
			Hash:      result.Hash,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
