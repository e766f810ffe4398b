package wallet

import (
	"encoding/base64"
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/anchor"
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/api/httperrors"
	"github.com/patentvault/go-anchor-wallet/internal/types"
	"github.com/patentvault/go-anchor-wallet/internal/util"
)

func PostHashTransactionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/hash-transaction", postHashTransactionHandler(s))
}

// postHashTransactionHandler computes the content hash of the uploaded
// artifact and returns the unsigned create-channel transaction for the
// caller's wallet to sign.
func postHashTransactionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostHashTransactionPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		artifact, err := base64.StdEncoding.DecodeString(swag.StringValue(body.Content))
		if err != nil {
			return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, types.PublicHTTPErrorTypeValidation, "content must be base64 encoded", err.Error())
		}

		conn, err := connectionFromRequest(s, swag.StringValue(body.AccountID), body.Network, body.ConnectionType)
		if err != nil {
			return err
		}

		result, err := s.AnchorWorkflow.PrepareChannel(ctx, anchor.PrepareChannelRequest{
			PatentID: swag.StringValue(body.PatentID),
			Artifact: artifact,
			Conn:     conn,
		})
		if err != nil {
			log.Debug().Err(err).Str("patent_id", swag.StringValue(body.PatentID)).Msg("Failed to prepare create-channel transaction")
			return err
		}

		network, _ := conn.Network()

		response := &types.PostHashTransactionResponse{
			UnsignedTransactionResponse: types.UnsignedTransactionResponse{
				TransactionBytes: swag.String(result.Signature.TransportB64),
				TransactionID:    swag.String(result.Signature.TransactionID),
				ValidUntil:       strfmt.DateTime(result.Signature.ValidUntil),
				Network:          swag.String(string(network)),
				SignedLocally:    result.Signature.SignedLocally,
			},
			Hash:      swag.String(result.Hash.HexDigest),
			Algorithm: result.Hash.Algorithm,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
