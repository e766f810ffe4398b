package wallet

import (
	"encoding/base64"
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/api/httperrors"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/persistence"
	"github.com/patentvault/go-anchor-wallet/internal/types"
	"github.com/patentvault/go-anchor-wallet/internal/util"
)

func PostSubmitSignedTransactionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/submit-signed-transaction", postSubmitSignedTransactionHandler(s))
}

// postSubmitSignedTransactionHandler closes the signing protocol: it accepts
// the wallet-signed bytes, submits them to the ledger and returns the
// receipt identifiers.
func postSubmitSignedTransactionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostSubmitSignedTransactionPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		payload, err := base64.StdEncoding.DecodeString(swag.StringValue(body.SignedTransactionBytes))
		if err != nil {
			return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, types.PublicHTTPErrorTypeMalformedSignature, "signedTransactionBytes must be base64 encoded", err.Error())
		}

		network, err := ledger.ParseNetwork(body.Network, ledger.Network(s.Config.Hedera.DefaultNetwork))
		if err != nil {
			return err
		}

		result, err := s.Submit.SubmitSigned(ctx, payload, network)
		if err != nil {
			log.Debug().Err(err).Str("network", string(network)).Msg("Signed transaction submission failed")
			return err
		}

		response := &types.PostSubmitSignedTransactionResponse{
			TransactionID:  swag.String(result.Receipt.TransactionID),
			Status:         swag.String(string(persistence.StatusConfirmed)),
			PatentID:       result.PatentID,
			ChannelID:      result.Receipt.ChannelID,
			SequenceNumber: result.Receipt.SequenceNumber,
			TokenID:        result.Receipt.TokenID,
		}
		if len(result.Receipt.Serials) > 0 {
			response.Serial = result.Receipt.Serials[0]
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
