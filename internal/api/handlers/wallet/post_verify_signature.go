package wallet

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/signing"
	"github.com/patentvault/go-anchor-wallet/internal/types"
	"github.com/patentvault/go-anchor-wallet/internal/util"
)

func PostVerifySignatureRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/verify-signature", postVerifySignatureHandler(s))
}

// postVerifySignatureHandler validates an offline signature over a signing
// contract. The check itself never errors; any malformed input comes back as
// isValid=false with a reason.
func postVerifySignatureHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostVerifySignaturePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		network, err := ledger.ParseNetwork(body.Network, ledger.Network(s.Config.Hedera.DefaultNetwork))
		if err != nil {
			return err
		}

		contract := signing.Contract{
			PatentID:    swag.StringValue(body.Contract.PatentID),
			Title:       body.Contract.Title,
			Description: body.Contract.Description,
			Category:    body.Contract.Category,
			UserID:      swag.StringValue(body.Contract.UserID),
			Timestamp:   body.Contract.Timestamp,
		}

		result := s.SignatureVerifier.Verify(ctx, contract,
			swag.StringValue(body.SignatureHex),
			swag.StringValue(body.PublicKeyHex),
			body.AccountID, network)

		response := &types.PostVerifySignatureResponse{
			IsValid:         swag.Bool(result.IsValid),
			SignerAccountID: result.SignerAccountID,
			Reason:          result.Reason,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
