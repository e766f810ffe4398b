package wallet

import (
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/types"
	"github.com/patentvault/go-anchor-wallet/internal/wallet"
)

// connectionFromRequest builds the wallet connection for a handler request.
// The legacy type signs with the server-held operator key and is only
// allowed for the configured operator account; everything else is an
// external wallet that signs outside the server.
func connectionFromRequest(s *api.Server, accountID, networkParam, connectionType string) (wallet.Connection, error) {
	network, err := ledger.ParseNetwork(networkParam, ledger.Network(s.Config.Hedera.DefaultNetwork))
	if err != nil {
		return wallet.Connection{}, err
	}

	switch connectionType {
	case types.ConnectionTypeParamLegacy:
		if s.Config.Hedera.OperatorAccountID == "" || s.Config.Hedera.OperatorPrivateKey == "" {
			return wallet.Connection{}, ledger.NewValidationError("legacy signing is not configured on this server")
		}
		if accountID != s.Config.Hedera.OperatorAccountID {
			return wallet.Connection{}, ledger.NewValidationError(
				"legacy signing is only available for the operator account, not %s", accountID)
		}
		return wallet.NewLegacyConnection(s.Config.Hedera.OperatorAccountID, network, s.Config.Hedera.OperatorPrivateKey), nil
	default:
		return wallet.NewExternalConnection(accountID, network, nil), nil
	}
}
