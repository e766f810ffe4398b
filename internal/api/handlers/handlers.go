package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/api/handlers/common"
	"github.com/patentvault/go-anchor-wallet/internal/api/handlers/wallet"
)

// AttachAllRoutes binds every route of the service onto the server's router
// groups.
func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		common.GetMetricsRoute(s),

		wallet.PostHashTransactionRoute(s),
		wallet.PostMessageTransactionRoute(s),
		wallet.PostNFTTransactionRoute(s),
		wallet.PostNFTMintTransactionRoute(s),
		wallet.PostSubmitSignedTransactionRoute(s),
		wallet.PostVerifySignatureRoute(s),
		wallet.GetVerifyAnchorRoute(s),
		wallet.GetBalanceRoute(s),
		wallet.GetNetworkStatusRoute(s),
		wallet.GetTransactionsRoute(s),
	}
}
