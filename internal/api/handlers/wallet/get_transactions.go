package wallet

import (
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/api/middleware"
	"github.com/patentvault/go-anchor-wallet/internal/persistence"
	"github.com/patentvault/go-anchor-wallet/internal/types"
	"github.com/patentvault/go-anchor-wallet/internal/util"
)

func GetTransactionsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.GET("/transactions/:patentId", getTransactionsHandler(s))
}

// getTransactionsHandler lists the persisted workflow records of a patent,
// newest first.
func getTransactionsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		patentID := c.Param("patentId")
		if claims := middleware.ClaimsFromContext(ctx); claims != nil {
			scoped := log.With().Str("user_id", claims.UserID).Logger()
			log = &scoped
		}

		records, err := s.Store.ListByPatent(ctx, patentID)
		if err != nil {
			log.Error().Err(err).Str("patent_id", patentID).Msg("Failed to list transaction records")
			return err
		}

		response := &types.GetTransactionsResponse{
			PatentID: swag.String(patentID),
			Records:  make([]*types.TransactionRecordResponse, 0, len(records)),
		}
		for _, record := range records {
			response.Records = append(response.Records, recordToResponse(record))
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}

func recordToResponse(record *persistence.BlockchainTransactionRecord) *types.TransactionRecordResponse {
	return &types.TransactionRecordResponse{
		ID:                  swag.String(record.ID),
		PatentID:            swag.String(record.PatentID),
		TransactionType:     swag.String(string(record.TransactionType)),
		Status:              swag.String(string(record.Status)),
		LedgerTransactionID: record.LedgerTransactionID.String,
		ChannelID:           record.ChannelID.String,
		SequenceNumber:      record.SequenceNumber.Int64,
		TokenID:             record.TokenID.String,
		Serial:              record.Serial.Int64,
		HashValue:           record.HashValue.String,
		ErrorMessage:        record.ErrorMessage.String,
		CreatedAt:           strfmt.DateTime(record.CreatedAt),
	}
}
