package nft

import (
	"context"
	"encoding/json"

	"github.com/aarondl/null/v8"
	"github.com/dropbox/godropbox/time2"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/metrics"
	"github.com/patentvault/go-anchor-wallet/internal/persistence"
	"github.com/patentvault/go-anchor-wallet/internal/signing"
	"github.com/patentvault/go-anchor-wallet/internal/wallet"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultSymbol is used when the caller does not name the token class.
const DefaultSymbol = "PATENT"

// Workflow drives the two-phase mint: create a non-fungible token class for
// the patent, then mint its single unit. The treasury is the signer's own
// account, so the server never holds minting authority for caller-signed
// flows.
type Workflow struct {
	builder     *ledger.Builder
	coordinator *signing.Coordinator
	store       persistence.Store
	queries     signing.AccountKeyResolver
	metrics     *metrics.Service
	clock       time2.Clock
}

func NewWorkflow(builder *ledger.Builder, coordinator *signing.Coordinator, store persistence.Store, queries signing.AccountKeyResolver, metrics *metrics.Service, clock time2.Clock) *Workflow {
	return &Workflow{
		builder:     builder,
		coordinator: coordinator,
		store:       store,
		queries:     queries,
		metrics:     metrics,
		clock:       clock,
	}
}

type PrepareTokenRequest struct {
	PatentID string
	Title    string
	Symbol   string
	Conn     wallet.Connection
}

type PrepareTokenResult struct {
	Signature *signing.SignatureRequest
}

// PrepareToken builds the unsigned token-create transaction. The guard
// against a second mint runs here, but the check-then-act is racy by nature;
// the database uniqueness constraint is what actually settles concurrent
// attempts.
func (w *Workflow) PrepareToken(ctx context.Context, req PrepareTokenRequest) (*PrepareTokenResult, error) {
	if req.PatentID == "" {
		return nil, ledger.NewValidationError("patent id is required")
	}

	accountID, err := req.Conn.AccountID()
	if err != nil {
		return nil, err
	}
	network, err := req.Conn.Network()
	if err != nil {
		return nil, err
	}

	minted, err := w.store.HasConfirmedMint(ctx, req.PatentID)
	if err != nil {
		return nil, err
	}
	if minted {
		return nil, ledger.NewAlreadyMintedError(req.PatentID)
	}

	// the signer's own key becomes the supply key of the class
	supplyKey, err := w.queries.AccountKey(ctx, network, accountID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve the key of treasury account %s", accountID)
	}

	name := req.Title
	if name == "" {
		name = "Patent " + req.PatentID
	}
	symbol := req.Symbol
	if symbol == "" {
		symbol = DefaultSymbol
	}

	record := &persistence.BlockchainTransactionRecord{
		PatentID:        req.PatentID,
		TransactionType: persistence.TransactionTypeCreateToken,
	}
	if err := w.store.CreatePending(ctx, record); err != nil {
		return nil, err
	}

	unsigned, err := w.builder.BuildCreateToken(ledger.CreateTokenParams{
		Name:              name,
		Symbol:            symbol,
		TreasuryAccountID: accountID,
		SupplyKey:         supplyKey,
		PayerAccountID:    accountID,
		Network:           network,
	})
	if err != nil {
		w.failStep(ctx, record.ID, "token_create_requested", err)
		return nil, err
	}

	sigReq, err := w.coordinator.RequestSignature(ctx, req.Conn, unsigned, &signing.PendingStep{
		PatentID: req.PatentID,
		RecordID: record.ID,
		Type:     persistence.TransactionTypeCreateToken,
	})
	if err != nil {
		w.failStep(ctx, record.ID, "token_create_requested", err)
		return nil, err
	}

	w.metrics.ObserveWorkflowStep("nft", "token_create_requested", "ok")

	return &PrepareTokenResult{Signature: sigReq}, nil
}

// Metadata describes the minted patent unit. Serialized to JSON and bounded
// by the ledger's per-transaction metadata ceiling; descriptive text is
// truncated rather than failing the mint.
type Metadata struct {
	PatentID string `json:"patentId"`
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`
}

type PrepareMintRequest struct {
	PatentID string
	// ClientTokenID is advisory only and must match the server-held
	// create_token receipt when present.
	ClientTokenID string
	Metadata      Metadata
	Conn          wallet.Connection
}

type PrepareMintResult struct {
	Signature *signing.SignatureRequest
	TokenID   string
}

// PrepareMint builds the unsigned mint transaction against the token id from
// the server's own confirmed create_token receipt for the patent.
func (w *Workflow) PrepareMint(ctx context.Context, req PrepareMintRequest) (*PrepareMintResult, error) {
	if req.PatentID == "" {
		return nil, ledger.NewValidationError("patent id is required")
	}

	accountID, err := req.Conn.AccountID()
	if err != nil {
		return nil, err
	}
	network, err := req.Conn.Network()
	if err != nil {
		return nil, err
	}

	minted, err := w.store.HasConfirmedMint(ctx, req.PatentID)
	if err != nil {
		return nil, err
	}
	if minted {
		return nil, ledger.NewAlreadyMintedError(req.PatentID)
	}

	tokenRecord, err := w.store.LatestConfirmed(ctx, req.PatentID, persistence.TransactionTypeCreateToken)
	if err != nil {
		return nil, err
	}
	if tokenRecord == nil || !tokenRecord.TokenID.Valid {
		return nil, ledger.NewNotFoundError("patent %s has no confirmed token class; complete the create_token step first", req.PatentID)
	}
	tokenID := tokenRecord.TokenID.String

	if req.ClientTokenID != "" && req.ClientTokenID != tokenID {
		return nil, ledger.NewValidationError(
			"token id %s does not match the confirmed token %s for patent %s", req.ClientTokenID, tokenID, req.PatentID)
	}

	metadata := req.Metadata
	metadata.PatentID = req.PatentID
	metadataBytes, err := marshalMetadataWithin(metadata, w.builder.MetadataLimit())
	if err != nil {
		return nil, err
	}

	record := &persistence.BlockchainTransactionRecord{
		PatentID:        req.PatentID,
		TransactionType: persistence.TransactionTypeNFTMint,
		TokenID:         null.StringFrom(tokenID),
	}
	if err := w.store.CreatePending(ctx, record); err != nil {
		return nil, err
	}

	unsigned, err := w.builder.BuildMintToken(ledger.MintTokenParams{
		TokenID:        tokenID,
		Metadata:       metadataBytes,
		PayerAccountID: accountID,
		Network:        network,
	})
	if err != nil {
		w.failStep(ctx, record.ID, "mint_requested", err)
		return nil, err
	}

	sigReq, err := w.coordinator.RequestSignature(ctx, req.Conn, unsigned, &signing.PendingStep{
		PatentID: req.PatentID,
		RecordID: record.ID,
		Type:     persistence.TransactionTypeNFTMint,
	})
	if err != nil {
		w.failStep(ctx, record.ID, "mint_requested", err)
		return nil, err
	}

	w.metrics.ObserveWorkflowStep("nft", "mint_requested", "ok")

	return &PrepareMintResult{Signature: sigReq, TokenID: tokenID}, nil
}

// marshalMetadataWithin serializes the metadata and shrinks the descriptive
// fields until the result fits the ledger's per-mint byte ceiling. The
// anchored blob must stay valid JSON with the patent binding intact, so the
// patent id itself is never shortened; a payload where the bare binding does
// not fit is rejected.
func marshalMetadataWithin(metadata Metadata, limit int) ([]byte, error) {
	for {
		out, err := json.Marshal(metadata)
		if err != nil {
			return nil, errors.Wrap(err, "failed to serialize token metadata")
		}
		if len(out) <= limit {
			return out, nil
		}
		switch {
		case metadata.Category != "":
			metadata.Category = trimLastRune(metadata.Category)
		case metadata.Title != "":
			metadata.Title = trimLastRune(metadata.Title)
		default:
			return nil, ledger.NewValidationError(
				"token metadata for patent %s does not fit the %d byte ceiling", metadata.PatentID, limit)
		}
	}
}

func trimLastRune(s string) string {
	runes := []rune(s)
	return string(runes[:len(runes)-1])
}

func (w *Workflow) failStep(ctx context.Context, recordID, step string, cause error) {
	w.metrics.ObserveWorkflowStep("nft", step, "failed")
	if err := w.store.MarkFailed(ctx, recordID, cause.Error()); err != nil {
		log.Error().Err(err).Str("record_id", recordID).Msg("Failed to mark transaction record failed")
	}
}
