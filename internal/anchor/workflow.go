package anchor

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

// Payload is the JSON message published to the anchoring channel.
type Payload struct {
	PatentID  string `json:"patentId"`
	Hash      string `json:"hash"`
	Timestamp int64  `json:"timestamp"`
}

// Workflow drives the two-phase anchoring process: create a channel for the
// artifact, then publish the content hash to it. The two steps are
// independent ledger operations, each with its own signature and receipt,
// and the second never starts before the first's receipt is durably
// recorded. A failed message step leaves the confirmed channel behind as
// recoverable partial state.
type Workflow struct {
	builder     *ledger.Builder
	coordinator *signing.Coordinator
	store       persistence.Store
	metrics     *metrics.Service
	clock       time2.Clock
}

func NewWorkflow(builder *ledger.Builder, coordinator *signing.Coordinator, store persistence.Store, metrics *metrics.Service, clock time2.Clock) *Workflow {
	return &Workflow{
		builder:     builder,
		coordinator: coordinator,
		store:       store,
		metrics:     metrics,
		clock:       clock,
	}
}

type PrepareChannelRequest struct {
	PatentID string
	Artifact []byte
	Conn     wallet.Connection
}

type PrepareChannelResult struct {
	Signature *signing.SignatureRequest
	Hash      ContentHash
}

// PrepareChannel computes the content hash and exposes the unsigned
// create-channel transaction for signing. The hash is persisted with the
// pending record so the message leg can recover it.
func (w *Workflow) PrepareChannel(ctx context.Context, req PrepareChannelRequest) (*PrepareChannelResult, error) {
	if req.PatentID == "" {
		return nil, ledger.NewValidationError("patent id is required")
	}
	if len(req.Artifact) == 0 {
		return nil, ledger.NewValidationError("artifact bytes are required")
	}

	accountID, err := req.Conn.AccountID()
	if err != nil {
		return nil, err
	}
	network, err := req.Conn.Network()
	if err != nil {
		return nil, err
	}

	hash := NewContentHash(req.PatentID, req.Artifact, w.clock)

	record := &persistence.BlockchainTransactionRecord{
		PatentID:        req.PatentID,
		TransactionType: persistence.TransactionTypeCreateChannel,
		HashValue:       null.StringFrom(hash.HexDigest),
	}
	if err := w.store.CreatePending(ctx, record); err != nil {
		return nil, err
	}

	unsigned, err := w.builder.BuildCreateChannel(ledger.CreateChannelParams{
		Memo:           req.PatentID,
		PayerAccountID: accountID,
		Network:        network,
	})
	if err != nil {
		w.failStep(ctx, record.ID, "anchor", "create_channel", err)
		return nil, err
	}

	sigReq, err := w.coordinator.RequestSignature(ctx, req.Conn, unsigned, &signing.PendingStep{
		PatentID: req.PatentID,
		RecordID: record.ID,
		Type:     persistence.TransactionTypeCreateChannel,
		Hash:     hash.HexDigest,
	})
	if err != nil {
		w.failStep(ctx, record.ID, "anchor", "create_channel", err)
		return nil, err
	}

	w.metrics.ObserveWorkflowStep("anchor", "channel_requested", "ok")

	return &PrepareChannelResult{Signature: sigReq, Hash: hash}, nil
}

type PrepareMessageRequest struct {
	PatentID string
	// Hash may be empty, in which case the hash recorded during the channel
	// step is published.
	Hash string
	// ClientChannelID is advisory only: when present it must match the
	// server-held receipt, it is never trusted as the target.
	ClientChannelID string
	Conn            wallet.Connection
}

type PrepareMessageResult struct {
	Signature *signing.SignatureRequest
	ChannelID string
	Hash      string
}

// PrepareMessage builds the second anchoring leg against the channel id from
// the server's own confirmed create_channel receipt for the patent. A
// request arriving before that receipt exists is rejected, which enforces
// the two-phase ordering invariant.
func (w *Workflow) PrepareMessage(ctx context.Context, req PrepareMessageRequest) (*PrepareMessageResult, error) {
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

	channelRecord, err := w.store.LatestConfirmed(ctx, req.PatentID, persistence.TransactionTypeCreateChannel)
	if err != nil {
		return nil, err
	}
	if channelRecord == nil || !channelRecord.ChannelID.Valid {
		return nil, ledger.NewNotFoundError("patent %s has no confirmed anchoring channel; complete the create_channel step first", req.PatentID)
	}
	channelID := channelRecord.ChannelID.String

	if req.ClientChannelID != "" && req.ClientChannelID != channelID {
		return nil, ledger.NewValidationError(
			"channel id %s does not match the confirmed channel %s for patent %s", req.ClientChannelID, channelID, req.PatentID)
	}

	hash := req.Hash
	switch {
	case hash == "" && channelRecord.HashValue.Valid:
		hash = channelRecord.HashValue.String
	case hash == "":
		return nil, ledger.NewValidationError("no content hash available for patent %s", req.PatentID)
	case channelRecord.HashValue.Valid && hash != channelRecord.HashValue.String:
		return nil, ledger.NewValidationError(
			"hash %s does not match the hash computed when the channel was created", hash)
	}

	payload, err := json.Marshal(Payload{
		PatentID:  req.PatentID,
		Hash:      hash,
		Timestamp: w.clock.Now().UnixMilli(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize anchoring payload")
	}

	record := &persistence.BlockchainTransactionRecord{
		PatentID:        req.PatentID,
		TransactionType: persistence.TransactionTypePublishMessage,
		HashValue:       null.StringFrom(hash),
	}
	if err := w.store.CreatePending(ctx, record); err != nil {
		return nil, err
	}

	unsigned, err := w.builder.BuildPublishMessage(ledger.PublishMessageParams{
		ChannelID:      channelID,
		Payload:        payload,
		PayerAccountID: accountID,
		Network:        network,
	})
	if err != nil {
		w.failStep(ctx, record.ID, "anchor", "publish_message", err)
		return nil, err
	}

	sigReq, err := w.coordinator.RequestSignature(ctx, req.Conn, unsigned, &signing.PendingStep{
		PatentID:  req.PatentID,
		RecordID:  record.ID,
		Type:      persistence.TransactionTypePublishMessage,
		ChannelID: channelID,
		Hash:      hash,
	})
	if err != nil {
		w.failStep(ctx, record.ID, "anchor", "publish_message", err)
		return nil, err
	}

	w.metrics.ObserveWorkflowStep("anchor", "message_requested", "ok")

	return &PrepareMessageResult{Signature: sigReq, ChannelID: channelID, Hash: hash}, nil
}

// failStep finalizes the record as failed with the underlying reason. Prior
// confirmed steps are left untouched so the workflow stays resumable.
func (w *Workflow) failStep(ctx context.Context, recordID, workflow, step string, cause error) {
	w.metrics.ObserveWorkflowStep(workflow, step, "failed")
	if err := w.store.MarkFailed(ctx, recordID, cause.Error()); err != nil {
		log.Error().Err(err).Str("record_id", recordID).Msg("Failed to mark transaction record failed")
	}
}
