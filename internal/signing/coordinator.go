package signing

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/wallet"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SignatureRequest is the outcome of the first protocol leg: transport bytes
// handed to the external signer out-of-band, or an already signed payload
// when the connection is a legacy operator account.
type SignatureRequest struct {
	TransportBytes []byte
	TransportB64   string
	TransactionID  string
	ValidUntil     time.Time
	SignedLocally  bool
}

// Coordinator runs the two-call signing protocol. The signer is outside the
// server's process boundary, so the two legs arrive as independent requests
// separated by an arbitrary delay; the only server-side state is the
// TTL-bounded pending step in the cache.
type Coordinator struct {
	cache StepCache
	clock time2.Clock
}

func NewCoordinator(cache StepCache, clock time2.Clock) *Coordinator {
	return &Coordinator{cache: cache, clock: clock}
}

// RequestSignature exposes an unsigned transaction to the connection's
// signer. External wallets receive the frozen unsigned bytes; legacy
// connections are signed server-side immediately. Either way the pending
// step is cached for the lifetime of the validity window so the submit leg
// can recover its continuation context.
func (c *Coordinator) RequestSignature(ctx context.Context, conn wallet.Connection, unsigned *ledger.UnsignedTransaction, step *PendingStep) (*SignatureRequest, error) {
	if unsigned == nil {
		return nil, ledger.NewValidationError("unsigned transaction is required")
	}
	if step == nil {
		return nil, errors.New("pending step context is required")
	}

	step.Kind = unsigned.Kind
	step.Network = unsigned.Network
	step.TransactionID = unsigned.TransactionID
	step.CreatedAt = unsigned.CreatedAt
	step.ValidUntil = unsigned.ValidUntil

	transport := unsigned.PayloadBytes
	signedLocally := false

	switch conn.Type {
	case wallet.ConnectionTypeLegacy:
		signed, err := conn.Sign(unsigned)
		if err != nil {
			return nil, errors.Wrap(err, "failed to sign transaction with operator key")
		}
		transport = signed.PayloadBytes
		signedLocally = true
	case wallet.ConnectionTypeExternal:
		// the wallet signs outside our trust boundary
	default:
		return nil, errors.Errorf("unknown wallet connection type %q", conn.Type)
	}

	ttl := step.ValidUntil.Sub(c.clock.Now())
	if err := c.cache.SavePending(ctx, step, ttl); err != nil {
		return nil, errors.Wrap(err, "failed to record pending signing step")
	}

	log.Debug().
		Str("patent_id", step.PatentID).
		Str("kind", string(step.Kind)).
		Str("transaction_id", step.TransactionID).
		Time("valid_until", step.ValidUntil).
		Bool("signed_locally", signedLocally).
		Msg("Signature requested")

	return &SignatureRequest{
		TransportBytes: transport,
		TransportB64:   base64.StdEncoding.EncodeToString(transport),
		TransactionID:  unsigned.TransactionID,
		ValidUntil:     unsigned.ValidUntil,
		SignedLocally:  signedLocally,
	}, nil
}

// AcceptSigned validates the signed counterpart arriving on the second leg.
// Malformed bytes and stale validity windows are rejected here, before any
// ledger submission is attempted. The pending step is returned when its
// cache entry still exists; a nil step means the continuation context
// expired with the window and only the bare submission can proceed.
func (c *Coordinator) AcceptSigned(ctx context.Context, payload []byte, network ledger.Network) (*ledger.SignedTransaction, *PendingStep, error) {
	signed, err := ledger.DecodeSigned(payload, network)
	if err != nil {
		return nil, nil, err
	}

	now := c.clock.Now()
	if !signed.ValidStart.IsZero() && now.After(signed.ValidUntil()) {
		return nil, nil, ledger.NewExpiredTransactionError(
			"signed transaction expired at %s, received at %s",
			signed.ValidUntil().UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339),
		)
	}

	step, err := c.cache.GetPending(ctx, signed.TransactionID)
	if err != nil {
		return nil, nil, err
	}
	if step != nil {
		if step.Network != network {
			return nil, nil, ledger.NewValidationError(
				"signed transaction targets network %q but was requested for %q", network, step.Network)
		}
		if now.After(step.ValidUntil) {
			return nil, nil, ledger.NewExpiredTransactionError(
				"signing window for patent %s closed at %s", step.PatentID, step.ValidUntil.UTC().Format(time.RFC3339))
		}
	}

	return signed, step, nil
}

// Complete drops the pending step after a submission settled the record.
func (c *Coordinator) Complete(ctx context.Context, transactionID string) {
	if err := c.cache.DeletePending(ctx, transactionID); err != nil {
		log.Warn().Err(err).Str("transaction_id", transactionID).Msg("Failed to clear pending signing step")
	}
}
