package ledger

import (
	"context"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Receipt carries the identifiers the ledger assigned to a confirmed
// transaction. Immutable once produced.
type Receipt struct {
	TransactionID  string
	ChannelID      string
	SequenceNumber uint64
	TokenID        string
	Serials        []int64
}

// Submitter submits signed transactions and awaits their receipts. It never
// retries on its own: resubmitting the same signed bytes can double-create,
// so the decision to retry (with freshly built bytes) belongs to the caller.
type Submitter struct {
	factory *ClientFactory
	timeout time.Duration
}

func NewSubmitter(factory *ClientFactory, timeout time.Duration) *Submitter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Submitter{factory: factory, timeout: timeout}
}

// Submit executes the signed transaction, awaits the consensus receipt and
// extracts the identifiers relevant to its kind. Ledger status codes are
// translated into the error taxonomy here; callers never see raw codes.
func (s *Submitter) Submit(ctx context.Context, signed *SignedTransaction) (*Receipt, error) {
	if signed == nil {
		return nil, NewValidationError("signed transaction is required")
	}

	var receipt *Receipt
	err := s.factory.WithClient(ctx, signed.Network, func(client *hedera.Client) error {
		var innerErr error
		receipt, innerErr = s.execute(ctx, client, signed)
		return innerErr
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("kind", string(signed.Kind)).
		Str("network", string(signed.Network)).
		Str("transaction_id", receipt.TransactionID).
		Str("channel_id", receipt.ChannelID).
		Str("token_id", receipt.TokenID).
		Msg("Ledger transaction confirmed")

	return receipt, nil
}

type submitOutcome struct {
	receipt hedera.TransactionReceipt
	txID    hedera.TransactionID
	err     error
}

// execute runs the blocking SDK calls on their own goroutine so a bounded
// timeout can be enforced without leaving the caller hanging on a stalled
// network.
func (s *Submitter) execute(ctx context.Context, client *hedera.Client, signed *SignedTransaction) (*Receipt, error) {
	d, err := decodeTransactionBytes(signed.PayloadBytes)
	if err != nil {
		return nil, err
	}

	outcomeCh := make(chan submitOutcome, 1)
	go func() {
		var resp hedera.TransactionResponse
		var execErr error

		switch tx := d.tx.(type) {
		case hedera.TopicCreateTransaction:
			resp, execErr = tx.Execute(client)
		case hedera.TopicMessageSubmitTransaction:
			resp, execErr = tx.Execute(client)
		case hedera.TokenCreateTransaction:
			resp, execErr = tx.Execute(client)
		case hedera.TokenMintTransaction:
			resp, execErr = tx.Execute(client)
		case hedera.TransferTransaction:
			resp, execErr = tx.Execute(client)
		default:
			execErr = NewMalformedSignatureError(nil, "unsupported transaction type %T", d.tx)
		}
		if execErr != nil {
			outcomeCh <- submitOutcome{err: execErr}
			return
		}

		rcpt, rcptErr := resp.GetReceipt(client)
		outcomeCh <- submitOutcome{receipt: rcpt, txID: resp.TransactionID, err: rcptErr}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, NewNetworkUnavailableError(ctx.Err(), "ledger submission cancelled")
	case <-timer.C:
		return nil, NewNetworkUnavailableError(nil, "ledger submission timed out after %s", s.timeout)
	case outcome := <-outcomeCh:
		if outcome.err != nil {
			return nil, translateSubmitError(outcome.err)
		}
		return extractReceipt(d.kind, outcome.txID, outcome.receipt)
	}
}

func extractReceipt(kind Kind, txID hedera.TransactionID, rcpt hedera.TransactionReceipt) (*Receipt, error) {
	if rcpt.Status != hedera.StatusSuccess {
		return nil, translateStatus(rcpt.Status, nil)
	}

	receipt := &Receipt{TransactionID: txID.String()}

	switch kind {
	case KindCreateChannel:
		if rcpt.TopicID == nil {
			return nil, errors.New("ledger receipt is missing the topic id for a create_channel transaction")
		}
		receipt.ChannelID = rcpt.TopicID.String()
	case KindPublishMessage:
		receipt.SequenceNumber = rcpt.TopicSequenceNumber
	case KindCreateToken:
		if rcpt.TokenID == nil {
			return nil, errors.New("ledger receipt is missing the token id for a create_token transaction")
		}
		receipt.TokenID = rcpt.TokenID.String()
	case KindMintToken:
		receipt.Serials = append(receipt.Serials, rcpt.SerialNumbers...)
	case KindTransfer:
		// a transfer receipt only carries the transaction id
	}

	return receipt, nil
}

// translateSubmitError maps SDK-level failures into the taxonomy. Pre-check
// and receipt status errors carry a ledger status code; everything else is a
// transport failure.
func translateSubmitError(err error) error {
	var preCheck hedera.ErrHederaPreCheckStatus
	if errors.As(err, &preCheck) {
		return translateStatus(preCheck.Status, err)
	}

	var receiptStatus hedera.ErrHederaReceiptStatus
	if errors.As(err, &receiptStatus) {
		return translateStatus(receiptStatus.Status, err)
	}

	var ledgerErr *Error
	if errors.As(err, &ledgerErr) {
		return err
	}

	return NewNetworkUnavailableError(err, "failed to reach the ledger network")
}
