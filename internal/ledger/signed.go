package ledger

import (
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/pkg/errors"
)

// SignedTransaction is a decoded signed counterpart. The embedded signature
// stays opaque to the server; only the ledger verifies it at submission
// time. Transaction id and validity window are readable from the frozen
// body, which is what the expiry check relies on.
type SignedTransaction struct {
	PayloadBytes  []byte
	Network       Network
	Kind          Kind
	TransactionID string
	ValidStart    time.Time
	ValidDuration time.Duration
}

// ValidUntil is the last instant the ledger would still accept this
// transaction.
func (t *SignedTransaction) ValidUntil() time.Time {
	return t.ValidStart.Add(t.ValidDuration)
}

type decodedTransaction struct {
	kind          Kind
	txID          hedera.TransactionID
	validDuration time.Duration
	tx            interface{}
}

// decodeTransactionBytes parses serialized transaction bytes and extracts
// the fields common to every supported kind. Unsupported kinds are rejected
// rather than submitted blindly.
func decodeTransactionBytes(payload []byte) (*decodedTransaction, error) {
	if len(payload) == 0 {
		return nil, NewMalformedSignatureError(nil, "transaction bytes are empty")
	}

	parsed, err := hedera.TransactionFromBytes(payload)
	if err != nil {
		return nil, NewMalformedSignatureError(err, "transaction bytes do not decode as a ledger transaction")
	}

	d := &decodedTransaction{tx: parsed}
	switch tx := parsed.(type) {
	case hedera.TopicCreateTransaction:
		d.kind = KindCreateChannel
		d.txID = tx.GetTransactionID()
		d.validDuration = tx.GetTransactionValidDuration()
	case hedera.TopicMessageSubmitTransaction:
		d.kind = KindPublishMessage
		d.txID = tx.GetTransactionID()
		d.validDuration = tx.GetTransactionValidDuration()
	case hedera.TokenCreateTransaction:
		d.kind = KindCreateToken
		d.txID = tx.GetTransactionID()
		d.validDuration = tx.GetTransactionValidDuration()
	case hedera.TokenMintTransaction:
		d.kind = KindMintToken
		d.txID = tx.GetTransactionID()
		d.validDuration = tx.GetTransactionValidDuration()
	case hedera.TransferTransaction:
		d.kind = KindTransfer
		d.txID = tx.GetTransactionID()
		d.validDuration = tx.GetTransactionValidDuration()
	default:
		return nil, NewMalformedSignatureError(nil, "unsupported transaction type %T", parsed)
	}

	return d, nil
}

// DecodeSigned parses signed transaction bytes handed back by an external
// wallet. It fails with a malformed-signature kind for anything that does
// not decode as a well-formed counterpart of a supported kind.
func DecodeSigned(payload []byte, network Network) (*SignedTransaction, error) {
	d, err := decodeTransactionBytes(payload)
	if err != nil {
		return nil, err
	}

	signed := &SignedTransaction{
		PayloadBytes:  payload,
		Network:       network,
		Kind:          d.kind,
		TransactionID: d.txID.String(),
		ValidDuration: d.validDuration,
	}
	if d.txID.ValidStart != nil {
		signed.ValidStart = *d.txID.ValidStart
	}

	return signed, nil
}

// SignLocally signs an unsigned transaction with the operator secret of a
// legacy wallet connection. External-wallet connections never reach this
// path.
func SignLocally(unsigned *UnsignedTransaction, secret string) (*SignedTransaction, error) {
	if unsigned == nil {
		return nil, NewValidationError("unsigned transaction is required")
	}

	key, err := hedera.PrivateKeyFromString(secret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse operator private key")
	}

	d, err := decodeTransactionBytes(unsigned.PayloadBytes)
	if err != nil {
		return nil, err
	}

	var signedBytes []byte
	switch tx := d.tx.(type) {
	case hedera.TopicCreateTransaction:
		signedBytes, err = tx.Sign(key).ToBytes()
	case hedera.TopicMessageSubmitTransaction:
		signedBytes, err = tx.Sign(key).ToBytes()
	case hedera.TokenCreateTransaction:
		signedBytes, err = tx.Sign(key).ToBytes()
	case hedera.TokenMintTransaction:
		signedBytes, err = tx.Sign(key).ToBytes()
	case hedera.TransferTransaction:
		signedBytes, err = tx.Sign(key).ToBytes()
	default:
		return nil, NewMalformedSignatureError(nil, "unsupported transaction type %T", d.tx)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize signed transaction")
	}

	return DecodeSigned(signedBytes, unsigned.Network)
}
