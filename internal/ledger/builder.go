package ledger

import (
	"time"

	"github.com/dropbox/godropbox/time2"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/pkg/errors"
)

// Kind enumerates the ledger operations the builder can produce.
type Kind string

const (
	KindCreateChannel  Kind = "create_channel"
	KindPublishMessage Kind = "publish_message"
	KindCreateToken    Kind = "create_token"
	KindMintToken      Kind = "mint_token"
	KindTransfer       Kind = "transfer"
)

// UnsignedTransaction is a frozen, fee-bounded transaction awaiting an
// external signature. It is owned transiently by the caller between the two
// legs of the signing protocol and never persisted beyond ValidUntil.
type UnsignedTransaction struct {
	Kind          Kind
	PayloadBytes  []byte
	Network       Network
	TransactionID string
	CreatedAt     time.Time
	ValidUntil    time.Time
}

// Builder constructs unsigned transactions for a client-held wallet to sign.
// Every transaction is frozen with an explicit transaction id, node account
// list, fee ceiling and validity window, so the wallet can verify the full
// contents before signing and the server never needs the wallet's key.
type Builder struct {
	clock          time2.Clock
	maxFee         hedera.Hbar
	validFor       time.Duration
	metadataLimit  int
	nodeAccountIDs []hedera.AccountID
}

func NewBuilder(clock time2.Clock, maxFeeHbar float64, validFor time.Duration, metadataLimit int) *Builder {
	if validFor <= 0 {
		validFor = 2 * time.Minute
	}
	if metadataLimit <= 0 {
		metadataLimit = 100
	}
	return &Builder{
		clock:         clock,
		maxFee:        hedera.NewHbar(maxFeeHbar),
		validFor:      validFor,
		metadataLimit: metadataLimit,
		// 0.0.3 exists on both testnet and mainnet, which keeps frozen
		// transactions valid regardless of the selected network.
		nodeAccountIDs: []hedera.AccountID{{Account: 3}},
	}
}

// MetadataLimit is the per-mint metadata byte ceiling enforced by
// BuildMintToken.
func (b *Builder) MetadataLimit() int {
	return b.metadataLimit
}

type CreateChannelParams struct {
	Memo           string
	PayerAccountID string
	Network        Network
}

type PublishMessageParams struct {
	ChannelID      string
	Payload        []byte
	PayerAccountID string
	Network        Network
}

type CreateTokenParams struct {
	Name              string
	Symbol            string
	TreasuryAccountID string
	SupplyKey         hedera.PublicKey
	PayerAccountID    string
	Network           Network
}

type MintTokenParams struct {
	TokenID        string
	Metadata       []byte
	PayerAccountID string
	Network        Network
}

type TransferParams struct {
	FromAccountID  string
	ToAccountID    string
	AmountHbar     float64
	PayerAccountID string
	Network        Network
}

// BuildCreateChannel produces the unsigned topic-create transaction opening
// an anchoring channel. The memo carries the human-readable patent reference.
func (b *Builder) BuildCreateChannel(params CreateChannelParams) (*UnsignedTransaction, error) {
	if params.Memo == "" {
		return nil, NewBuildError("create_channel requires a memo")
	}
	txID, err := b.newTransactionID(params.PayerAccountID)
	if err != nil {
		return nil, err
	}

	tx, err := hedera.NewTopicCreateTransaction().
		SetTopicMemo(params.Memo).
		SetTransactionID(txID).
		SetNodeAccountIDs(b.nodeAccountIDs).
		SetMaxTransactionFee(b.maxFee).
		SetTransactionValidDuration(b.validFor).
		Freeze()
	if err != nil {
		return nil, errors.Wrap(err, "failed to freeze create_channel transaction")
	}

	return b.finish(KindCreateChannel, params.Network, txID, func() ([]byte, error) { return tx.ToBytes() })
}

// BuildPublishMessage produces the unsigned message-submit transaction for
// the second anchoring leg. The channel id must originate from a server-held
// receipt, never verbatim from client input.
func (b *Builder) BuildPublishMessage(params PublishMessageParams) (*UnsignedTransaction, error) {
	if params.ChannelID == "" {
		return nil, NewBuildError("publish_message requires the channel id of a confirmed create_channel step")
	}
	if len(params.Payload) == 0 {
		return nil, NewBuildError("publish_message requires a payload")
	}
	topicID, err := hedera.TopicIDFromString(params.ChannelID)
	if err != nil {
		return nil, NewBuildError("invalid channel id %q: %v", params.ChannelID, err)
	}
	txID, err := b.newTransactionID(params.PayerAccountID)
	if err != nil {
		return nil, err
	}

	tx, err := hedera.NewTopicMessageSubmitTransaction().
		SetTopicID(topicID).
		SetMessage(params.Payload).
		SetTransactionID(txID).
		SetNodeAccountIDs(b.nodeAccountIDs).
		SetMaxTransactionFee(b.maxFee).
		SetTransactionValidDuration(b.validFor).
		Freeze()
	if err != nil {
		return nil, errors.Wrap(err, "failed to freeze publish_message transaction")
	}

	return b.finish(KindPublishMessage, params.Network, txID, func() ([]byte, error) { return tx.ToBytes() })
}

// BuildCreateToken produces the unsigned token-create transaction for a
// non-fungible class with a finite supply of one. The treasury is the
// signer's own account; the server never holds minting authority.
func (b *Builder) BuildCreateToken(params CreateTokenParams) (*UnsignedTransaction, error) {
	if params.Name == "" || params.Symbol == "" {
		return nil, NewBuildError("create_token requires a token name and symbol")
	}
	treasury, err := hedera.AccountIDFromString(params.TreasuryAccountID)
	if err != nil {
		return nil, NewBuildError("invalid treasury account id %q: %v", params.TreasuryAccountID, err)
	}
	txID, err := b.newTransactionID(params.PayerAccountID)
	if err != nil {
		return nil, err
	}

	tx, err := hedera.NewTokenCreateTransaction().
		SetTokenName(truncate(params.Name, b.metadataLimit)).
		SetTokenSymbol(params.Symbol).
		SetTokenType(hedera.TokenTypeNonFungibleUnique).
		SetSupplyType(hedera.TokenSupplyTypeFinite).
		SetMaxSupply(1).
		SetInitialSupply(0).
		SetDecimals(0).
		SetTreasuryAccountID(treasury).
		SetSupplyKey(params.SupplyKey).
		SetTransactionID(txID).
		SetNodeAccountIDs(b.nodeAccountIDs).
		SetMaxTransactionFee(b.maxFee).
		SetTransactionValidDuration(b.validFor).
		Freeze()
	if err != nil {
		return nil, errors.Wrap(err, "failed to freeze create_token transaction")
	}

	return b.finish(KindCreateToken, params.Network, txID, func() ([]byte, error) { return tx.ToBytes() })
}

// BuildMintToken produces the unsigned mint transaction for one unit of a
// previously created token class. Oversized metadata is rejected rather than
// cut at a byte boundary; a blind cut could anchor unparseable metadata.
// Callers shrink their payload to MetadataLimit before building.
func (b *Builder) BuildMintToken(params MintTokenParams) (*UnsignedTransaction, error) {
	if params.TokenID == "" {
		return nil, NewBuildError("mint_token requires the token id of a confirmed create_token step")
	}
	tokenID, err := hedera.TokenIDFromString(params.TokenID)
	if err != nil {
		return nil, NewBuildError("invalid token id %q: %v", params.TokenID, err)
	}
	if len(params.Metadata) == 0 {
		return nil, NewBuildError("mint_token requires metadata")
	}
	if len(params.Metadata) > b.metadataLimit {
		return nil, NewBuildError("mint_token metadata is %d bytes, the ledger ceiling is %d", len(params.Metadata), b.metadataLimit)
	}
	txID, err := b.newTransactionID(params.PayerAccountID)
	if err != nil {
		return nil, err
	}

	tx, err := hedera.NewTokenMintTransaction().
		SetTokenID(tokenID).
		SetMetadata(params.Metadata).
		SetTransactionID(txID).
		SetNodeAccountIDs(b.nodeAccountIDs).
		SetMaxTransactionFee(b.maxFee).
		SetTransactionValidDuration(b.validFor).
		Freeze()
	if err != nil {
		return nil, errors.Wrap(err, "failed to freeze mint_token transaction")
	}

	return b.finish(KindMintToken, params.Network, txID, func() ([]byte, error) { return tx.ToBytes() })
}

// BuildTransfer produces an unsigned hbar transfer between two accounts.
func (b *Builder) BuildTransfer(params TransferParams) (*UnsignedTransaction, error) {
	if params.AmountHbar <= 0 {
		return nil, NewBuildError("transfer requires a positive amount")
	}
	from, err := hedera.AccountIDFromString(params.FromAccountID)
	if err != nil {
		return nil, NewBuildError("invalid sender account id %q: %v", params.FromAccountID, err)
	}
	to, err := hedera.AccountIDFromString(params.ToAccountID)
	if err != nil {
		return nil, NewBuildError("invalid recipient account id %q: %v", params.ToAccountID, err)
	}
	payer := params.PayerAccountID
	if payer == "" {
		payer = params.FromAccountID
	}
	txID, err := b.newTransactionID(payer)
	if err != nil {
		return nil, err
	}

	tx, err := hedera.NewTransferTransaction().
		AddHbarTransfer(from, hedera.NewHbar(-params.AmountHbar)).
		AddHbarTransfer(to, hedera.NewHbar(params.AmountHbar)).
		SetTransactionID(txID).
		SetNodeAccountIDs(b.nodeAccountIDs).
		SetMaxTransactionFee(b.maxFee).
		SetTransactionValidDuration(b.validFor).
		Freeze()
	if err != nil {
		return nil, errors.Wrap(err, "failed to freeze transfer transaction")
	}

	return b.finish(KindTransfer, params.Network, txID, func() ([]byte, error) { return tx.ToBytes() })
}

func (b *Builder) newTransactionID(payerAccountID string) (hedera.TransactionID, error) {
	if payerAccountID == "" {
		return hedera.TransactionID{}, NewBuildError("payer account id is required")
	}
	payer, err := hedera.AccountIDFromString(payerAccountID)
	if err != nil {
		return hedera.TransactionID{}, NewBuildError("invalid payer account id %q: %v", payerAccountID, err)
	}
	// the valid-start embedded in the frozen bytes must come from the same
	// clock that prices the advertised window, or the expiry check would
	// disagree with what the wallet signed
	return hedera.NewTransactionIDWithValidStart(payer, b.clock.Now()), nil
}

func (b *Builder) finish(kind Kind, network Network, txID hedera.TransactionID, toBytes func() ([]byte, error)) (*UnsignedTransaction, error) {
	payload, err := toBytes()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize %s transaction", kind)
	}

	now := b.clock.Now()
	if txID.ValidStart != nil {
		now = *txID.ValidStart
	}
	return &UnsignedTransaction{
		Kind:          kind,
		PayloadBytes:  payload,
		Network:       network,
		TransactionID: txID.String(),
		CreatedAt:     now,
		ValidUntil:    now.Add(b.validFor),
	}, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
