package persistence

import (
	"time"

	"github.com/aarondl/null/v8"
)

// TransactionType identifies the workflow step a record belongs to.
type TransactionType string

const (
	TransactionTypeCreateChannel  TransactionType = "create_channel"
	TransactionTypePublishMessage TransactionType = "publish_message"
	TransactionTypeCreateToken    TransactionType = "create_token"
	TransactionTypeNFTMint        TransactionType = "nft_mint"
)

// Status is the record lifecycle state. Transitions are monotone:
// pending -> confirmed or pending -> failed, never reversed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// BlockchainTransactionRecord is the persisted trace of one workflow step.
// Ledger-assigned identifiers stay null until the step is confirmed.
type BlockchainTransactionRecord struct {
	ID                  string
	PatentID            string
	TransactionType     TransactionType
	LedgerTransactionID null.String
	ChannelID           null.String
	SequenceNumber      null.Int64
	TokenID             null.String
	Serial              null.Int64
	HashValue           null.String
	ErrorMessage        null.String
	Status              Status
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
