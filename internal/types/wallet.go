package types

import (
	"errors"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
)

// ConnectionTypeParam selects how the transaction gets signed: by the
// server-held operator key or by the caller's external wallet. External is
// the default.
const (
	ConnectionTypeParamLegacy   = "legacy"
	ConnectionTypeParamExternal = "external_wallet"
)

func validateConnectionType(s string) error {
	switch s {
	case "", ConnectionTypeParamLegacy, ConnectionTypeParamExternal:
		return nil
	default:
		return errors.New("connectionType must be \"legacy\" or \"external_wallet\"")
	}
}

type PostHashTransactionPayload struct {
	PatentID *string `json:"patentId"`
	// Content carries the artifact bytes, base64 encoded.
	Content        *string `json:"content"`
	AccountID      *string `json:"accountId"`
	Network        string  `json:"network,omitempty"`
	ConnectionType string  `json:"connectionType,omitempty"`
}

func (p *PostHashTransactionPayload) Validate() error {
	if swag.StringValue(p.PatentID) == "" {
		return errors.New("patentId is required")
	}
	if swag.StringValue(p.Content) == "" {
		return errors.New("content is required")
	}
	if swag.StringValue(p.AccountID) == "" {
		return errors.New("accountId is required")
	}
	return validateConnectionType(p.ConnectionType)
}

type PostMessageTransactionPayload struct {
	PatentID       *string `json:"patentId"`
	Hash           string  `json:"hash,omitempty"`
	ChannelID      string  `json:"channelId,omitempty"`
	AccountID      *string `json:"accountId"`
	Network        string  `json:"network,omitempty"`
	ConnectionType string  `json:"connectionType,omitempty"`
}

func (p *PostMessageTransactionPayload) Validate() error {
	if swag.StringValue(p.PatentID) == "" {
		return errors.New("patentId is required")
	}
	if swag.StringValue(p.AccountID) == "" {
		return errors.New("accountId is required")
	}
	return validateConnectionType(p.ConnectionType)
}

type PostNFTTransactionPayload struct {
	PatentID       *string `json:"patentId"`
	Title          string  `json:"title,omitempty"`
	Symbol         string  `json:"symbol,omitempty"`
	AccountID      *string `json:"accountId"`
	Network        string  `json:"network,omitempty"`
	ConnectionType string  `json:"connectionType,omitempty"`
}

func (p *PostNFTTransactionPayload) Validate() error {
	if swag.StringValue(p.PatentID) == "" {
		return errors.New("patentId is required")
	}
	if swag.StringValue(p.AccountID) == "" {
		return errors.New("accountId is required")
	}
	return validateConnectionType(p.ConnectionType)
}

type NFTMetadataPayload struct {
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`
}

type PostNFTMintTransactionPayload struct {
	PatentID       *string            `json:"patentId"`
	TokenID        string             `json:"tokenId,omitempty"`
	Metadata       NFTMetadataPayload `json:"metadata,omitempty"`
	AccountID      *string            `json:"accountId"`
	Network        string             `json:"network,omitempty"`
	ConnectionType string             `json:"connectionType,omitempty"`
}

func (p *PostNFTMintTransactionPayload) Validate() error {
	if swag.StringValue(p.PatentID) == "" {
		return errors.New("patentId is required")
	}
	if swag.StringValue(p.AccountID) == "" {
		return errors.New("accountId is required")
	}
	return validateConnectionType(p.ConnectionType)
}

type PostSubmitSignedTransactionPayload struct {
	// SignedTransactionBytes is the signed payload, base64 encoded.
	SignedTransactionBytes *string `json:"signedTransactionBytes"`
	Network                string  `json:"network,omitempty"`
}

func (p *PostSubmitSignedTransactionPayload) Validate() error {
	if swag.StringValue(p.SignedTransactionBytes) == "" {
		return errors.New("signedTransactionBytes is required")
	}
	return nil
}

type SigningContractPayload struct {
	PatentID    *string `json:"patentId"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	UserID      *string `json:"userId"`
	Timestamp   int64   `json:"timestamp"`
}

type PostVerifySignaturePayload struct {
	Contract     *SigningContractPayload `json:"contract"`
	SignatureHex *string                 `json:"signatureHex"`
	PublicKeyHex *string                 `json:"publicKeyHex"`
	AccountID    string                  `json:"accountId,omitempty"`
	Network      string                  `json:"network,omitempty"`
}

func (p *PostVerifySignaturePayload) Validate() error {
	if p.Contract == nil {
		return errors.New("contract is required")
	}
	if swag.StringValue(p.Contract.PatentID) == "" {
		return errors.New("contract.patentId is required")
	}
	if swag.StringValue(p.Contract.UserID) == "" {
		return errors.New("contract.userId is required")
	}
	if swag.StringValue(p.SignatureHex) == "" {
		return errors.New("signatureHex is required")
	}
	if swag.StringValue(p.PublicKeyHex) == "" {
		return errors.New("publicKeyHex is required")
	}
	return nil
}

type UnsignedTransactionResponse struct {
	TransactionBytes *string         `json:"transactionBytes"`
	TransactionID    *string         `json:"transactionId"`
	ValidUntil       strfmt.DateTime `json:"validUntil"`
	Network          *string         `json:"network"`
	SignedLocally    bool            `json:"signedLocally"`
}

func (r *UnsignedTransactionResponse) Validate() error {
	if swag.StringValue(r.TransactionBytes) == "" {
		return errors.New("transactionBytes is required")
	}
	if swag.StringValue(r.TransactionID) == "" {
		return errors.New("transactionId is required")
	}
	return nil
}

type PostHashTransactionResponse struct {
	UnsignedTransactionResponse
	Hash      *string `json:"hash"`
	Algorithm string  `json:"algorithm,omitempty"`
}

func (r *PostHashTransactionResponse) Validate() error {
	if swag.StringValue(r.Hash) == "" {
		return errors.New("hash is required")
	}
	return r.UnsignedTransactionResponse.Validate()
}

type PostMessageTransactionResponse struct {
	UnsignedTransactionResponse
	ChannelID *string `json:"channelId"`
	Hash      string  `json:"hash,omitempty"`
}

func (r *PostMessageTransactionResponse) Validate() error {
	if swag.StringValue(r.ChannelID) == "" {
		return errors.New("channelId is required")
	}
	return r.UnsignedTransactionResponse.Validate()
}

type PostNFTMintTransactionResponse struct {
	UnsignedTransactionResponse
	TokenID *string `json:"tokenId"`
}

func (r *PostNFTMintTransactionResponse) Validate() error {
	if swag.StringValue(r.TokenID) == "" {
		return errors.New("tokenId is required")
	}
	return r.UnsignedTransactionResponse.Validate()
}

type PostSubmitSignedTransactionResponse struct {
	TransactionID  *string `json:"transactionId"`
	Status         *string `json:"status"`
	PatentID       string  `json:"patentId,omitempty"`
	ChannelID      string  `json:"channelId,omitempty"`
	SequenceNumber uint64  `json:"sequenceNumber,omitempty"`
	TokenID        string  `json:"tokenId,omitempty"`
	Serial         int64   `json:"serial,omitempty"`
}

func (r *PostSubmitSignedTransactionResponse) Validate() error {
	if swag.StringValue(r.TransactionID) == "" {
		return errors.New("transactionId is required")
	}
	if swag.StringValue(r.Status) == "" {
		return errors.New("status is required")
	}
	return nil
}

type GetVerifyAnchorResponse struct {
	Verified   *bool  `json:"verified"`
	ActualHash string `json:"actualHash,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (r *GetVerifyAnchorResponse) Validate() error {
	if r.Verified == nil {
		return errors.New("verified is required")
	}
	return nil
}

type GetBalanceResponse struct {
	AccountID *string `json:"accountId"`
	Balance   *string `json:"balance"`
	Tinybar   int64   `json:"tinybar"`
	Network   string  `json:"network,omitempty"`
}

func (r *GetBalanceResponse) Validate() error {
	if swag.StringValue(r.AccountID) == "" {
		return errors.New("accountId is required")
	}
	if swag.StringValue(r.Balance) == "" {
		return errors.New("balance is required")
	}
	return nil
}

type GetNetworkStatusResponse struct {
	IsOnline  *bool           `json:"isOnline"`
	Network   string          `json:"network,omitempty"`
	CheckedAt strfmt.DateTime `json:"checkedAt,omitempty"`
}

func (r *GetNetworkStatusResponse) Validate() error {
	if r.IsOnline == nil {
		return errors.New("isOnline is required")
	}
	return nil
}

type PostVerifySignatureResponse struct {
	IsValid         *bool  `json:"isValid"`
	SignerAccountID string `json:"signerAccountId,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

func (r *PostVerifySignatureResponse) Validate() error {
	if r.IsValid == nil {
		return errors.New("isValid is required")
	}
	return nil
}

type TransactionRecordResponse struct {
	ID                  *string         `json:"id"`
	PatentID            *string         `json:"patentId"`
	TransactionType     *string         `json:"transactionType"`
	Status              *string         `json:"status"`
	LedgerTransactionID string          `json:"ledgerTransactionId,omitempty"`
	ChannelID           string          `json:"channelId,omitempty"`
	SequenceNumber      int64           `json:"sequenceNumber,omitempty"`
	TokenID             string          `json:"tokenId,omitempty"`
	Serial              int64           `json:"serial,omitempty"`
	HashValue           string          `json:"hashValue,omitempty"`
	ErrorMessage        string          `json:"errorMessage,omitempty"`
	CreatedAt           strfmt.DateTime `json:"createdAt"`
}

func (r *TransactionRecordResponse) Validate() error {
	if swag.StringValue(r.ID) == "" {
		return errors.New("id is required")
	}
	return nil
}

type GetTransactionsResponse struct {
	PatentID *string                      `json:"patentId"`
	Records  []*TransactionRecordResponse `json:"records"`
}

func (r *GetTransactionsResponse) Validate() error {
	if swag.StringValue(r.PatentID) == "" {
		return errors.New("patentId is required")
	}
	return nil
}
