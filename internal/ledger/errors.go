package ledger

import (
	"fmt"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/pkg/errors"
)

// ErrorKind classifies everything that can go wrong between accepting a
// request and finalizing a ledger receipt. Raw Hedera status codes are
// translated into these kinds at the submitter boundary; nothing above it
// inspects SDK error strings.
type ErrorKind string

const (
	ErrorKindValidation         ErrorKind = "validation_error"
	ErrorKindBuild              ErrorKind = "build_error"
	ErrorKindMalformedSignature ErrorKind = "malformed_signature"
	ErrorKindExpiredTransaction ErrorKind = "expired_transaction"
	ErrorKindCredential         ErrorKind = "credential_error"
	ErrorKindInsufficientFunds  ErrorKind = "insufficient_funds"
	ErrorKindNetworkCongestion  ErrorKind = "network_congestion"
	ErrorKindNetworkUnavailable ErrorKind = "network_unavailable"
	ErrorKindAlreadyMinted      ErrorKind = "already_minted"
	ErrorKindNotFound           ErrorKind = "not_found"
)

// Error is the typed error carried across the ledger boundary. Expected
// domain conditions (already minted, expired, malformed input) travel as
// kinds so callers can branch without string matching.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newKindError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...interface{}) *Error {
	return newKindError(ErrorKindValidation, format, args...)
}

func NewBuildError(format string, args ...interface{}) *Error {
	return newKindError(ErrorKindBuild, format, args...)
}

func NewMalformedSignatureError(cause error, format string, args ...interface{}) *Error {
	e := newKindError(ErrorKindMalformedSignature, format, args...)
	e.cause = cause
	return e
}

func NewExpiredTransactionError(format string, args ...interface{}) *Error {
	return newKindError(ErrorKindExpiredTransaction, format, args...)
}

func NewNetworkUnavailableError(cause error, format string, args ...interface{}) *Error {
	e := newKindError(ErrorKindNetworkUnavailable, format, args...)
	e.cause = cause
	return e
}

func NewAlreadyMintedError(patentID string) *Error {
	return newKindError(ErrorKindAlreadyMinted, "patent %s already has a confirmed mint", patentID)
}

func NewNotFoundError(format string, args ...interface{}) *Error {
	return newKindError(ErrorKindNotFound, format, args...)
}

// KindOf extracts the error kind of err, or "" when err carries none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// translateStatus maps a Hedera status code observed during submission into
// the error taxonomy. Unrecognized codes stay generic network failures so a
// new ledger release cannot silently change caller behavior.
func translateStatus(status hedera.Status, cause error) *Error {
	var e *Error
	switch status {
	case hedera.StatusInvalidSignature:
		e = newKindError(ErrorKindCredential, "ledger rejected the transaction signature (account/key mismatch)")
	case hedera.StatusInsufficientPayerBalance:
		e = newKindError(ErrorKindInsufficientFunds, "payer account balance is insufficient for this transaction")
	case hedera.StatusTransactionExpired:
		e = newKindError(ErrorKindNetworkCongestion, "transaction expired before the network reached consensus")
	default:
		e = newKindError(ErrorKindNetworkUnavailable, "ledger returned status %s", status.String())
	}
	e.cause = cause
	return e
}
