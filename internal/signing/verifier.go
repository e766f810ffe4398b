package signing

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/hex"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/rs/zerolog/log"
)

// AccountKeyResolver confirms which key currently controls an account.
// Implemented by ledger.QueryService.
type AccountKeyResolver interface {
	AccountKey(ctx context.Context, network ledger.Network, accountID string) (hedera.PublicKey, error)
}

// VerifyResult reports the outcome of an offline signature check. Reason is
// always populated when IsValid is false so authorization failures are never
// a bare "failed".
type VerifyResult struct {
	IsValid         bool
	SignerAccountID string
	Reason          string
}

// Verifier validates externally produced signatures over the canonical
// signing contract. Verification is a total function: malformed input of any
// shape yields IsValid=false instead of an error, because the result drives
// an authorization decision that must be computable for every request.
type Verifier struct {
	resolver AccountKeyResolver
}

func NewVerifier(resolver AccountKeyResolver) *Verifier {
	return &Verifier{resolver: resolver}
}

func invalid(reason string) VerifyResult {
	return VerifyResult{IsValid: false, Reason: reason}
}

// Verify checks that signatureHex is a valid ed25519 signature by
// publicKeyHex over the contract's canonical bytes, and that the public key
// is the one bound to the claimed account on the ledger. The account binding
// is validated, not assumed: an unreachable ledger fails closed.
func (v *Verifier) Verify(ctx context.Context, contract Contract, signatureHex, publicKeyHex, claimedAccountID string, network ledger.Network) VerifyResult {
	message, err := contract.CanonicalBytes()
	if err != nil {
		return invalid("invalid signing contract: " + err.Error())
	}

	signature, err := hex.DecodeString(signatureHex)
	if err != nil {
		return invalid("signature is not valid hex")
	}
	if len(signature) != ed25519.SignatureSize {
		return invalid("signature has the wrong length for ed25519")
	}

	keyBytes, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return invalid("public key is not valid hex")
	}
	publicKey, err := hedera.PublicKeyFromBytes(keyBytes)
	if err != nil {
		return invalid("public key does not decode as a ledger key")
	}

	raw := publicKey.BytesRaw()
	if len(raw) != ed25519.PublicKeySize {
		return invalid("public key is not an ed25519 key")
	}

	if !ed25519.Verify(ed25519.PublicKey(raw), message, signature) {
		return invalid("signature does not match the signing contract")
	}

	if claimedAccountID == "" {
		return invalid("claimed account id is required")
	}

	accountKey, err := v.resolver.AccountKey(ctx, network, claimedAccountID)
	if err != nil {
		// fail closed: a binding we cannot confirm is a binding we reject
		log.Warn().Err(err).Str("account_id", claimedAccountID).Msg("Failed to resolve account key for signature verification")
		return invalid("could not confirm that the public key belongs to account " + claimedAccountID)
	}

	if !bytes.Equal(accountKey.BytesRaw(), raw) {
		return invalid("public key is not bound to account " + claimedAccountID)
	}

	return VerifyResult{IsValid: true, SignerAccountID: claimedAccountID}
}
