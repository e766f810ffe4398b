package ledger

import (
	"context"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/patentvault/go-anchor-wallet/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ClientFactory hands out short-lived network clients scoped to a single
// logical operation. No handle is shared across concurrent operations and
// none outlives the call it was acquired for, so no long-lived
// secret-bearing connection sits in process memory.
type ClientFactory struct {
	cfg config.Hedera
}

func NewClientFactory(cfg config.Hedera) *ClientFactory {
	return &ClientFactory{cfg: cfg}
}

// Acquire opens a client for the given network. The caller must release it
// on every exit path; prefer WithClient.
func (f *ClientFactory) Acquire(network Network) (*hedera.Client, error) {
	var client *hedera.Client
	switch network {
	case NetworkTestnet:
		client = hedera.ClientForTestnet()
	case NetworkMainnet:
		client = hedera.ClientForMainnet()
	default:
		return nil, NewValidationError("unknown network %q", network)
	}

	// Operator credentials are only present for the legacy autonomous
	// signing path. Caller-signed flows run without an operator.
	if f.cfg.OperatorAccountID != "" && f.cfg.OperatorPrivateKey != "" {
		operatorID, err := hedera.AccountIDFromString(f.cfg.OperatorAccountID)
		if err != nil {
			f.Release(client)
			return nil, errors.Wrap(err, "invalid operator account id")
		}
		operatorKey, err := hedera.PrivateKeyFromString(f.cfg.OperatorPrivateKey)
		if err != nil {
			f.Release(client)
			return nil, errors.Wrap(err, "invalid operator private key")
		}
		client.SetOperator(operatorID, operatorKey)
	}

	return client, nil
}

// Release closes the client. Close errors are logged, not propagated, since
// the operation the handle served has already produced its own outcome.
func (f *ClientFactory) Release(client *hedera.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close ledger client")
	}
}

// WithClient runs fn with a freshly acquired client and guarantees release
// on every exit path, including panics inside fn.
func (f *ClientFactory) WithClient(ctx context.Context, network Network, fn func(client *hedera.Client) error) error {
	if err := ctx.Err(); err != nil {
		return NewNetworkUnavailableError(err, "context cancelled before acquiring ledger client")
	}

	client, err := f.Acquire(network)
	if err != nil {
		return err
	}
	defer f.Release(client)

	return fn(client)
}
