package ledger

import (
	"context"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/pkg/errors"
)

// QueryService wraps the read-only ledger queries used by the wallet API:
// balances, liveness and account key lookups.
type QueryService struct {
	factory *ClientFactory
	timeout time.Duration
}

func NewQueryService(factory *ClientFactory, timeout time.Duration) *QueryService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &QueryService{factory: factory, timeout: timeout}
}

// AccountBalance returns the hbar balance of the given account as the
// ledger's own display string (e.g. "10 ℏ") plus the raw tinybar value.
func (q *QueryService) AccountBalance(ctx context.Context, network Network, accountID string) (string, int64, error) {
	account, err := hedera.AccountIDFromString(accountID)
	if err != nil {
		return "", 0, NewValidationError("invalid account id %q: %v", accountID, err)
	}

	var display string
	var tinybar int64
	err = q.withTimeout(ctx, network, func(client *hedera.Client) error {
		balance, queryErr := hedera.NewAccountBalanceQuery().
			SetAccountID(account).
			Execute(client)
		if queryErr != nil {
			return translateSubmitError(queryErr)
		}
		display = balance.Hbars.String()
		tinybar = balance.Hbars.AsTinybar()
		return nil
	})
	if err != nil {
		return "", 0, err
	}

	return display, tinybar, nil
}

// AccountKey resolves the key currently bound to an account. Used to
// validate that a claimed public key really controls the claimed account,
// and to derive the supply key for caller-owned token classes.
func (q *QueryService) AccountKey(ctx context.Context, network Network, accountID string) (hedera.PublicKey, error) {
	account, err := hedera.AccountIDFromString(accountID)
	if err != nil {
		return hedera.PublicKey{}, NewValidationError("invalid account id %q: %v", accountID, err)
	}

	var key hedera.PublicKey
	err = q.withTimeout(ctx, network, func(client *hedera.Client) error {
		info, queryErr := hedera.NewAccountInfoQuery().
			SetAccountID(account).
			Execute(client)
		if queryErr != nil {
			return translateSubmitError(queryErr)
		}

		publicKey, ok := info.Key.(hedera.PublicKey)
		if !ok {
			return errors.Errorf("account %s is controlled by a %T, not a single public key", accountID, info.Key)
		}
		key = publicKey
		return nil
	})
	if err != nil {
		return hedera.PublicKey{}, err
	}

	return key, nil
}

// Ping reports whether the network's consensus nodes are reachable.
func (q *QueryService) Ping(ctx context.Context, network Network) error {
	return q.withTimeout(ctx, network, func(client *hedera.Client) error {
		if err := client.Ping(hedera.AccountID{Account: 3}); err != nil {
			return NewNetworkUnavailableError(err, "ledger network is unreachable")
		}
		return nil
	})
}

// withTimeout runs fn against a scoped client with the query timeout
// enforced, mirroring the submitter's bounded-call policy.
func (q *QueryService) withTimeout(ctx context.Context, network Network, fn func(client *hedera.Client) error) error {
	return q.factory.WithClient(ctx, network, func(client *hedera.Client) error {
		done := make(chan error, 1)
		go func() {
			done <- fn(client)
		}()

		timer := time.NewTimer(q.timeout)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return NewNetworkUnavailableError(ctx.Err(), "ledger query cancelled")
		case <-timer.C:
			return NewNetworkUnavailableError(nil, "ledger query timed out after %s", q.timeout)
		case err := <-done:
			return err
		}
	})
}
