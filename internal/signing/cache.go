package signing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/persistence"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// PendingStep is the continuation context for an unsigned transaction that
// is out with an external signer. It lives exactly as long as the
// transaction's validity window.
type PendingStep struct {
	PatentID      string                      `json:"patentId"`
	RecordID      string                      `json:"recordId"`
	Kind          ledger.Kind                 `json:"kind"`
	Type          persistence.TransactionType `json:"transactionType"`
	Network       ledger.Network              `json:"network"`
	TransactionID string                      `json:"transactionId"`
	ChannelID     string                      `json:"channelId,omitempty"`
	Hash          string                      `json:"hash,omitempty"`
	CreatedAt     time.Time                   `json:"createdAt"`
	ValidUntil    time.Time                   `json:"validUntil"`
}

// StepCache stores pending steps keyed by ledger transaction id.
type StepCache interface {
	SavePending(ctx context.Context, step *PendingStep, ttl time.Duration) error
	GetPending(ctx context.Context, transactionID string) (*PendingStep, error)
	DeletePending(ctx context.Context, transactionID string) error
}

// RedisStepCache implements StepCache on Redis with TTL-scoped entries.
type RedisStepCache struct {
	client *redis.Client
}

func NewRedisStepCache(client *redis.Client) *RedisStepCache {
	return &RedisStepCache{client: client}
}

func pendingKey(transactionID string) string {
	return "anchor:pending:" + transactionID
}

func (c *RedisStepCache) SavePending(ctx context.Context, step *PendingStep, ttl time.Duration) error {
	if step == nil || step.TransactionID == "" {
		return errors.New("pending step requires a transaction id")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	data, err := json.Marshal(step)
	if err != nil {
		return errors.Wrap(err, "failed to marshal pending step")
	}

	if err := c.client.Set(ctx, pendingKey(step.TransactionID), data, ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to save pending step")
	}

	return nil
}

// GetPending returns nil when the step is unknown or already expired out of
// the cache.
func (c *RedisStepCache) GetPending(ctx context.Context, transactionID string) (*PendingStep, error) {
	data, err := c.client.Get(ctx, pendingKey(transactionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get pending step")
	}

	var step PendingStep
	if err := json.Unmarshal(data, &step); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal pending step")
	}

	return &step, nil
}

func (c *RedisStepCache) DeletePending(ctx context.Context, transactionID string) error {
	if err := c.client.Del(ctx, pendingKey(transactionID)).Err(); err != nil {
		return errors.Wrap(err, "failed to delete pending step")
	}
	return nil
}
