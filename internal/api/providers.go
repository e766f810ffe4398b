package api

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/patentvault/go-anchor-wallet/internal/anchor"
	"github.com/patentvault/go-anchor-wallet/internal/auth"
	"github.com/patentvault/go-anchor-wallet/internal/config"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/metrics"
	"github.com/patentvault/go-anchor-wallet/internal/nft"
	"github.com/patentvault/go-anchor-wallet/internal/persistence"
	"github.com/patentvault/go-anchor-wallet/internal/signing"
	"github.com/redis/go-redis/v9"
)

// PROVIDERS - component constructors that for various reasons (e.g. cyclic
// dependency) can't live in their corresponding packages, or that only wrap
// sub-config plumbing. InitNewServer assembles them in dependency order.

func NewClock(t ...*testing.T) time2.Clock {
	var clock time2.Clock

	useMock := len(t) > 0 && t[0] != nil

	if useMock {
		clock = time2.NewMockClock(time.Now())
	} else {
		clock = time2.DefaultClock
	}

	return clock
}

func NewDB(config config.Server) (*sql.DB, error) {
	return persistence.NewDB(config.Database)
}

func NewRedisClient(cfg config.Server) (*redis.Client, error) {
	if cfg.Redis.Endpoint == "" {
		return nil, fmt.Errorf("redis endpoint is not configured")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Endpoint,
		Password: cfg.Redis.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewJWTManager(cfg config.Server) *auth.JWTManager {
	return auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenDuration)
}

func NewBuilder(cfg config.Server, clock time2.Clock) *ledger.Builder {
	return ledger.NewBuilder(clock, cfg.Hedera.MaxTransactionFeeHbar, cfg.Hedera.TransactionValidDuration, cfg.Hedera.NFTMetadataLimit)
}

// InitNewServer wires the full dependency graph on top of an already
// configured Server shell. It is split from NewServer so tests can swap
// individual components before initialization completes.
func InitNewServer(s *Server) error {
	db, err := NewDB(s.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	s.DB = db

	redisClient, err := NewRedisClient(s.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	s.Redis = redisClient

	s.Clock = NewClock()
	s.Metrics = metrics.New()
	s.JWT = NewJWTManager(s.Config)

	s.Store = persistence.NewPostgreSQLStore(s.DB)
	s.ClientFactory = ledger.NewClientFactory(s.Config.Hedera)
	s.Builder = NewBuilder(s.Config, s.Clock)
	s.Queries = ledger.NewQueryService(s.ClientFactory, s.Config.Hedera.QueryTimeout)

	s.Coordinator = signing.NewCoordinator(signing.NewRedisStepCache(s.Redis), s.Clock)
	submitter := ledger.NewSubmitter(s.ClientFactory, s.Config.Hedera.SubmitTimeout)
	s.Submit = signing.NewService(s.Coordinator, submitter, s.Store, s.Metrics, s.Clock)
	s.SignatureVerifier = signing.NewVerifier(s.Queries)

	s.AnchorWorkflow = anchor.NewWorkflow(s.Builder, s.Coordinator, s.Store, s.Metrics, s.Clock)
	s.AnchorVerifier = anchor.NewVerifier(s.Config.Hedera)
	s.NFTWorkflow = nft.NewWorkflow(s.Builder, s.Coordinator, s.Store, s.Queries, s.Metrics, s.Clock)

	return nil
}
