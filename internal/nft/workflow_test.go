package nft_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/dropbox/godropbox/time2"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/nft"
	"github.com/patentvault/go-anchor-wallet/internal/persistence"
	"github.com/patentvault/go-anchor-wallet/internal/signing"
	"github.com/patentvault/go-anchor-wallet/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreatePending(ctx context.Context, record *persistence.BlockchainTransactionRecord) error {
	args := m.Called(ctx, record)
	if record.ID == "" {
		record.ID = "rec-1"
	}
	return args.Error(0)
}

func (m *mockStore) MarkConfirmed(ctx context.Context, id string, receipt *ledger.Receipt) error {
	args := m.Called(ctx, id, receipt)
	return args.Error(0)
}

func (m *mockStore) MarkFailed(ctx context.Context, id string, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockStore) LatestConfirmed(ctx context.Context, patentID string, transactionType persistence.TransactionType) (*persistence.BlockchainTransactionRecord, error) {
	args := m.Called(ctx, patentID, transactionType)
	record, _ := args.Get(0).(*persistence.BlockchainTransactionRecord)
	return record, args.Error(1)
}

func (m *mockStore) HasConfirmedMint(ctx context.Context, patentID string) (bool, error) {
	args := m.Called(ctx, patentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) ListByPatent(ctx context.Context, patentID string) ([]*persistence.BlockchainTransactionRecord, error) {
	args := m.Called(ctx, patentID)
	records, _ := args.Get(0).([]*persistence.BlockchainTransactionRecord)
	return records, args.Error(1)
}

type mockKeyResolver struct {
	mock.Mock
}

func (m *mockKeyResolver) AccountKey(ctx context.Context, network ledger.Network, accountID string) (hedera.PublicKey, error) {
	args := m.Called(ctx, network, accountID)
	key, _ := args.Get(0).(hedera.PublicKey)
	return key, args.Error(1)
}

type memoryStepCache struct {
	steps map[string]*signing.PendingStep
}

func newMemoryStepCache() *memoryStepCache {
	return &memoryStepCache{steps: make(map[string]*signing.PendingStep)}
}

func (c *memoryStepCache) SavePending(ctx context.Context, step *signing.PendingStep, ttl time.Duration) error {
	c.steps[step.TransactionID] = step
	return nil
}

func (c *memoryStepCache) GetPending(ctx context.Context, transactionID string) (*signing.PendingStep, error) {
	return c.steps[transactionID], nil
}

func (c *memoryStepCache) DeletePending(ctx context.Context, transactionID string) error {
	delete(c.steps, transactionID)
	return nil
}

func newTestWorkflow(store *mockStore, resolver *mockKeyResolver) *nft.Workflow {
	clock := time2.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	builder := ledger.NewBuilder(clock, 2, 2*time.Minute, 100)
	coordinator := signing.NewCoordinator(newMemoryStepCache(), clock)
	return nft.NewWorkflow(builder, coordinator, store, resolver, nil, clock)
}

func externalConn() wallet.Connection {
	return wallet.NewExternalConnection("0.0.1234", ledger.NetworkTestnet, nil)
}

func TestPrepareToken(t *testing.T) {
	key, err := hedera.PrivateKeyGenerateEd25519()
	require.NoError(t, err)

	store := new(mockStore)
	store.On("HasConfirmedMint", mock.Anything, "patent-1").Return(false, nil)
	store.On("CreatePending", mock.Anything, mock.AnythingOfType("*persistence.BlockchainTransactionRecord")).Return(nil)

	resolver := new(mockKeyResolver)
	resolver.On("AccountKey", mock.Anything, ledger.NetworkTestnet, "0.0.1234").Return(key.PublicKey(), nil)

	workflow := newTestWorkflow(store, resolver)

	result, err := workflow.PrepareToken(context.Background(), nft.PrepareTokenRequest{
		PatentID: "patent-1",
		Title:    "Self-sealing widget",
		Conn:     externalConn(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Signature.TransportB64)
	assert.False(t, result.Signature.SignedLocally)

	parsed, err := hedera.TransactionFromBytes(result.Signature.TransportBytes)
	require.NoError(t, err)
	tx, ok := parsed.(hedera.TokenCreateTransaction)
	require.True(t, ok, "expected a token create transaction, got %T", parsed)
	assert.Equal(t, "Self-sealing widget", tx.GetTokenName())
	assert.Equal(t, nft.DefaultSymbol, tx.GetTokenSymbol())
}

func TestPrepareTokenRejectsSecondMint(t *testing.T) {
	store := new(mockStore)
	store.On("HasConfirmedMint", mock.Anything, "patent-1").Return(true, nil)

	workflow := newTestWorkflow(store, new(mockKeyResolver))

	_, err := workflow.PrepareToken(context.Background(), nft.PrepareTokenRequest{
		PatentID: "patent-1",
		Conn:     externalConn(),
	})
	require.Error(t, err)
	assert.Equal(t, ledger.ErrorKindAlreadyMinted, ledger.KindOf(err))

	store.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything)
}

func TestPrepareMintUsesConfirmedTokenID(t *testing.T) {
	store := new(mockStore)
	store.On("HasConfirmedMint", mock.Anything, "patent-1").Return(false, nil)
	store.On("LatestConfirmed", mock.Anything, "patent-1", persistence.TransactionTypeCreateToken).
		Return(&persistence.BlockchainTransactionRecord{
			ID:              "rec-0",
			PatentID:        "patent-1",
			TransactionType: persistence.TransactionTypeCreateToken,
			TokenID:         null.StringFrom("0.0.2002"),
			Status:          persistence.StatusConfirmed,
		}, nil)
	store.On("CreatePending", mock.Anything, mock.Anything).Return(nil)

	workflow := newTestWorkflow(store, new(mockKeyResolver))

	result, err := workflow.PrepareMint(context.Background(), nft.PrepareMintRequest{
		PatentID: "patent-1",
		Metadata: nft.Metadata{Title: "Self-sealing widget"},
		Conn:     externalConn(),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.0.2002", result.TokenID)

	parsed, err := hedera.TransactionFromBytes(result.Signature.TransportBytes)
	require.NoError(t, err)
	tx, ok := parsed.(hedera.TokenMintTransaction)
	require.True(t, ok, "expected a token mint transaction, got %T", parsed)

	metas := tx.GetMetadatas()
	require.Len(t, metas, 1)

	var metadata nft.Metadata
	require.NoError(t, json.Unmarshal(metas[0], &metadata))
	assert.Equal(t, "patent-1", metadata.PatentID)
}

func TestPrepareMintFitsMetadataWithinLedgerCeiling(t *testing.T) {
	store := new(mockStore)
	store.On("HasConfirmedMint", mock.Anything, "patent-1").Return(false, nil)
	store.On("LatestConfirmed", mock.Anything, "patent-1", persistence.TransactionTypeCreateToken).
		Return(&persistence.BlockchainTransactionRecord{
			TokenID: null.StringFrom("0.0.2002"),
			Status:  persistence.StatusConfirmed,
		}, nil)
	store.On("CreatePending", mock.Anything, mock.Anything).Return(nil)

	workflow := newTestWorkflow(store, new(mockKeyResolver))

	longTitle := strings.Repeat("An exceedingly descriptive patent title ", 10)
	result, err := workflow.PrepareMint(context.Background(), nft.PrepareMintRequest{
		PatentID: "patent-1",
		Metadata: nft.Metadata{Title: longTitle, Category: "mechanical engineering"},
		Conn:     externalConn(),
	})
	require.NoError(t, err)

	parsed, err := hedera.TransactionFromBytes(result.Signature.TransportBytes)
	require.NoError(t, err)
	tx, ok := parsed.(hedera.TokenMintTransaction)
	require.True(t, ok, "expected a token mint transaction, got %T", parsed)

	metas := tx.GetMetadatas()
	require.Len(t, metas, 1)
	assert.LessOrEqual(t, len(metas[0]), 100)

	// the anchored blob must survive shrinking as parseable JSON with the
	// patent binding intact
	var metadata nft.Metadata
	require.NoError(t, json.Unmarshal(metas[0], &metadata))
	assert.Equal(t, "patent-1", metadata.PatentID)
}

func TestPrepareMintRejectsWithoutTokenClass(t *testing.T) {
	store := new(mockStore)
	store.On("HasConfirmedMint", mock.Anything, "patent-1").Return(false, nil)
	store.On("LatestConfirmed", mock.Anything, "patent-1", persistence.TransactionTypeCreateToken).Return(nil, nil)

	workflow := newTestWorkflow(store, new(mockKeyResolver))

	_, err := workflow.PrepareMint(context.Background(), nft.PrepareMintRequest{
		PatentID: "patent-1",
		Conn:     externalConn(),
	})
	require.Error(t, err)
	assert.Equal(t, ledger.ErrorKindNotFound, ledger.KindOf(err))
}

func TestPrepareMintRejectsForeignTokenID(t *testing.T) {
	store := new(mockStore)
	store.On("HasConfirmedMint", mock.Anything, "patent-1").Return(false, nil)
	store.On("LatestConfirmed", mock.Anything, "patent-1", persistence.TransactionTypeCreateToken).
		Return(&persistence.BlockchainTransactionRecord{
			TokenID: null.StringFrom("0.0.2002"),
			Status:  persistence.StatusConfirmed,
		}, nil)

	workflow := newTestWorkflow(store, new(mockKeyResolver))

	_, err := workflow.PrepareMint(context.Background(), nft.PrepareMintRequest{
		PatentID:      "patent-1",
		ClientTokenID: "0.0.9999",
		Conn:          externalConn(),
	})
	require.Error(t, err)
	assert.Equal(t, ledger.ErrorKindValidation, ledger.KindOf(err))

	store.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything)
}

func TestPrepareMintRejectsSecondMint(t *testing.T) {
	store := new(mockStore)
	store.On("HasConfirmedMint", mock.Anything, "patent-1").Return(true, nil)

	workflow := newTestWorkflow(store, new(mockKeyResolver))

	_, err := workflow.PrepareMint(context.Background(), nft.PrepareMintRequest{
		PatentID: "patent-1",
		Conn:     externalConn(),
	})
	require.Error(t, err)
	assert.Equal(t, ledger.ErrorKindAlreadyMinted, ledger.KindOf(err))
}
