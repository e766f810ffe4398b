package anchor_test

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/dropbox/godropbox/time2"
	"github.com/patentvault/go-anchor-wallet/internal/anchor"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
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

// memoryStepCache keeps pending steps in a map; enough for workflow tests
// that only need the coordinator to function.
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

func newTestWorkflow(store *mockStore) (*anchor.Workflow, *memoryStepCache) {
	clock := time2.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	builder := ledger.NewBuilder(clock, 2, 2*time.Minute, 100)
	cache := newMemoryStepCache()
	coordinator := signing.NewCoordinator(cache, clock)
	return anchor.NewWorkflow(builder, coordinator, store, nil, clock), cache
}

func externalConn() wallet.Connection {
	return wallet.NewExternalConnection("0.0.1234", ledger.NetworkTestnet, nil)
}

func TestPrepareChannel(t *testing.T) {
	store := new(mockStore)
	store.On("CreatePending", mock.Anything, mock.AnythingOfType("*persistence.BlockchainTransactionRecord")).Return(nil)

	workflow, cache := newTestWorkflow(store)

	result, err := workflow.PrepareChannel(context.Background(), anchor.PrepareChannelRequest{
		PatentID: "patent-1",
		Artifact: []byte("patent-draft-v1"),
		Conn:     externalConn(),
	})
	require.NoError(t, err)

	assert.Equal(t, "38df83d7645e7f878a365e31fa78fe8873f967684834c690ffacd7c821f48e34", result.Hash.HexDigest)
	assert.NotEmpty(t, result.Signature.TransportB64)
	assert.False(t, result.Signature.SignedLocally)

	record := store.Calls[0].Arguments.Get(1).(*persistence.BlockchainTransactionRecord)
	assert.Equal(t, persistence.TransactionTypeCreateChannel, record.TransactionType)
	assert.Equal(t, result.Hash.HexDigest, record.HashValue.String)

	step, err := cache.GetPending(context.Background(), result.Signature.TransactionID)
	require.NoError(t, err)
	require.NotNil(t, step)
	assert.Equal(t, "patent-1", step.PatentID)
}

func TestPrepareChannelRequiresArtifact(t *testing.T) {
	workflow, _ := newTestWorkflow(new(mockStore))

	_, err := workflow.PrepareChannel(context.Background(), anchor.PrepareChannelRequest{
		PatentID: "patent-1",
		Conn:     externalConn(),
	})
	require.Error(t, err)
	assert.Equal(t, ledger.ErrorKindValidation, ledger.KindOf(err))
}

func TestPrepareMessageRejectsUnconfirmedChannel(t *testing.T) {
	store := new(mockStore)
	store.On("LatestConfirmed", mock.Anything, "patent-1", persistence.TransactionTypeCreateChannel).Return(nil, nil)

	workflow, _ := newTestWorkflow(store)

	_, err := workflow.PrepareMessage(context.Background(), anchor.PrepareMessageRequest{
		PatentID: "patent-1",
		Hash:     "38df83d7645e7f878a365e31fa78fe8873f967684834c690ffacd7c821f48e34",
		Conn:     externalConn(),
	})
	require.Error(t, err)
	assert.Equal(t, ledger.ErrorKindNotFound, ledger.KindOf(err))

	store.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything)
}

func confirmedChannelRecord(hash string) *persistence.BlockchainTransactionRecord {
	record := &persistence.BlockchainTransactionRecord{
		ID:              "rec-0",
		PatentID:        "patent-1",
		TransactionType: persistence.TransactionTypeCreateChannel,
		ChannelID:       null.StringFrom("0.0.1001"),
		Status:          persistence.StatusConfirmed,
	}
	if hash != "" {
		record.HashValue = null.StringFrom(hash)
	}
	return record
}

func TestPrepareMessageRejectsForeignChannelID(t *testing.T) {
	store := new(mockStore)
	store.On("LatestConfirmed", mock.Anything, "patent-1", persistence.TransactionTypeCreateChannel).
		Return(confirmedChannelRecord("aa"), nil)

	workflow, _ := newTestWorkflow(store)

	_, err := workflow.PrepareMessage(context.Background(), anchor.PrepareMessageRequest{
		PatentID:        "patent-1",
		ClientChannelID: "0.0.9999",
		Conn:            externalConn(),
	})
	require.Error(t, err)
	assert.Equal(t, ledger.ErrorKindValidation, ledger.KindOf(err))
}

func TestPrepareMessageRejectsHashMismatch(t *testing.T) {
	store := new(mockStore)
	store.On("LatestConfirmed", mock.Anything, "patent-1", persistence.TransactionTypeCreateChannel).
		Return(confirmedChannelRecord("cafebabe"), nil)

	workflow, _ := newTestWorkflow(store)

	_, err := workflow.PrepareMessage(context.Background(), anchor.PrepareMessageRequest{
		PatentID: "patent-1",
		Hash:     "deadbeef",
		Conn:     externalConn(),
	})
	require.Error(t, err)
	assert.Equal(t, ledger.ErrorKindValidation, ledger.KindOf(err))
}

func TestPrepareMessageFallsBackToRecordedHash(t *testing.T) {
	store := new(mockStore)
	store.On("LatestConfirmed", mock.Anything, "patent-1", persistence.TransactionTypeCreateChannel).
		Return(confirmedChannelRecord("cafebabe"), nil)
	store.On("CreatePending", mock.Anything, mock.Anything).Return(nil)

	workflow, _ := newTestWorkflow(store)

	result, err := workflow.PrepareMessage(context.Background(), anchor.PrepareMessageRequest{
		PatentID: "patent-1",
		Conn:     externalConn(),
	})
	require.NoError(t, err)

	assert.Equal(t, "0.0.1001", result.ChannelID)
	assert.Equal(t, "cafebabe", result.Hash)
	assert.NotEmpty(t, result.Signature.TransportB64)
}
