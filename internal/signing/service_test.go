package signing_test

import (
	"context"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/persistence"
	"github.com/patentvault/go-anchor-wallet/internal/signing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Submit(ctx context.Context, signed *ledger.SignedTransaction) (*ledger.Receipt, error) {
	args := m.Called(ctx, signed)
	receipt, _ := args.Get(0).(*ledger.Receipt)
	return receipt, args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreatePending(ctx context.Context, record *persistence.BlockchainTransactionRecord) error {
	args := m.Called(ctx, record)
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

type submitFixture struct {
	service   *signing.Service
	cache     *mockStepCache
	submitter *mockSubmitter
	store     *mockStore
	signed    *ledger.SignedTransaction
	pending   *signing.PendingStep
}

func newSubmitFixture(t *testing.T) *submitFixture {
	t.Helper()

	buildTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := time2.NewMockClock(buildTime.Add(10 * time.Second))

	key, err := hedera.PrivateKeyGenerateEd25519()
	require.NoError(t, err)

	unsigned := buildUnsigned(t, time2.NewMockClock(buildTime))
	signed, err := ledger.SignLocally(unsigned, key.String())
	require.NoError(t, err)

	pending := &signing.PendingStep{
		PatentID:      "patent-1",
		RecordID:      "rec-1",
		Kind:          ledger.KindCreateChannel,
		Type:          persistence.TransactionTypeCreateChannel,
		Network:       ledger.NetworkTestnet,
		TransactionID: unsigned.TransactionID,
		ValidUntil:    buildTime.Add(2 * time.Minute),
	}

	cache := new(mockStepCache)
	submitter := new(mockSubmitter)
	store := new(mockStore)

	return &submitFixture{
		service:   signing.NewService(signing.NewCoordinator(cache, clock), submitter, store, nil, clock),
		cache:     cache,
		submitter: submitter,
		store:     store,
		signed:    signed,
		pending:   pending,
	}
}

func TestSubmitSignedConfirmsRecord(t *testing.T) {
	f := newSubmitFixture(t)

	receipt := &ledger.Receipt{
		TransactionID:  f.pending.TransactionID,
		ChannelID:      "0.0.1001",
		SequenceNumber: 1,
	}

	f.cache.On("GetPending", mock.Anything, f.pending.TransactionID).Return(f.pending, nil)
	f.submitter.On("Submit", mock.Anything, mock.AnythingOfType("*ledger.SignedTransaction")).Return(receipt, nil)
	f.store.On("MarkConfirmed", mock.Anything, "rec-1", receipt).Return(nil)
	f.cache.On("DeletePending", mock.Anything, f.pending.TransactionID).Return(nil)

	result, err := f.service.SubmitSigned(context.Background(), f.signed.PayloadBytes, ledger.NetworkTestnet)
	require.NoError(t, err)

	assert.Equal(t, "patent-1", result.PatentID)
	assert.Equal(t, "rec-1", result.RecordID)
	assert.Equal(t, "0.0.1001", result.Receipt.ChannelID)

	f.store.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestSubmitSignedMarksRecordFailed(t *testing.T) {
	f := newSubmitFixture(t)

	submitErr := ledger.NewAlreadyMintedError("patent-1")

	f.cache.On("GetPending", mock.Anything, f.pending.TransactionID).Return(f.pending, nil)
	f.submitter.On("Submit", mock.Anything, mock.Anything).Return(nil, submitErr)
	f.store.On("MarkFailed", mock.Anything, "rec-1", mock.AnythingOfType("string")).Return(nil)
	f.cache.On("DeletePending", mock.Anything, f.pending.TransactionID).Return(nil)

	_, err := f.service.SubmitSigned(context.Background(), f.signed.PayloadBytes, ledger.NetworkTestnet)
	require.Error(t, err)
	assert.Equal(t, ledger.ErrorKindAlreadyMinted, ledger.KindOf(err))

	f.store.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestSubmitSignedKeepsRecordPendingOnNetworkOutage(t *testing.T) {
	f := newSubmitFixture(t)

	submitErr := ledger.NewNetworkUnavailableError(nil, "submit timed out")

	f.cache.On("GetPending", mock.Anything, f.pending.TransactionID).Return(f.pending, nil)
	f.submitter.On("Submit", mock.Anything, mock.Anything).Return(nil, submitErr)

	_, err := f.service.SubmitSigned(context.Background(), f.signed.PayloadBytes, ledger.NetworkTestnet)
	require.Error(t, err)
	assert.Equal(t, ledger.ErrorKindNetworkUnavailable, ledger.KindOf(err))

	// outcome unknown: the record stays pending and the step stays cached
	f.store.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "DeletePending", mock.Anything, mock.Anything)
}

func TestSubmitSignedWithoutPendingStep(t *testing.T) {
	f := newSubmitFixture(t)

	receipt := &ledger.Receipt{TransactionID: f.pending.TransactionID}

	f.cache.On("GetPending", mock.Anything, f.pending.TransactionID).Return(nil, nil)
	f.submitter.On("Submit", mock.Anything, mock.Anything).Return(receipt, nil)
	f.cache.On("DeletePending", mock.Anything, f.pending.TransactionID).Return(nil)

	result, err := f.service.SubmitSigned(context.Background(), f.signed.PayloadBytes, ledger.NetworkTestnet)
	require.NoError(t, err)

	assert.Empty(t, result.PatentID)
	assert.Empty(t, result.RecordID)

	f.store.AssertNotCalled(t, "MarkConfirmed", mock.Anything, mock.Anything, mock.Anything)
}
