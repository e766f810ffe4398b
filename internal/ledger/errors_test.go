package ledger

import (
	"testing"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateStatus(t *testing.T) {
	tests := []struct {
		status hedera.Status
		kind   ErrorKind
	}{
		{hedera.StatusInvalidSignature, ErrorKindCredential},
		{hedera.StatusInsufficientPayerBalance, ErrorKindInsufficientFunds},
		{hedera.StatusTransactionExpired, ErrorKindNetworkCongestion},
		{hedera.StatusBusy, ErrorKindNetworkUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			err := translateStatus(tt.status, nil)
			assert.Equal(t, tt.kind, err.Kind)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestKindOfWrappedError(t *testing.T) {
	err := NewAlreadyMintedError("patent-1")
	wrapped := errors.Wrap(err, "workflow step failed")

	assert.Equal(t, ErrorKindAlreadyMinted, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, ErrorKindAlreadyMinted))
	assert.False(t, IsKind(wrapped, ErrorKindValidation))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewNetworkUnavailableError(cause, "submit failed")

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "network_unavailable")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestParseNetwork(t *testing.T) {
	n, err := ParseNetwork(" Testnet ", "")
	require.NoError(t, err)
	assert.Equal(t, NetworkTestnet, n)

	n, err = ParseNetwork("", NetworkMainnet)
	require.NoError(t, err)
	assert.Equal(t, NetworkMainnet, n)

	_, err = ParseNetwork("", "")
	require.Error(t, err)

	_, err = ParseNetwork("previewnet", "")
	require.Error(t, err)
	assert.Equal(t, ErrorKindValidation, KindOf(err))
}
