package anchor_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/patentvault/go-anchor-wallet/internal/anchor"
	"github.com/patentvault/go-anchor-wallet/internal/config"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anchoredHash = "38df83d7645e7f878a365e31fa78fe8873f967684834c690ffacd7c821f48e34"

type mirrorMessage struct {
	ConsensusTimestamp string `json:"consensus_timestamp"`
	Message            string `json:"message"`
	SequenceNumber     int64  `json:"sequence_number"`
	TopicID            string `json:"topic_id"`
}

// mirrorFixture serves a single topic message the way the mirror node REST
// API does, or a 404 for everything else.
func mirrorFixture(t *testing.T, channelID string, sequence int64, rawMessage []byte) *httptest.Server {
	t.Helper()
	wantPath := fmt.Sprintf("/api/v1/topics/%s/messages/%d", channelID, sequence)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(mirrorMessage{
			ConsensusTimestamp: "1748779200.000000001",
			Message:            base64.StdEncoding.EncodeToString(rawMessage),
			SequenceNumber:     sequence,
			TopicID:            channelID,
		})
		require.NoError(t, err)
	}))
}

func newMirrorVerifier(serverURL string) *anchor.Verifier {
	return anchor.NewVerifier(config.Hedera{
		MirrorBaseURLTestnet: serverURL,
		QueryTimeout:         5 * time.Second,
	})
}

func TestVerifyMatchingPayload(t *testing.T) {
	payload, err := json.Marshal(anchor.Payload{
		PatentID:  "patent-1",
		Hash:      anchoredHash,
		Timestamp: 1748779200,
	})
	require.NoError(t, err)

	server := mirrorFixture(t, "0.0.1001", 1, payload)
	defer server.Close()

	result := newMirrorVerifier(server.URL).Verify(context.Background(), ledger.NetworkTestnet, "0.0.1001", "1", anchoredHash)

	assert.True(t, result.Verified)
	assert.Equal(t, anchoredHash, result.ActualHash)
	assert.Equal(t, "2025-06-01T12:00:00.000000001Z", result.Timestamp)
	assert.Contains(t, result.Message, "0.0.1001")
}

func TestVerifyAcceptsBareHexMessage(t *testing.T) {
	server := mirrorFixture(t, "0.0.1001", 7, []byte(anchoredHash))
	defer server.Close()

	result := newMirrorVerifier(server.URL).Verify(context.Background(), ledger.NetworkTestnet, "0.0.1001", "7", anchoredHash)

	assert.True(t, result.Verified)
	assert.Equal(t, anchoredHash, result.ActualHash)
}

func TestVerifyHashMismatch(t *testing.T) {
	payload, err := json.Marshal(anchor.Payload{PatentID: "patent-1", Hash: "deadbeef"})
	require.NoError(t, err)

	server := mirrorFixture(t, "0.0.1001", 1, payload)
	defer server.Close()

	result := newMirrorVerifier(server.URL).Verify(context.Background(), ledger.NetworkTestnet, "0.0.1001", "1", "cafebabe")

	assert.False(t, result.Verified)
	assert.Equal(t, "deadbeef", result.ActualHash)
	assert.Contains(t, result.Message, "does not match")
}

func TestVerifyMessageNotFound(t *testing.T) {
	server := mirrorFixture(t, "0.0.1001", 1, []byte(anchoredHash))
	defer server.Close()

	result := newMirrorVerifier(server.URL).Verify(context.Background(), ledger.NetworkTestnet, "0.0.1001", "99", anchoredHash)

	assert.False(t, result.Verified)
	assert.Contains(t, result.Message, "no message found")
}

func TestVerifyUnrecognizableMessage(t *testing.T) {
	server := mirrorFixture(t, "0.0.1001", 1, []byte("not a hash and not json"))
	defer server.Close()

	result := newMirrorVerifier(server.URL).Verify(context.Background(), ledger.NetworkTestnet, "0.0.1001", "1", anchoredHash)

	assert.False(t, result.Verified)
	assert.Contains(t, result.Message, "no recognizable hash")
}

func TestVerifyRejectsMissingInputs(t *testing.T) {
	verifier := newMirrorVerifier("http://127.0.0.1:1")

	result := verifier.Verify(context.Background(), ledger.NetworkTestnet, "", "1", anchoredHash)
	assert.False(t, result.Verified)

	result = verifier.Verify(context.Background(), ledger.NetworkTestnet, "0.0.1001", "1", "")
	assert.False(t, result.Verified)
	assert.Contains(t, result.Message, "expected hash")
}

func TestVerifyUnconfiguredNetwork(t *testing.T) {
	verifier := newMirrorVerifier("http://127.0.0.1:1")

	result := verifier.Verify(context.Background(), ledger.NetworkMainnet, "0.0.1001", "1", anchoredHash)

	assert.False(t, result.Verified)
	assert.Contains(t, result.Message, "no mirror endpoint configured")
}

func TestVerifyMirrorUnreachable(t *testing.T) {
	server := mirrorFixture(t, "0.0.1001", 1, []byte(anchoredHash))
	server.Close()

	result := newMirrorVerifier(server.URL).Verify(context.Background(), ledger.NetworkTestnet, "0.0.1001", "1", anchoredHash)

	assert.False(t, result.Verified)
	assert.Contains(t, result.Message, "unreachable")
}
