package anchor

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patentvault/go-anchor-wallet/internal/config"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/rs/zerolog/log"
)

// VerifyResult is the advisory outcome of an anchor check. Verification
// feeds a user-facing status display, so every failure mode is reported as
// verified=false with a reason instead of an error.
type VerifyResult struct {
	Verified   bool
	ActualHash string
	Timestamp  string
	Message    string
}

// Verifier re-queries a previously anchored message through the mirror node
// REST API and compares the recorded hash against the expected one. This is
// a true retrieval-and-compare: the historical message content is fetched
// and decoded, not assumed.
type Verifier struct {
	httpClient *http.Client
	baseURLs   map[ledger.Network]string
}

func NewVerifier(cfg config.Hedera) *Verifier {
	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Verifier{
		httpClient: &http.Client{Timeout: timeout},
		baseURLs: map[ledger.Network]string{
			ledger.NetworkTestnet: strings.TrimRight(cfg.MirrorBaseURLTestnet, "/"),
			ledger.NetworkMainnet: strings.TrimRight(cfg.MirrorBaseURLMainnet, "/"),
		},
	}
}

type mirrorTopicMessage struct {
	ConsensusTimestamp string `json:"consensus_timestamp"`
	Message            string `json:"message"`
	SequenceNumber     int64  `json:"sequence_number"`
	TopicID            string `json:"topic_id"`
}

func unverified(format string, args ...interface{}) VerifyResult {
	return VerifyResult{Verified: false, Message: fmt.Sprintf(format, args...)}
}

// Verify fetches the message at the given channel and sequence number and
// reports whether the anchored hash still matches expectedHash.
func (v *Verifier) Verify(ctx context.Context, network ledger.Network, channelID, sequenceNumber, expectedHash string) VerifyResult {
	if channelID == "" || sequenceNumber == "" {
		return unverified("channel id and sequence number are required")
	}
	if expectedHash == "" {
		return unverified("expected hash is required")
	}

	baseURL := v.baseURLs[network]
	if baseURL == "" {
		return unverified("no mirror endpoint configured for network %s", network)
	}

	url := fmt.Sprintf("%s/api/v1/topics/%s/messages/%s", baseURL, channelID, sequenceNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return unverified("failed to build mirror query: %v", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("channel_id", channelID).Msg("Mirror node query failed")
		return unverified("mirror node is unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return unverified("no message found on channel %s at sequence %s", channelID, sequenceNumber)
	}
	if resp.StatusCode != http.StatusOK {
		return unverified("mirror node returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return unverified("failed to read mirror response: %v", err)
	}

	var message mirrorTopicMessage
	if err := json.Unmarshal(body, &message); err != nil {
		return unverified("mirror response did not parse: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(message.Message)
	if err != nil {
		return unverified("anchored message is not valid base64: %v", err)
	}

	actualHash := extractAnchoredHash(raw)
	if actualHash == "" {
		return unverified("anchored message on channel %s carries no recognizable hash", channelID)
	}

	result := VerifyResult{
		ActualHash: actualHash,
		Timestamp:  consensusTimestampToRFC3339(message.ConsensusTimestamp),
	}

	if actualHash != expectedHash {
		result.Verified = false
		result.Message = fmt.Sprintf("anchored hash %s does not match expected hash %s", actualHash, expectedHash)
		return result
	}

	result.Verified = true
	result.Message = fmt.Sprintf("hash anchored on channel %s at sequence %s", channelID, sequenceNumber)
	return result
}

// extractAnchoredHash pulls the hash out of the anchored payload. Messages
// published by this service are JSON payloads; bare hex digests from older
// anchoring runs are accepted as-is.
func extractAnchoredHash(raw []byte) string {
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Hash != "" {
		return payload.Hash
	}

	candidate := strings.TrimSpace(string(raw))
	if isHexDigest(candidate) {
		return candidate
	}
	return ""
}

func isHexDigest(s string) bool {
	if len(s) == 0 || len(s)%2 != 0 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// consensusTimestampToRFC3339 converts a mirror "seconds.nanos" timestamp.
// Unparseable values pass through unchanged so the caller still sees what
// the mirror reported.
func consensusTimestampToRFC3339(ts string) string {
	parts := strings.SplitN(ts, ".", 2)
	seconds, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ts
	}
	var nanos int64
	if len(parts) == 2 {
		frac := parts[1]
		if len(frac) > 9 {
			frac = frac[:9]
		}
		padded := frac + strings.Repeat("0", 9-len(frac))
		if n, err := strconv.ParseInt(padded, 10, 64); err == nil {
			nanos = n
		}
	}
	return time.Unix(seconds, nanos).UTC().Format(time.RFC3339Nano)
}
