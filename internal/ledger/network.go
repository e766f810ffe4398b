package ledger

import (
	"strings"
)

// Network selects which Hedera network a transaction is built for and
// submitted to.
type Network string

const (
	NetworkTestnet Network = "testnet"
	NetworkMainnet Network = "mainnet"
)

// ParseNetwork normalizes a caller-supplied network selector. An empty value
// falls back to the given default.
func ParseNetwork(s string, fallback Network) (Network, error) {
	switch Network(strings.ToLower(strings.TrimSpace(s))) {
	case NetworkTestnet:
		return NetworkTestnet, nil
	case NetworkMainnet:
		return NetworkMainnet, nil
	case "":
		if fallback != "" {
			return fallback, nil
		}
		return "", NewValidationError("network is required")
	default:
		return "", NewValidationError("unknown network %q, expected testnet or mainnet", s)
	}
}
