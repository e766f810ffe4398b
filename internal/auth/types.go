package auth

import "time"

// ScopeWallet gates every route under the wallet API group.
const ScopeWallet = "wallet"

type Result struct {
	Token      string
	UserID     string
	ValidUntil time.Time
	Scopes     []string
}
