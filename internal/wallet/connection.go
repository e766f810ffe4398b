package wallet

import (
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/pkg/errors"
)

// ConnectionType discriminates the two disjoint wallet shapes. Every call
// site dispatching on it must handle both variants explicitly.
type ConnectionType string

const (
	// ConnectionTypeLegacy is an operator-held account: the server holds the
	// secret and can sign autonomously.
	ConnectionTypeLegacy ConnectionType = "legacy"
	// ConnectionTypeExternal is a caller-held wallet: the server can only
	// build unsigned transactions, signing happens outside its trust
	// boundary.
	ConnectionTypeExternal ConnectionType = "external_wallet"
)

// Connection is the tagged wallet variant. Exactly one of Legacy and
// External is set, matching Type.
type Connection struct {
	Type     ConnectionType
	Legacy   *LegacyConnection
	External *ExternalConnection
}

type LegacyConnection struct {
	AccountID string
	Network   ledger.Network
	Secret    string
}

type ExternalConnection struct {
	AccountID       string
	Network         ledger.Network
	SessionMetadata map[string]string
}

// ErrExternalSigner is returned when a caller asks the server to sign on
// behalf of an external wallet.
var ErrExternalSigner = errors.New("connection is externally signed; the server cannot produce a signature")

func NewLegacyConnection(accountID string, network ledger.Network, secret string) Connection {
	return Connection{
		Type:   ConnectionTypeLegacy,
		Legacy: &LegacyConnection{AccountID: accountID, Network: network, Secret: secret},
	}
}

func NewExternalConnection(accountID string, network ledger.Network, sessionMetadata map[string]string) Connection {
	return Connection{
		Type:     ConnectionTypeExternal,
		External: &ExternalConnection{AccountID: accountID, Network: network, SessionMetadata: sessionMetadata},
	}
}

// AccountID returns the signer account regardless of variant.
func (c Connection) AccountID() (string, error) {
	switch c.Type {
	case ConnectionTypeLegacy:
		if c.Legacy == nil {
			return "", errors.New("legacy connection payload is missing")
		}
		return c.Legacy.AccountID, nil
	case ConnectionTypeExternal:
		if c.External == nil {
			return "", errors.New("external connection payload is missing")
		}
		return c.External.AccountID, nil
	default:
		return "", errors.Errorf("unknown wallet connection type %q", c.Type)
	}
}

// Network returns the network the connection is bound to.
func (c Connection) Network() (ledger.Network, error) {
	switch c.Type {
	case ConnectionTypeLegacy:
		if c.Legacy == nil {
			return "", errors.New("legacy connection payload is missing")
		}
		return c.Legacy.Network, nil
	case ConnectionTypeExternal:
		if c.External == nil {
			return "", errors.New("external connection payload is missing")
		}
		return c.External.Network, nil
	default:
		return "", errors.Errorf("unknown wallet connection type %q", c.Type)
	}
}

// Sign produces a signed counterpart for legacy connections and
// ErrExternalSigner for external ones, forcing callers to route external
// wallets through the two-leg signing protocol.
func (c Connection) Sign(unsigned *ledger.UnsignedTransaction) (*ledger.SignedTransaction, error) {
	switch c.Type {
	case ConnectionTypeLegacy:
		if c.Legacy == nil {
			return nil, errors.New("legacy connection payload is missing")
		}
		return ledger.SignLocally(unsigned, c.Legacy.Secret)
	case ConnectionTypeExternal:
		return nil, ErrExternalSigner
	default:
		return nil, errors.Errorf("unknown wallet connection type %q", c.Type)
	}
}
