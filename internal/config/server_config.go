package config

import (
	"fmt"
	"time"

	"github.com/patentvault/go-anchor-wallet/internal/util"
)

type EchoServer struct {
	ListenAddress                  string
	HideInternalServerErrorDetails bool
}

type Database struct {
	Host     string
	Port     int
	Username string
	Password string `json:"-"`
	Database string
	SSLMode  string
}

// ConnectionString builds a lib/pq DSN from the database settings.
func (d Database) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode)
}

type Redis struct {
	Endpoint string
	Password string `json:"-"`
}

// Hedera holds the ledger network settings. Operator credentials are only
// required for the legacy autonomous-signing path and stay empty when every
// transaction is signed by an external wallet.
type Hedera struct {
	DefaultNetwork           string
	OperatorAccountID        string
	OperatorPrivateKey       string `json:"-"`
	MirrorBaseURLTestnet     string
	MirrorBaseURLMainnet     string
	MaxTransactionFeeHbar    float64
	TransactionValidDuration time.Duration
	SubmitTimeout            time.Duration
	QueryTimeout             time.Duration
	NFTMetadataLimit         int
}

type AuthServer struct {
	JWTSecret     string `json:"-"`
	JWTIssuer     string
	TokenDuration time.Duration
}

type Logger struct {
	Level              string
	PrettyPrintConsole bool
}

type Server struct {
	Echo     EchoServer
	Database Database
	Redis    Redis
	Hedera   Hedera
	Auth     AuthServer
	Logger   Logger
}

// DefaultServiceConfigFromEnv assembles the full server configuration from
// the environment, applying development-friendly defaults.
func DefaultServiceConfigFromEnv() Server {
	return Server{
		Echo: EchoServer{
			ListenAddress:                  util.GetEnv("ANCHOR_ECHO_LISTEN_ADDRESS", ":8080"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("ANCHOR_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true),
		},
		Database: Database{
			Host:     util.GetEnv("ANCHOR_PGHOST", "postgres"),
			Port:     util.GetEnvAsInt("ANCHOR_PGPORT", 5432),
			Username: util.GetEnv("ANCHOR_PGUSER", "anchor"),
			Password: util.GetEnv("ANCHOR_PGPASSWORD", ""),
			Database: util.GetEnv("ANCHOR_PGDATABASE", "anchor"),
			SSLMode:  util.GetEnv("ANCHOR_PGSSLMODE", "disable"),
		},
		Redis: Redis{
			Endpoint: util.GetEnv("ANCHOR_REDIS_ENDPOINT", "redis:6379"),
			Password: util.GetEnv("ANCHOR_REDIS_PASSWORD", ""),
		},
		Hedera: Hedera{
			DefaultNetwork:           util.GetEnv("ANCHOR_HEDERA_NETWORK", "testnet"),
			OperatorAccountID:        util.GetEnv("ANCHOR_HEDERA_OPERATOR_ID", ""),
			OperatorPrivateKey:       util.GetEnv("ANCHOR_HEDERA_OPERATOR_KEY", ""),
			MirrorBaseURLTestnet:     util.GetEnv("ANCHOR_HEDERA_MIRROR_TESTNET", "https://testnet.mirrornode.hedera.com"),
			MirrorBaseURLMainnet:     util.GetEnv("ANCHOR_HEDERA_MIRROR_MAINNET", "https://mainnet-public.mirrornode.hedera.com"),
			MaxTransactionFeeHbar:    util.GetEnvAsFloat64("ANCHOR_HEDERA_MAX_FEE_HBAR", 2),
			TransactionValidDuration: util.GetEnvAsDuration("ANCHOR_HEDERA_TX_VALID_DURATION", 2*time.Minute),
			SubmitTimeout:            util.GetEnvAsDuration("ANCHOR_HEDERA_SUBMIT_TIMEOUT", 30*time.Second),
			QueryTimeout:             util.GetEnvAsDuration("ANCHOR_HEDERA_QUERY_TIMEOUT", 10*time.Second),
			NFTMetadataLimit:         util.GetEnvAsInt("ANCHOR_HEDERA_NFT_METADATA_LIMIT", 100),
		},
		Auth: AuthServer{
			JWTSecret:     util.GetEnv("ANCHOR_AUTH_JWT_SECRET", "insecure-dev-secret"),
			JWTIssuer:     util.GetEnv("ANCHOR_AUTH_JWT_ISSUER", "patentvault"),
			TokenDuration: util.GetEnvAsDuration("ANCHOR_AUTH_TOKEN_DURATION", 24*time.Hour),
		},
		Logger: Logger{
			Level:              util.GetEnv("ANCHOR_LOGGER_LEVEL", "info"),
			PrettyPrintConsole: util.GetEnvAsBool("ANCHOR_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
	}
}
