package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/anchor"
	"github.com/patentvault/go-anchor-wallet/internal/auth"
	"github.com/patentvault/go-anchor-wallet/internal/config"
	"github.com/patentvault/go-anchor-wallet/internal/ledger"
	"github.com/patentvault/go-anchor-wallet/internal/metrics"
	"github.com/patentvault/go-anchor-wallet/internal/nft"
	"github.com/patentvault/go-anchor-wallet/internal/persistence"
	"github.com/patentvault/go-anchor-wallet/internal/signing"
	"github.com/patentvault/go-anchor-wallet/internal/util"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	// Import postgres driver for database/sql package
	_ "github.com/lib/pq"
)

type Router struct {
	Routes      []*echo.Route
	Root        *echo.Group
	Management  *echo.Group
	APIV1Wallet *echo.Group
}

// Server is a central struct keeping all the dependencies. It is initialized
// with InitNewServer in providers.go, which constructs the components in
// dependency order. To add a new component, declare it here and wire it
// there.
type Server struct {
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo
	Router *Router

	Config  config.Server
	DB      *sql.DB
	Redis   *redis.Client
	Clock   time2.Clock
	Metrics *metrics.Service
	JWT     *auth.JWTManager

	Store         persistence.Store
	ClientFactory *ledger.ClientFactory
	Builder       *ledger.Builder
	Queries       *ledger.QueryService

	Coordinator       *signing.Coordinator
	Submit            *signing.Service
	SignatureVerifier *signing.Verifier

	AnchorWorkflow *anchor.Workflow
	AnchorVerifier *anchor.Verifier
	NFTWorkflow    *nft.Workflow
}

func NewServer(config config.Server) *Server {
	s := &Server{
		Config: config,
	}

	return s
}

func (s *Server) Ready() bool {
	if err := util.IsStructInitialized(s); err != nil {
		log.Debug().Err(err).Msg("Server is not fully initialized")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")
		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if s.Redis != nil {
		log.Debug().Msg("Closing redis client")
		if err := s.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis client")
			errs = append(errs, err)
		}
	}

	if s.DB != nil {
		log.Debug().Msg("Closing database connection")
		if err := s.DB.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			log.Error().Err(err).Msg("Failed to close database connection")
			errs = append(errs, err)
		}
	}

	return errs
}
