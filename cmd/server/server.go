package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patentvault/go-anchor-wallet/internal/api"
	"github.com/patentvault/go-anchor-wallet/internal/api/router"
	"github.com/patentvault/go-anchor-wallet/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func New(cfg config.Server) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			run(cfg)
		},
	}
}

func run(cfg config.Server) {
	s := api.NewServer(cfg)

	if err := api.InitNewServer(s); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server components")
	}

	router.Init(s)

	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Str("listen_address", cfg.Echo.ListenAddress).Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		log.Fatal().Errs("errors", errs).Msg("Failed to gracefully shut down server")
	}

	log.Info().Msg("Server stopped")
}
