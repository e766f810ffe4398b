package main

import (
	"os"
	"time"

	"github.com/patentvault/go-anchor-wallet/cmd/db"
	"github.com/patentvault/go-anchor-wallet/cmd/env"
	"github.com/patentvault/go-anchor-wallet/cmd/server"
	"github.com/patentvault/go-anchor-wallet/cmd/token"
	"github.com/patentvault/go-anchor-wallet/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.DefaultServiceConfigFromEnv()
	initLogger(cfg.Logger)

	rootCmd := &cobra.Command{
		Use:   "anchor-server",
		Short: "Patent anchoring and externally-signed transaction service",
	}

	rootCmd.AddCommand(
		server.New(cfg),
		db.New(cfg),
		env.New(cfg),
		token.New(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func initLogger(cfg config.Logger) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter())
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
