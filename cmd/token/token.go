package token

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/patentvault/go-anchor-wallet/internal/auth"
	"github.com/patentvault/go-anchor-wallet/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// New mints a bearer token against the configured JWT secret. Meant for
// local development and smoke tests against a running server.
func New(cfg config.Server) *cobra.Command {
	var userID string
	var scopes []string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		Run: func(cmd *cobra.Command, args []string) {
			manager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenDuration)

			signed, err := manager.Generate(userID, scopes)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to generate token")
			}

			result := auth.Result{
				Token:      signed,
				UserID:     userID,
				ValidUntil: time.Now().Add(cfg.Auth.TokenDuration),
				Scopes:     scopes,
			}
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to serialize token result")
			}
			fmt.Println(string(out))
		},
	}

	cmd.Flags().StringVar(&userID, "user", "dev-user", "user id to embed in the token")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{auth.ScopeWallet}, "scopes to grant")

	return cmd
}
