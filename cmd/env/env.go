package env

import (
	"encoding/json"
	"fmt"

	"github.com/patentvault/go-anchor-wallet/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// New prints the resolved service configuration. Secret-bearing fields are
// tagged json:"-" and never appear in the output.
func New(cfg config.Server) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the resolved server configuration",
		Run: func(cmd *cobra.Command, args []string) {
			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to serialize configuration")
			}
			fmt.Println(string(out))
		},
	}
}
