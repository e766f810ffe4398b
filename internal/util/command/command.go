package command

import (
	"github.com/spf13/cobra"
)

// NewSubcommandGroup returns a bare cobra command grouping the given
// subcommands under a common name.
func NewSubcommandGroup(use string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: use + " subcommands",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}
