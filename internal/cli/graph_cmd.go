package cli

import (
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the town graph nodes and adjacency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printGraph(cmd.OutOrStdout(), a.system.Graph())
			return nil
		},
	}
}
