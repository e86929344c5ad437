package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lunarbase",
		Short:         "Lunar base layout planning server",
		Long:          "lunarbase serves the lunar base planner API: facility placement with zone checks, safety scoring, routes and site analysis.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newScoreCmd())
	return root
}
