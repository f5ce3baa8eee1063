package cmd

import (
	"fmt"

	"difydsl/internal/dsl"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the Cobra command for displaying the application
// version along with the DSL version it validates against.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of difydsl",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "difydsl version %s (DSL version %s)\n",
				rootCmd.Version, dsl.CurrentDSLVersion)
		},
	}
}
