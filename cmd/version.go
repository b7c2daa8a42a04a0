package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the Cobra command for displaying the application version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rovers",
		Long:  `All software has versions. This is rovers'.`,
		Run: func(cmd *cobra.Command, args []string) {
			// rootCmd.Version is expected to be set, typically in main during build time.
			fmt.Fprintf(cmd.OutOrStdout(), "rovers version %s\n", rootCmd.Version)
		},
	}
}
