package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the genai-video-mcp version",
	Args:  cobra.NoArgs,
	Run: func(cobraCmd *cobra.Command, _ []string) {
		fmt.Fprintf(cobraCmd.OutOrStdout(), "genai-video-mcp version %s\n", cliVersion)
	},
}
