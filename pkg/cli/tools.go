package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/genmcp/genai-video-mcp/pkg/catalog"
)

func init() {
	rootCmd.AddCommand(toolsCmd)
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tools the server exposes as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, _ []string) error {
		data, err := json.MarshalIndent(catalog.Tools(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal tools: %w", err)
		}

		_, err = fmt.Fprintln(cobraCmd.OutOrStdout(), string(data))
		return err
	},
}
