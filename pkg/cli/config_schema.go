package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	serverconfig "github.com/genmcp/genai-video-mcp/pkg/config/server"
)

func init() {
	rootCmd.AddCommand(configSchemaCmd)
}

var configSchemaCmd = &cobra.Command{
	Use:   "config-schema",
	Short: "Print the JSON schema of the server config file",
	Args:  cobra.NoArgs,
	RunE: func(cobraCmd *cobra.Command, _ []string) error {
		data, err := json.MarshalIndent(serverconfig.JSONSchema(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config schema: %w", err)
		}

		_, err = fmt.Fprintln(cobraCmd.OutOrStdout(), string(data))
		return err
	},
}
