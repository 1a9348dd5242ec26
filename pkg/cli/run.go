package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/genmcp/genai-video-mcp/pkg/runtime"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the video MCP server",
	Long: `Run the video MCP server until interrupted.

Configuration is read from the dotenv file, then the optional config file,
then VIDEOMCP_* environment overrides. A missing VIDEO_API_BEARER_TOKEN is fatal.`,
	Args: cobra.NoArgs,
	RunE: executeRunCmd,
}

func executeRunCmd(cobraCmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cobraCmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runtime.RunServer(ctx, loadOptions, cliVersion)
}
