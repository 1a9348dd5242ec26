package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	serverconfig "github.com/genmcp/genai-video-mcp/pkg/config/server"
)

var cliVersion string

var loadOptions serverconfig.LoadOptions

var rootCmd = &cobra.Command{
	Use:   "genai-video-mcp",
	Short: "genai-video-mcp serves AI video generation as an MCP tool",
	Long: `genai-video-mcp exposes a generate_video tool over the Model Context Protocol.

Calls are forwarded to the video generation service at VIDEO_API_BASE_URL
(default http://localhost:3000) using VIDEO_API_BEARER_TOKEN. Without a
subcommand the server is started, as with "run".`,
	SilenceUsage: true,
	RunE:         executeRunCmd,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&loadOptions.ConfigFile, "config", "c", "", "the path to an optional server config file")
	rootCmd.PersistentFlags().StringVar(&loadOptions.EnvFile, "env-file", "", "the path to a dotenv file (default: .env when present)")
}

func Execute(version string) {
	if version == "" {
		cliVersion = getDevVersion().String()
	} else {
		cliVersion = version
	}

	if err := rootCmd.Execute(); err != nil {
		// stdout may be the stdio transport
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type devVersion struct {
	commit               string
	hasUncommitedChanges bool
}

func (dv devVersion) String() string {
	if dv.hasUncommitedChanges {
		return fmt.Sprintf("development@%s+uncommitedChanges", dv.commit)
	}
	return fmt.Sprintf("development@%s", dv.commit)
}

func getDevVersion() devVersion {
	dv := devVersion{}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				dv.commit = setting.Value[:min(len(setting.Value), 7)]
			case "vcs.modified":
				dv.hasUncommitedChanges = setting.Value == "true"
			}
		}
	}

	return dv
}
