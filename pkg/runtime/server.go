package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/genmcp/genai-video-mcp/pkg/catalog"
	serverconfig "github.com/genmcp/genai-video-mcp/pkg/config/server"
	"github.com/genmcp/genai-video-mcp/pkg/invocation"
	"github.com/genmcp/genai-video-mcp/pkg/invocation/utils"
	"github.com/genmcp/genai-video-mcp/pkg/observability/logging"
	"github.com/genmcp/genai-video-mcp/pkg/videoapi"
)

const (
	ServerName = "genai-video-mcp"

	serverInstructions = "Use generate_video to start an AI video generation job. Generation is " +
		"asynchronous: the result carries the service operation, which may still report done: false. " +
		"Only prompt is required."
)

// ServerOptions controls how NewServer assembles the MCP server.
type ServerOptions struct {
	Version string
	Logger  *zap.Logger
	// MCPLogs tees request logs to the client session.
	MCPLogs bool
}

// NewServer builds an MCP server exposing every catalog tool. invokers maps
// tool names to their invoker, and a catalog tool without one is an error.
func NewServer(invokers map[string]invocation.Invoker, opts ServerOptions) (*mcp.Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tools := catalog.Tools()
	logger.Debug("Building MCP server",
		zap.String("server_name", ServerName),
		zap.String("server_version", opts.Version),
		zap.Int("num_tools", len(tools)))

	s := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: opts.Version,
	}, &mcp.ServerOptions{
		Instructions: serverInstructions,
		HasTools:     len(tools) > 0,
	})

	s.AddReceivingMiddleware(logging.WithLoggingMiddleware(logger, opts.MCPLogs))

	var serverErr error
	for _, tool := range tools {
		invoker, ok := invokers[tool.Name]
		if !ok {
			serverErr = errors.Join(serverErr, fmt.Errorf("no invoker registered for tool %s", tool.Name))
			continue
		}

		s.AddTool(tool, toolHandler(tool.Name, invoker))
		logger.Debug("Registered tool", zap.String("tool_name", tool.Name))
	}

	if serverErr != nil {
		return nil, serverErr
	}

	return s, nil
}

// NewVideoServer wires the video service client from cfg into a server.
func NewVideoServer(cfg *serverconfig.VideoMCPServerConfig, version string) (*mcp.Server, error) {
	logger := cfg.Runtime.GetBaseLogger()

	httpClient, err := cfg.Runtime.GetHTTPClient()
	if err != nil {
		logger.Error("Failed to create HTTP client for the video service", zap.Error(err))
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	client := videoapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.BearerToken, httpClient)
	logger.Info("Using video service",
		zap.String("base_url", client.BaseURL()),
		zap.Bool("custom_client_tls", cfg.Runtime.ClientTLSConfig != nil))

	invoker, err := invocation.NewVideoInvoker(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create video invoker: %w", err)
	}

	return NewServer(map[string]invocation.Invoker{
		catalog.GenerateVideoToolName: invoker,
	}, ServerOptions{
		Version: version,
		Logger:  logger,
		MCPLogs: cfg.Runtime.LoggingConfig.MCPLogsEnabled(),
	})
}

func toolHandler(toolName string, invoker invocation.Invoker) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clientLogger := logging.FromContext(ctx)
		clientLogger.Info("Tool invocation started", zap.String("tool_name", toolName))

		result, err := invoker.Invoke(ctx, req)
		if err != nil {
			logging.BaseFromContext(ctx).Error("Tool invocation failed",
				zap.String("tool_name", toolName),
				zap.Error(err))
			if result != nil {
				return result, nil
			}
			return utils.McpTextError("tool invocation failed"), nil
		}

		clientLogger.Info("Tool invocation completed",
			zap.String("tool_name", toolName),
			zap.Bool("is_error", result.IsError))
		return result, nil
	}
}

// RunServer loads the configuration and serves until ctx is done.
func RunServer(ctx context.Context, opts serverconfig.LoadOptions, version string) error {
	cfg, err := serverconfig.Load(opts)
	if err != nil {
		return fmt.Errorf("failed to load server configuration: %w", err)
	}

	logger := cfg.Runtime.GetBaseLogger()
	if opts.ConfigFile != "" {
		logger.Info("Using server config", zap.String("server_config_path", opts.ConfigFile))
	}

	return DoRunServer(ctx, cfg, version)
}

// DoRunServer serves an already loaded configuration over its transport.
func DoRunServer(ctx context.Context, cfg *serverconfig.VideoMCPServerConfig, version string) error {
	logger := cfg.Runtime.GetBaseLogger()
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting MCP server",
		zap.String("server_name", ServerName),
		zap.String("server_version", version),
		zap.String("transport_protocol", cfg.Runtime.TransportProtocol))

	s, err := NewVideoServer(cfg, version)
	if err != nil {
		logger.Error("Failed to create MCP server", zap.Error(err))
		return fmt.Errorf("failed to create server: %w", err)
	}

	switch strings.ToLower(cfg.Runtime.TransportProtocol) {
	case serverconfig.TransportProtocolStreamableHttp:
		return runStreamableHttpServer(ctx, cfg.Runtime, s)
	case serverconfig.TransportProtocolStdio:
		return runStdioServer(ctx, logger, s)
	default:
		logger.Error("Invalid transport protocol specified",
			zap.String("transport_protocol", cfg.Runtime.TransportProtocol))
		return fmt.Errorf("tried running invalid transport protocol %q", cfg.Runtime.TransportProtocol)
	}
}

func runStdioServer(ctx context.Context, logger *zap.Logger, s *mcp.Server) error {
	logger.Info("Starting stdio server")
	if err := s.Run(ctx, &mcp.StdioTransport{}); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Stdio server stopped")
			return nil
		}
		logger.Error("Stdio server failed", zap.Error(err))
		return err
	}

	logger.Info("Stdio server completed")
	return nil
}
