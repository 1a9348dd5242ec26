// Package logging wires zap loggers into the MCP server.
//
// A base logger is built once at startup from a LoggingConfig and always
// writes to stderr by default, since stdout carries the stdio transport.
// Per request, WithLoggingMiddleware tees the base logger into the client's
// MCP session so that tool progress shows up as MCP log notifications:
//
//	base, err := cfg.BuildBase()
//	if err != nil {
//		return err
//	}
//	server.AddReceivingMiddleware(logging.WithLoggingMiddleware(base, cfg.MCPLogsEnabled()))
//
// Handlers then call FromContext for the client-visible logger and
// BaseFromContext for server-side only logging.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig is a schema friendly subset of zap.Config.
type LoggingConfig struct {
	// Level is the minimum enabled logging level (debug, info, warn, error, dpanic, panic, fatal)
	Level string `json:"level,omitempty" jsonschema:"optional"`
	// Development puts the logger in development mode
	Development bool `json:"development,omitempty" jsonschema:"optional"`
	// DisableCaller stops annotating logs with the calling function's file name and line number
	DisableCaller bool `json:"disableCaller,omitempty" jsonschema:"optional"`
	// DisableStacktrace completely disables automatic stacktrace capturing
	DisableStacktrace bool `json:"disableStacktrace,omitempty" jsonschema:"optional"`
	// Encoding sets the logger's encoding ("json" or "console")
	Encoding string `json:"encoding,omitempty" jsonschema:"optional"`
	// OutputPaths is a list of URLs or file paths to write logging output to (default: stderr)
	OutputPaths []string `json:"outputPaths,omitempty" jsonschema:"optional"`
	// ErrorOutputPaths is a list of URLs to write internal logger errors to
	ErrorOutputPaths []string `json:"errorOutputPaths,omitempty" jsonschema:"optional"`
	// InitialFields is a collection of fields to add to the root logger
	InitialFields map[string]any `json:"initialFields,omitempty" jsonschema:"optional"`
	// EnableMcpLogs controls whether logs are sent to MCP clients (default: true)
	EnableMcpLogs *bool `json:"enableMcpLogs,omitempty" jsonschema:"optional"`
}

// MCPLogsEnabled returns whether the mcp logs are enabled, defaulting to true if unset
func (lc *LoggingConfig) MCPLogsEnabled() bool {
	if lc == nil || lc.EnableMcpLogs == nil {
		return true
	}

	return *lc.EnableMcpLogs
}

func (lc *LoggingConfig) toZapConfig() (zap.Config, error) {
	var config zap.Config

	switch lc.Encoding {
	case "console":
		config = zap.NewDevelopmentConfig()
	default:
		config = zap.NewProductionConfig()
	}

	if lc.Level != "" {
		level, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return config, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}

	if lc.Encoding != "" {
		config.Encoding = lc.Encoding
	}

	config.Development = lc.Development
	config.DisableCaller = lc.DisableCaller
	config.DisableStacktrace = lc.DisableStacktrace

	// never default to stdout, it is the stdio transport
	config.OutputPaths = []string{"stderr"}
	if len(lc.OutputPaths) > 0 {
		config.OutputPaths = lc.OutputPaths
	}

	if len(lc.ErrorOutputPaths) > 0 {
		config.ErrorOutputPaths = lc.ErrorOutputPaths
	}

	if lc.InitialFields != nil {
		config.InitialFields = lc.InitialFields
	}

	return config, nil
}

// BuildBase creates the process wide base logger. A nil config yields the
// default console logger.
func (lc *LoggingConfig) BuildBase() (*zap.Logger, error) {
	if lc == nil {
		return NewDefaultLogger(), nil
	}

	config, err := lc.toZapConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to convert to zap config: %w", err)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build base zap logger: %w", err)
	}
	return logger, nil
}

// NewDefaultLogger returns a console logger at info level writing to stderr.
// If that cannot be built it returns a no-op logger.
func NewDefaultLogger() *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	config.Encoding = "console"
	config.OutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil || logger == nil {
		return zap.NewNop()
	}

	return logger
}
