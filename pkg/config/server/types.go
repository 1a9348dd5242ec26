// Package server holds the runtime configuration of the video MCP server:
// the optional config file, environment overrides, the backing service
// connection and the shared outbound HTTP client.
package server

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/genmcp/genai-video-mcp/pkg/observability/logging"
)

const (
	TransportProtocolStreamableHttp = "streamablehttp"
	TransportProtocolStdio          = "stdio"

	KindVideoMCPServerConfig = "VideoMCPServerConfig"
	SchemaVersion            = "0.1.0"
)

// StreamableHTTPConfig defines configuration for the HTTP-based runtime.
type StreamableHTTPConfig struct {
	// Port number to listen on (default: 8080).
	Port int `json:"port,omitempty" jsonschema:"optional"`

	// Base path for the MCP endpoint (default: /mcp).
	BasePath string `json:"basePath,omitempty" jsonschema:"optional"`

	// Indicates whether the server is stateless (default: true).
	Stateless *bool `json:"stateless,omitempty" jsonschema:"optional"`

	// TLS configuration for HTTPS.
	TLS *TLSConfig `json:"tls,omitempty" jsonschema:"optional"`

	// Health check configuration for k8s probes.
	Health *HealthConfig `json:"health,omitempty" jsonschema:"optional"`
}

// IsStateless reports whether sessions are kept between requests, defaulting to true.
func (s *StreamableHTTPConfig) IsStateless() bool {
	if s == nil || s.Stateless == nil {
		return true
	}
	return *s.Stateless
}

// TLSConfig defines paths to TLS certificate and private key files.
type TLSConfig struct {
	// Absolute path to the server's public certificate.
	CertFile string `json:"certFile,omitempty" jsonschema:"optional"`

	// Absolute path to the server's private key.
	KeyFile string `json:"keyFile,omitempty" jsonschema:"optional"`
}

type HealthConfig struct {
	// Enable health endpoints (default: true)
	Enabled *bool `json:"enabled,omitempty" jsonschema:"optional"`

	// Path for liveness probe (default: /healthz)
	LivenessPath string `json:"livenessPath,omitempty" jsonschema:"optional"`

	// Path for readiness probe (default: /readyz)
	ReadinessPath string `json:"readinessPath,omitempty" jsonschema:"optional"`
}

// IsEnabled reports whether the health endpoints are served, defaulting to true.
func (h *HealthConfig) IsEnabled() bool {
	if h == nil || h.Enabled == nil {
		return true
	}
	return *h.Enabled
}

// ClientTLSConfig defines TLS settings for requests to the video service.
// Use it when the service presents a certificate signed by a private CA.
type ClientTLSConfig struct {
	// Paths to CA certificate files (PEM format), added to the system pool.
	CACertFiles []string `json:"caCertFiles,omitempty" jsonschema:"optional"`

	// Directory of CA certificate files. Every .pem and .crt file is loaded.
	CACertDir string `json:"caCertDir,omitempty" jsonschema:"optional"`

	// Skip certificate verification. Only meant for local testing.
	InsecureSkipVerify bool `json:"insecureSkipVerify,omitempty" jsonschema:"optional"`
}

// ServerRuntime defines the transport and process level settings.
type ServerRuntime struct {
	// Transport protocol to use (stdio or streamablehttp, default: stdio).
	TransportProtocol string `json:"transportProtocol,omitempty" jsonschema:"optional"`

	// Configuration for the streamable HTTP transport.
	StreamableHTTPConfig *StreamableHTTPConfig `json:"streamableHttpConfig,omitempty" jsonschema:"optional"`

	// Configuration for the server logging.
	LoggingConfig *logging.LoggingConfig `json:"loggingConfig,omitempty" jsonschema:"optional"`

	// TLS configuration for requests to the video service.
	ClientTLSConfig *ClientTLSConfig `json:"clientTlsConfig,omitempty" jsonschema:"optional"`

	baseLogger     *zap.Logger
	initLoggerOnce sync.Once

	httpClient     *http.Client
	httpClientErr  error
	httpClientOnce sync.Once
}

// BackendConfig locates the video generation service.
type BackendConfig struct {
	// Base URL of the video service (default: http://localhost:3000).
	// VIDEO_API_BASE_URL takes precedence.
	BaseURL string `json:"baseUrl,omitempty" jsonschema:"optional"`

	// Bearer token sent on every request. Only read from VIDEO_API_BEARER_TOKEN.
	BearerToken string `json:"-"`
}

// VideoMCPServerConfig is the root of a server config file.
type VideoMCPServerConfig struct {
	// Kind identifies the type of config file.
	Kind string `json:"kind" jsonschema:"required"`

	// Version of the config file format.
	SchemaVersion string `json:"schemaVersion" jsonschema:"required"`

	// Runtime configuration of the MCP server.
	Runtime *ServerRuntime `json:"runtime,omitempty" jsonschema:"optional"`

	// Connection to the video generation service.
	Backend *BackendConfig `json:"backend,omitempty" jsonschema:"optional"`
}

// GetBaseLogger returns the process wide logger, built once. A logging config
// that fails to build falls back to the default console logger on stderr.
// A nil runtime yields a no-op logger.
func (sr *ServerRuntime) GetBaseLogger() *zap.Logger {
	if sr == nil {
		return zap.NewNop()
	}

	sr.initLoggerOnce.Do(func() {
		logger, err := sr.LoggingConfig.BuildBase()
		if err != nil {
			// the logger is what failed, so stderr is all we have
			fmt.Fprintf(os.Stderr, "ERROR: Failed to build base logger, using default console logger: %v\n", err)
			logger = logging.NewDefaultLogger()
		}
		sr.baseLogger = logger
	})

	return sr.baseLogger
}
