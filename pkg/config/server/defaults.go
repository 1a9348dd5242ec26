package server

import "k8s.io/utils/ptr"

const (
	DefaultBasePath      = "/mcp"
	DefaultPort          = 8080
	DefaultLivenessPath  = "/healthz"
	DefaultReadinessPath = "/readyz"

	DefaultBackendBaseURL = "http://localhost:3000"
)

// ApplyDefaults fills every unset field. It is idempotent.
func (c *VideoMCPServerConfig) ApplyDefaults() {
	if c.Runtime == nil {
		c.Runtime = &ServerRuntime{}
	}
	c.Runtime.ApplyDefaults()

	if c.Backend == nil {
		c.Backend = &BackendConfig{}
	}
	c.Backend.ApplyDefaults()
}

func (r *ServerRuntime) ApplyDefaults() {
	if r.TransportProtocol == "" {
		r.TransportProtocol = TransportProtocolStdio
	}

	if r.TransportProtocol == TransportProtocolStreamableHttp {
		if r.StreamableHTTPConfig == nil {
			r.StreamableHTTPConfig = &StreamableHTTPConfig{}
		}
		r.StreamableHTTPConfig.ApplyDefaults()
	}
}

func (s *StreamableHTTPConfig) ApplyDefaults() {
	if s.Port <= 0 {
		s.Port = DefaultPort
	}
	if s.BasePath == "" {
		s.BasePath = DefaultBasePath
	}
	if s.Stateless == nil {
		s.Stateless = ptr.To(true)
	}

	if s.Health == nil {
		s.Health = &HealthConfig{}
	}
	s.Health.ApplyDefaults()
}

func (h *HealthConfig) ApplyDefaults() {
	if h.Enabled == nil {
		h.Enabled = ptr.To(true)
	}
	if h.LivenessPath == "" {
		h.LivenessPath = DefaultLivenessPath
	}
	if h.ReadinessPath == "" {
		h.ReadinessPath = DefaultReadinessPath
	}
}

func (b *BackendConfig) ApplyDefaults() {
	if b.BaseURL == "" {
		b.BaseURL = DefaultBackendBaseURL
	}
}
