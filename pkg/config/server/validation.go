package server

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate reports every problem found, joined. It expects defaults to be applied.
func (c *VideoMCPServerConfig) Validate() error {
	var err error

	if c.Runtime == nil {
		err = errors.Join(err, fmt.Errorf("invalid config: runtime is required"))
	} else if runtimeErr := c.Runtime.Validate(); runtimeErr != nil {
		err = errors.Join(err, fmt.Errorf("invalid config, runtime is invalid: %w", runtimeErr))
	}

	if c.Backend == nil {
		err = errors.Join(err, fmt.Errorf("invalid config: backend is required"))
	} else if backendErr := c.Backend.Validate(); backendErr != nil {
		err = errors.Join(err, fmt.Errorf("invalid config, backend is invalid: %w", backendErr))
	}

	return err
}

func (r *ServerRuntime) Validate() error {
	var err error

	switch r.TransportProtocol {
	case TransportProtocolStdio:
	case TransportProtocolStreamableHttp:
		err = errors.Join(err, r.StreamableHTTPConfig.Validate())
	default:
		err = errors.Join(err, fmt.Errorf(
			"transport protocol must be one of (%s, %s), received %s",
			TransportProtocolStdio,
			TransportProtocolStreamableHttp,
			r.TransportProtocol,
		))
	}

	if r.ClientTLSConfig != nil && r.ClientTLSConfig.CACertDir == "" && len(r.ClientTLSConfig.CACertFiles) == 0 &&
		!r.ClientTLSConfig.InsecureSkipVerify {
		err = errors.Join(err, fmt.Errorf("clientTlsConfig is set but configures nothing"))
	}

	return err
}

func (s *StreamableHTTPConfig) Validate() error {
	if s == nil {
		return fmt.Errorf("transportProtocol is %s, but streamableHttpConfig is not set", TransportProtocolStreamableHttp)
	}

	var err error
	if s.Port <= 0 || s.Port > 65535 {
		err = errors.Join(err, fmt.Errorf("streamableHttpConfig.port must be between 1 and 65535, received %d", s.Port))
	}

	if !strings.HasPrefix(s.BasePath, "/") {
		err = errors.Join(err, fmt.Errorf("streamableHttpConfig.basePath must start with /, received %q", s.BasePath))
	}

	if s.TLS != nil && (s.TLS.CertFile == "") != (s.TLS.KeyFile == "") {
		err = errors.Join(err, fmt.Errorf("streamableHttpConfig.tls requires both certFile and keyFile"))
	}

	if s.Health.IsEnabled() {
		for _, p := range []string{s.Health.LivenessPath, s.Health.ReadinessPath} {
			if p == s.BasePath {
				err = errors.Join(err, fmt.Errorf("health path %s collides with basePath", p))
			}
		}
	}

	return err
}

func (b *BackendConfig) Validate() error {
	var err error

	u, parseErr := url.Parse(b.BaseURL)
	switch {
	case parseErr != nil:
		err = errors.Join(err, fmt.Errorf("baseUrl is not a valid URL: %w", parseErr))
	case u.Scheme != "http" && u.Scheme != "https":
		err = errors.Join(err, fmt.Errorf("baseUrl must be an http or https URL, received %q", b.BaseURL))
	case u.Host == "":
		err = errors.Join(err, fmt.Errorf("baseUrl must include a host, received %q", b.BaseURL))
	}

	if b.BearerToken == "" {
		err = errors.Join(err, fmt.Errorf("%s environment variable is required", EnvBearerToken))
	}

	return err
}
