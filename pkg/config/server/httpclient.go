package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// GetHTTPClient returns the client used for every request to the video
// service. It is built once. Without a ClientTLSConfig the default transport
// is used and no timeout is set.
func (sr *ServerRuntime) GetHTTPClient() (*http.Client, error) {
	if sr == nil {
		return http.DefaultClient, nil
	}

	sr.httpClientOnce.Do(func() {
		sr.httpClient, sr.httpClientErr = newHTTPClient(sr.ClientTLSConfig, sr.GetBaseLogger())
	})

	return sr.httpClient, sr.httpClientErr
}

func newHTTPClient(tlsCfg *ClientTLSConfig, logger *zap.Logger) (*http.Client, error) {
	if tlsCfg == nil {
		return &http.Client{}, nil
	}

	clientTLS, err := tlsCfg.buildTLSConfig(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build TLS config: %w", err)
	}

	// clone to keep proxy settings, pooling and HTTP/2
	defaultTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("http.DefaultTransport is not *http.Transport; cannot apply custom TLS config")
	}
	transport := defaultTransport.Clone()
	transport.TLSClientConfig = clientTLS

	return &http.Client{Transport: transport}, nil
}

// BuildTLSConfig returns a tls.Config trusting the system pool plus the
// configured CAs. A nil config yields nil.
func (c *ClientTLSConfig) BuildTLSConfig() (*tls.Config, error) {
	return c.buildTLSConfig(zap.NewNop())
}

func (c *ClientTLSConfig) buildTLSConfig(logger *zap.Logger) (*tls.Config, error) {
	if c == nil {
		return nil, nil
	}

	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}

	for _, certFile := range c.CACertFiles {
		if err := appendCertFile(pool, certFile); err != nil {
			return nil, fmt.Errorf("failed to load CA cert from %s: %w", certFile, err)
		}
	}

	if c.CACertDir != "" {
		loaded, err := appendCertDir(pool, c.CACertDir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load CA certs from directory %s: %w", c.CACertDir, err)
		}
		if loaded == 0 {
			logger.Warn("No valid CA certificates found", zap.String("dir", c.CACertDir))
		}
	}

	return &tls.Config{
		RootCAs:            pool,
		InsecureSkipVerify: c.InsecureSkipVerify, //nolint:gosec // opt-in for local testing
	}, nil
}

func appendCertFile(pool *x509.CertPool, certFile string) error {
	data, err := os.ReadFile(certFile)
	if err != nil {
		return fmt.Errorf("failed to read certificate file: %w", err)
	}

	if !pool.AppendCertsFromPEM(data) {
		return fmt.Errorf("failed to parse certificate from %s", certFile)
	}

	return nil
}

// appendCertDir loads every .pem and .crt file in dir. Unreadable or invalid
// files are skipped with a warning. It returns how many files were loaded.
func appendCertDir(pool *x509.CertPool, dir string, logger *zap.Logger) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".pem" && ext != ".crt" {
			continue
		}

		certPath := filepath.Join(dir, entry.Name())
		if err := appendCertFile(pool, certPath); err != nil {
			logger.Warn("Skipping CA cert", zap.String("path", certPath), zap.Error(err))
			continue
		}
		loaded++
	}

	return loaded, nil
}
