package runtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	serverconfig "github.com/genmcp/genai-video-mcp/pkg/config/server"
	"github.com/genmcp/genai-video-mcp/pkg/health"
)

const shutdownTimeout = 10 * time.Second

// NewHTTPHandler routes the streamable MCP endpoint and, when enabled, the
// health probes. Readiness flips to ready once the MCP endpoint is mounted.
func NewHTTPHandler(cfg *serverconfig.StreamableHTTPConfig, s *mcp.Server, checker health.Checker, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	if cfg.Health.IsEnabled() {
		health.Mount(r, checker, cfg.Health.LivenessPath, cfg.Health.ReadinessPath)
		logger.Debug("Registered health endpoints",
			zap.String("liveness_path", cfg.Health.LivenessPath),
			zap.String("readiness_path", cfg.Health.ReadinessPath))
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s
	}, &mcp.StreamableHTTPOptions{
		Stateless: cfg.IsStateless(),
	})
	r.Handle(cfg.BasePath, handler)
	logger.Debug("Registered MCP handler", zap.String("path", cfg.BasePath))

	checker.SetReady(true)
	return r
}

// requestLogger logs every HTTP exchange at debug level on the base logger.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("Handled HTTP request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

func runStreamableHttpServer(ctx context.Context, rt *serverconfig.ServerRuntime, s *mcp.Server) error {
	logger := rt.GetBaseLogger()
	cfg := rt.StreamableHTTPConfig

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		logger.Error("Failed to listen", zap.Int("port", cfg.Port), zap.Error(err))
		return fmt.Errorf("failed to listen on port %d: %w", cfg.Port, err)
	}

	return serveStreamableHttp(ctx, listener, cfg, s, logger)
}

// serveStreamableHttp serves on listener until ctx is done, then shuts down
// gracefully. The listener is closed on return.
func serveStreamableHttp(ctx context.Context, listener net.Listener, cfg *serverconfig.StreamableHTTPConfig, s *mcp.Server, logger *zap.Logger) error {
	logger.Info("Setting up streamable HTTP server",
		zap.String("addr", listener.Addr().String()),
		zap.String("base_path", cfg.BasePath),
		zap.Bool("stateless", cfg.IsStateless()))

	checker := health.NewChecker()
	srv := &http.Server{
		Handler:           NewHTTPHandler(cfg, s, checker, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.TLS != nil && cfg.TLS.CertFile != "" {
			logger.Info("Starting HTTPS server with TLS",
				zap.String("cert_file", cfg.TLS.CertFile),
				zap.String("key_file", cfg.TLS.KeyFile))
			err = srv.ServeTLS(listener, cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			logger.Info("Starting HTTP server")
			err = srv.Serve(listener)
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal, shutting down HTTP server gracefully")
		checker.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		logger.Info("HTTP server shutdown completed")
		return nil
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		logger.Error("HTTP server failed", zap.Error(err))
		return err
	}
}
