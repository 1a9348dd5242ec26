package logging

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

type requestLoggerKey struct{}
type baseLoggerKey struct{}

// WithLoggingMiddleware stores base in every request context and, when
// mcpLogs is true, a request logger that also writes to the client session.
// Failing to build the request logger never fails the request.
func WithLoggingMiddleware(base *zap.Logger, mcpLogs bool) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			ctx = WithBaseLogger(ctx, base)
			if !mcpLogs {
				return next(WithRequestLogger(ctx, base), method, req)
			}

			ss, ok := req.GetSession().(*mcp.ServerSession)
			if !ok {
				base.Warn("session on request was not ServerSession, not adding logger")
				return next(ctx, method, req)
			}

			requestLogger, err := NewRequestLogger(ctx, base, ss)
			if err != nil {
				base.Warn("failed to initialize request logger", zap.Error(err))
				return next(ctx, method, req)
			}

			return next(WithRequestLogger(ctx, requestLogger), method, req)
		}
	}
}

// WithRequestLogger stores the client visible logger in ctx.
func WithRequestLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerKey{}, logger)
}

// WithBaseLogger stores the server side logger in ctx.
func WithBaseLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, baseLoggerKey{}, logger)
}

// FromContext returns the request logger, which may also log to the MCP
// client. Returns a no-op logger when none is set.
func FromContext(ctx context.Context) *zap.Logger {
	return loggerFromContext(ctx, requestLoggerKey{})
}

// BaseFromContext returns the server side logger. Nothing logged through it
// reaches the client. Returns a no-op logger when none is set.
func BaseFromContext(ctx context.Context) *zap.Logger {
	return loggerFromContext(ctx, baseLoggerKey{})
}

func loggerFromContext(ctx context.Context, key any) *zap.Logger {
	logger, ok := ctx.Value(key).(*zap.Logger)
	if !ok || logger == nil {
		return zap.NewNop()
	}

	return logger
}
