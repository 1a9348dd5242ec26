package logging

import (
	"context"
	"fmt"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var zapToMCP = map[zapcore.Level]mcp.LoggingLevel{
	zapcore.DebugLevel:  "debug",
	zapcore.InfoLevel:   "info",
	zapcore.WarnLevel:   "warning",
	zapcore.ErrorLevel:  "error",
	zapcore.DPanicLevel: "critical",
	zapcore.PanicLevel:  "alert",
	zapcore.FatalLevel:  "emergency",
}

// MCPLevel maps a zap level to the MCP logging level sent to clients.
func MCPLevel(level zapcore.Level) mcp.LoggingLevel {
	if l, ok := zapToMCP[level]; ok {
		return l
	}

	return "info"
}

// sessionLogger is what mcpCore needs from a session.
type sessionLogger interface {
	Log(ctx context.Context, params *mcp.LoggingMessageParams) error
}

// mcpCore forwards log entries to an MCP client as logging notifications.
type mcpCore struct {
	session sessionLogger
	ctx     context.Context
	fields  []zapcore.Field
}

var _ zapcore.Core = &mcpCore{}

// NewMcpCore creates a zap core that sends every entry to the session.
func NewMcpCore(ctx context.Context, ss *mcp.ServerSession) (zapcore.Core, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if ss == nil {
		return nil, fmt.Errorf("ServerSession cannot be nil")
	}

	return &mcpCore{session: ss, ctx: ctx}, nil
}

func (m *mcpCore) Enabled(zapcore.Level) bool {
	return true // the session drops entries below the level the client asked for
}

func (m *mcpCore) With(fields []zapcore.Field) zapcore.Core {
	return &mcpCore{
		session: m.session,
		ctx:     m.ctx,
		fields:  append(slices.Clip(m.fields), fields...),
	}
}

func (m *mcpCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(ent, m)
}

func (m *mcpCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range m.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	data := enc.Fields
	data["ts"] = ent.Time
	data["msg"] = ent.Message
	if ent.Caller.Defined {
		data["caller"] = ent.Caller.String()
	}

	return m.session.Log(m.ctx, &mcp.LoggingMessageParams{
		Data:   data,
		Level:  MCPLevel(ent.Level),
		Logger: ent.LoggerName,
	})
}

func (m *mcpCore) Sync() error {
	return nil
}

// NewRequestLogger returns base teed into the client session. It is cheap
// enough to call per request.
func NewRequestLogger(ctx context.Context, base *zap.Logger, ss *mcp.ServerSession) (*zap.Logger, error) {
	core, err := NewMcpCore(ctx, ss)
	if err != nil {
		return nil, err
	}

	return base.WithOptions(
		zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, core)
		}),
	), nil
}
