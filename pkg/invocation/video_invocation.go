package invocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/genmcp/genai-video-mcp/pkg/catalog"
	"github.com/genmcp/genai-video-mcp/pkg/observability/logging"
	"github.com/genmcp/genai-video-mcp/pkg/videoapi"
)

// VideoInvoker handles generate_video calls. It keeps no state between calls.
type VideoInvoker struct {
	generator   VideoGenerator
	inputSchema *jsonschema.Resolved
}

var _ Invoker = &VideoInvoker{}

// NewVideoInvoker returns an invoker that sends requests through generator
// and validates arguments against the catalog schema.
func NewVideoInvoker(generator VideoGenerator) (*VideoInvoker, error) {
	if generator == nil {
		return nil, fmt.Errorf("video generator is required")
	}

	schema, err := catalog.ResolvedInputSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve generate_video input schema: %w", err)
	}

	return &VideoInvoker{
		generator:   generator,
		inputSchema: schema,
	}, nil
}

// Invoke never returns an error: every failure is reported in the result.
func (vi *VideoInvoker) Invoke(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args json.RawMessage
	if req != nil && req.Params != nil {
		args = req.Params.Arguments
	}

	return CallToolResult(vi.Generate(ctx, args)), nil
}

// Generate validates args, issues one generation request and maps the outcome.
// Panics below this point are reported as failures too.
func (vi *VideoInvoker) Generate(ctx context.Context, args json.RawMessage) (result GenerationResult) {
	logger := logging.BaseFromContext(ctx).With(zap.String("invocation_id", uuid.NewString()))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Video generation panicked", zap.Any("panic", r))
			result = failedToGenerate(fmt.Errorf("%v", r))
		}
	}()

	genReq, err := ParseGenerateVideoRequest(args, vi.inputSchema)
	if err != nil {
		logger.Warn("Rejected generate_video arguments", zap.Error(err))
		return failedToGenerate(err)
	}

	logger.Debug("Sending video generation request",
		zap.String("model", genReq.Model),
		zap.Bool("has_config", genReq.Config != nil))

	// the caller cannot cancel a generation once it has been requested
	res, err := vi.generator.GenerateVideo(context.WithoutCancel(ctx), genReq)
	if err != nil {
		var httpErr *videoapi.HTTPError
		if errors.As(err, &httpErr) {
			logger.Error("Video service returned an error status",
				zap.Int("status_code", httpErr.StatusCode),
				zap.Error(err))
		} else {
			logger.Error("Video generation request failed", zap.Error(err))
		}
		return failedToGenerate(err)
	}

	result = fromResponse(res)
	if failure, ok := result.(*GenerationFailure); ok {
		logger.Warn("Video service reported a failure",
			zap.String("error", failure.Error),
			zap.String("message", failure.Message))
		return result
	}

	op, err := res.Data.ParseOperation()
	switch {
	case err != nil:
		logger.Debug("Could not read operation status", zap.Error(err))
	case op != nil:
		logger.Info("Video generation started",
			zap.String("operation", op.Name),
			zap.Bool("done", op.Done))
	}

	return result
}
