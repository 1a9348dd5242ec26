// Package invocation turns MCP tool calls into requests against the backing
// video service and maps the outcome back into tool results.
package invocation

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/genmcp/genai-video-mcp/pkg/videoapi"
)

// Invoker handles calls for a single tool.
type Invoker interface {
	Invoke(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// VideoGenerator issues one generation request to the backing service.
// *videoapi.Client implements it.
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, req *videoapi.GenerationRequest) (*videoapi.GenerationResponse, error)
}

var _ VideoGenerator = &videoapi.Client{}
