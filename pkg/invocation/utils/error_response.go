package utils

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// McpTextError builds a failed tool result with a single text content.
func McpTextError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}
}
