package invocation

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/genmcp/genai-video-mcp/pkg/invocation/utils"
	"github.com/genmcp/genai-video-mcp/pkg/videoapi"
)

const (
	// FailedToGenerateError is the error reported for every local or transport failure.
	FailedToGenerateError = "Failed to generate video"

	// UnknownError is reported when the service fails without saying why.
	UnknownError = "Unknown error occurred"
)

// GenerationResult is the envelope returned to the caller. It is either a
// *GenerationSuccess or a *GenerationFailure.
type GenerationResult interface {
	Failed() bool
}

// GenerationSuccess relays the service payload unchanged. Fields absent from
// the service response are absent here too.
type GenerationSuccess struct {
	Success     bool            `json:"success"`
	VideoURL    json.RawMessage `json:"videoUrl,omitempty"`
	StoragePath json.RawMessage `json:"storagePath,omitempty"`
	Prompt      json.RawMessage `json:"prompt,omitempty"`
	Operation   json.RawMessage `json:"operation,omitempty"`
}

func (*GenerationSuccess) Failed() bool { return false }

// GenerationFailure describes a failure raised locally or by the service.
type GenerationFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (*GenerationFailure) Failed() bool { return true }

func succeeded(data *videoapi.GenerationData) *GenerationSuccess {
	return &GenerationSuccess{
		Success:     true,
		VideoURL:    data.VideoURL,
		StoragePath: data.StoragePath,
		Prompt:      data.Prompt,
		Operation:   data.Operation,
	}
}

func failed(errText, message string) *GenerationFailure {
	return &GenerationFailure{
		Success: false,
		Error:   errText,
		Message: message,
	}
}

// failedToGenerate wraps any error caught at the invocation boundary.
func failedToGenerate(err error) *GenerationFailure {
	return failed(FailedToGenerateError, err.Error())
}

// fromResponse maps a decoded 2xx response.
func fromResponse(res *videoapi.GenerationResponse) GenerationResult {
	if res.Success && res.Data != nil {
		return succeeded(res.Data)
	}

	errText := res.Error
	if errText == "" {
		errText = UnknownError
	}

	return failed(errText, res.Message)
}

// CallToolResult renders the envelope as indented JSON text content. The same
// envelope is attached as structured content.
func CallToolResult(result GenerationResult) *mcp.CallToolResult {
	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return utils.McpTextError("failed to marshal tool call result: %s", err.Error())
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(text)},
		},
		StructuredContent: result,
		IsError:           result.Failed(),
	}
}
