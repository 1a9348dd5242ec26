package invocation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/genmcp/genai-video-mcp/pkg/videoapi"
)

// ErrPromptRequired is returned when a call has no prompt or an empty one.
var ErrPromptRequired = errors.New("prompt is required")

// generateVideoArgs mirrors the generate_video input schema. Every field
// except Prompt is optional and only forwarded when supplied.
type generateVideoArgs struct {
	Prompt           string                    `json:"prompt"`
	Model            string                    `json:"model"`
	AspectRatio      string                    `json:"aspectRatio"`
	NegativePrompt   string                    `json:"negativePrompt"`
	Resolution       string                    `json:"resolution"`
	DurationSeconds  *float64                  `json:"durationSeconds"`
	PersonGeneration string                    `json:"personGeneration"`
	Image            *videoapi.Image           `json:"image"`
	LastFrame        *videoapi.Image           `json:"lastFrame"`
	ReferenceImages  []videoapi.ReferenceImage `json:"referenceImages"`
	Video            *videoapi.Video           `json:"video"`
}

// ParseGenerateVideoRequest validates raw tool call arguments and builds the
// backing service request. The prompt is checked first so that a call
// without one never reaches the schema or the network. A nil schema skips
// shape validation.
func ParseGenerateVideoRequest(raw json.RawMessage, schema *jsonschema.Resolved) (*videoapi.GenerationRequest, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	var instance map[string]any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, fmt.Errorf("failed to parse tool call arguments: %w", err)
	}

	// non-string prompts are left to the schema
	switch p := instance["prompt"].(type) {
	case nil:
		return nil, ErrPromptRequired
	case string:
		if p == "" {
			return nil, ErrPromptRequired
		}
	}

	// null optional values count as not supplied
	for key, value := range instance {
		if value == nil {
			delete(instance, key)
		}
	}

	if schema != nil {
		if err := schema.Validate(instance); err != nil {
			return nil, fmt.Errorf("failed to validate tool call arguments: %w", err)
		}
	}

	var args generateVideoArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("failed to parse tool call arguments: %w", err)
	}

	req := &videoapi.GenerationRequest{
		Prompt: args.Prompt,
		Model:  args.Model,
	}

	config := buildConfig(&args)
	if !config.IsEmpty() {
		req.Config = config
	}

	return req, nil
}

// buildConfig copies the supplied optional fields. Empty strings and a zero
// duration count as not supplied. A supplied reference list is forwarded even
// when empty.
func buildConfig(args *generateVideoArgs) *videoapi.GenerationConfig {
	config := &videoapi.GenerationConfig{
		AspectRatio:      args.AspectRatio,
		NegativePrompt:   args.NegativePrompt,
		Resolution:       args.Resolution,
		PersonGeneration: args.PersonGeneration,
		Image:            args.Image,
		LastFrame:        args.LastFrame,
		Video:            args.Video,
	}

	if args.DurationSeconds != nil && *args.DurationSeconds != 0 {
		config.DurationSeconds = args.DurationSeconds
	}

	if args.ReferenceImages != nil {
		config.ReferenceImages = args.ReferenceImages
	}

	return config
}
