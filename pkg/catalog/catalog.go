// Package catalog declares the tools exposed by the server.
package catalog

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"k8s.io/utils/ptr"
)

const (
	// GenerateVideoToolName is the name of the only tool the server exposes.
	GenerateVideoToolName = "generate_video"

	// MaxReferenceImages is the largest number of reference images the service accepts.
	MaxReferenceImages = 3

	generateVideoTitle       = "Generate video"
	generateVideoDescription = "Generate a video using AI based on a text prompt. Supports text-to-video, " +
		"image-to-video (with image parameter), video interpolation (with image and lastFrame), " +
		"video extension (with video parameter), and reference images for style/content guidance " +
		"(Veo 3.1 only). Video generation is asynchronous and may take several minutes."
)

const (
	typeObject = "object"
	typeString = "string"
	typeNumber = "number"
	typeArray  = "array"
)

// GenerateVideoTool returns the MCP description of the generate_video tool.
// Every call returns a freshly built, identical value.
func GenerateVideoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        GenerateVideoToolName,
		Title:       generateVideoTitle,
		Description: generateVideoDescription,
		InputSchema: GenerateVideoInputSchema(),
		Annotations: &mcp.ToolAnnotations{
			Title:           generateVideoTitle,
			ReadOnlyHint:    false,
			IdempotentHint:  false,
			DestructiveHint: ptr.To(false),
			OpenWorldHint:   ptr.To(true),
		},
	}
}

// Tools returns every tool in the catalog.
func Tools() []*mcp.Tool {
	return []*mcp.Tool{GenerateVideoTool()}
}

// ResolvedInputSchema resolves the generate_video input schema for validating tool arguments.
func ResolvedInputSchema() (*jsonschema.Resolved, error) {
	return GenerateVideoInputSchema().Resolve(nil)
}

// GenerateVideoInputSchema returns the JSON schema of the generate_video arguments.
func GenerateVideoInputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: typeObject,
		Properties: map[string]*jsonschema.Schema{
			"prompt": {
				Type:        typeString,
				Description: "The text description of the video you want to generate",
			},
			"model": {
				Type:        typeString,
				Description: `The AI model to use for video generation (default: "veo-3.1-generate-preview")`,
			},
			"aspectRatio": {
				Type:        typeString,
				Description: `The aspect ratio of the generated video. Options: "16:9" (default, 720p & 1080p), "9:16" (720p & 1080p)`,
			},
			"negativePrompt": {
				Type:        typeString,
				Description: "Things you want to avoid in the generated video",
			},
			"resolution": {
				Type:        typeString,
				Description: `The resolution of the generated video. Options: "720p" (default), "1080p" (only supports 8s duration). Use "720p" for video extension.`,
			},
			"durationSeconds": {
				Type:        typeNumber,
				Description: "Length of the generated video in seconds. Options: 4, 5, 6, or 8. Must be 8 when using extension/interpolation or referenceImages (16:9 only).",
			},
			"personGeneration": {
				Type: typeString,
				Description: `Controls the generation of people. Text-to-video & Extension: "allow_all" only. ` +
					`Image-to-video, Interpolation & Reference images: "allow_adult" only. Options: "allow_all", "allow_adult", "dont_allow".`,
			},
			"image":     imageSchema("An initial image to animate (Image-to-video). Provide either imageBytes (base64) or gcsUri."),
			"lastFrame": imageSchema("The final image for an interpolation video. Must be used with the image parameter."),
			"referenceImages": {
				Type:        typeArray,
				Description: "Up to three images to be used as style and content references (Veo 3.1 only).",
				MaxItems:    ptr.To(MaxReferenceImages),
				Items: &jsonschema.Schema{
					Type: typeObject,
					Properties: map[string]*jsonschema.Schema{
						"image": imageSchema(""),
						"referenceType": {
							Type:        typeString,
							Description: "Reference type (style or content)",
						},
					},
				},
			},
			"video": {
				Type:        typeObject,
				Description: "Video to be used for video extension. Provide either videoBytes (base64) or gcsUri.",
				Properties: map[string]*jsonschema.Schema{
					"videoBytes": {Type: typeString, Description: "Base64 encoded video data"},
					"gcsUri":     {Type: typeString, Description: "GCS URI for the video (gs://...)"},
					"mimeType":   {Type: typeString, Description: "MIME type of the video (e.g., video/mp4)"},
				},
			},
		},
		Required: []string{"prompt"},
	}
}

func imageSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        typeObject,
		Description: description,
		Properties: map[string]*jsonschema.Schema{
			"imageBytes": {Type: typeString, Description: "Base64 encoded image data"},
			"gcsUri":     {Type: typeString, Description: "GCS URI for the image (gs://...)"},
			"mimeType":   {Type: typeString, Description: "MIME type of the image (e.g., image/png)"},
		},
	}
}
