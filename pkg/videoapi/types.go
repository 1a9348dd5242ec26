package videoapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Image references an image either inline (base64) or by storage URI.
// Only one of ImageBytes and GCSURI is expected to be set.
type Image struct {
	ImageBytes string `json:"imageBytes,omitempty"`
	GCSURI     string `json:"gcsUri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
}

// Video references a video either inline (base64) or by storage URI.
// Only one of VideoBytes and GCSURI is expected to be set.
type Video struct {
	VideoBytes string `json:"videoBytes,omitempty"`
	GCSURI     string `json:"gcsUri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
}

// ReferenceImage is an image used as style or content guidance.
type ReferenceImage struct {
	Image         *Image `json:"image,omitempty"`
	ReferenceType string `json:"referenceType,omitempty"`
}

// GenerationConfig holds the optional generation parameters. Unset fields are
// omitted from the wire so the backing service applies its own defaults. A nil
// ReferenceImages is unset; an empty non-nil list is sent as [].
type GenerationConfig struct {
	AspectRatio      string           `json:"aspectRatio,omitempty"`
	NegativePrompt   string           `json:"negativePrompt,omitempty"`
	Resolution       string           `json:"resolution,omitempty"`
	DurationSeconds  *float64         `json:"durationSeconds,omitempty"`
	PersonGeneration string           `json:"personGeneration,omitempty"`
	Image            *Image           `json:"image,omitempty"`
	LastFrame        *Image           `json:"lastFrame,omitempty"`
	ReferenceImages  []ReferenceImage `json:"referenceImages,omitzero"`
	Video            *Video           `json:"video,omitempty"`
}

// IsEmpty reports whether no parameter was set.
func (c *GenerationConfig) IsEmpty() bool {
	if c == nil {
		return true
	}

	return c.AspectRatio == "" &&
		c.NegativePrompt == "" &&
		c.Resolution == "" &&
		c.DurationSeconds == nil &&
		c.PersonGeneration == "" &&
		c.Image == nil &&
		c.LastFrame == nil &&
		c.ReferenceImages == nil &&
		c.Video == nil
}

// GenerationRequest is the body of POST /ai-service/videos.
type GenerationRequest struct {
	Prompt string            `json:"prompt"`
	Model  string            `json:"model,omitempty"`
	Config *GenerationConfig `json:"config,omitempty"`
}

// Operation holds the fields of a generation job that are read for logging.
type Operation struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// GenerationData is the payload of a successful generation response. Fields
// stay raw so they are relayed exactly as received; an absent field stays nil.
type GenerationData struct {
	VideoURL    json.RawMessage `json:"videoUrl,omitempty"`
	StoragePath json.RawMessage `json:"storagePath,omitempty"`
	Prompt      json.RawMessage `json:"prompt,omitempty"`
	Operation   json.RawMessage `json:"operation,omitempty"`
}

// ParseOperation decodes the operation name and done flag. It returns nil
// when the response carried no operation.
func (d *GenerationData) ParseOperation() (*Operation, error) {
	if d == nil || len(d.Operation) == 0 || bytes.Equal(d.Operation, []byte("null")) {
		return nil, nil
	}

	var op Operation
	if err := json.Unmarshal(d.Operation, &op); err != nil {
		return nil, fmt.Errorf("failed to decode operation: %w", err)
	}

	return &op, nil
}

// GenerationResponse is the body returned by the backing service.
type GenerationResponse struct {
	Success bool            `json:"success"`
	Data    *GenerationData `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}
