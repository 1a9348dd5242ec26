// Package videoapi is a client for the backing video-generation service.
package videoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// VideosPath is the endpoint that starts a video generation.
	VideosPath = "/ai-service/videos"

	contentTypeHeader   = "Content-Type"
	authorizationHeader = "Authorization"
	jsonContentType     = "application/json"
)

// HTTPError is returned when the service answers with a non-2xx status.
// Message is the message field of the JSON error body when one is present.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Client issues generation requests against the backing service. It is safe
// for concurrent use and never mutated after construction.
type Client struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
}

// NewClient returns a client for the service rooted at baseURL. If httpClient
// is nil, http.DefaultClient is used.
func NewClient(baseURL, bearerToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		bearerToken: bearerToken,
		httpClient:  httpClient,
	}
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GenerateVideo performs a single POST to the videos endpoint. Non-2xx
// statuses are returned as *HTTPError; a 2xx body is decoded as-is, including
// responses that report success:false.
func (c *Client) GenerateVideo(ctx context.Context, req *GenerationRequest) (*GenerationResponse, error) {
	bodyJson, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+VideosPath, bytes.NewReader(bodyJson))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set(contentTypeHeader, jsonContentType)
	httpReq.Header.Set(authorizationHeader, "Bearer "+c.bearerToken)

	response, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute http request: %w", err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read http response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, newHTTPError(response.StatusCode, body)
	}

	var res GenerationResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}

	return &res, nil
}

func newHTTPError(statusCode int, body []byte) *HTTPError {
	httpErr := &HTTPError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP error! status: %d", statusCode),
	}

	// only message is read; a body carrying just error keeps the status text
	var errBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Message != "" {
		httpErr.Message = errBody.Message
	}

	return httpErr
}
