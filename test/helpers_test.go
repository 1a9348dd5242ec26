package test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"k8s.io/utils/ptr"

	serverconfig "github.com/genmcp/genai-video-mcp/pkg/config/server"
	"github.com/genmcp/genai-video-mcp/pkg/observability/logging"
	"github.com/genmcp/genai-video-mcp/pkg/videoapi"
)

const testToken = "integration-token"

// recordedRequest is one call received by the fake video service.
type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          string
}

// videoBackend fakes the video generation service.
type videoBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (b *videoBackend) respondWith(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
	b.body = body
}

func (b *videoBackend) Requests() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedRequest(nil), b.requests...)
}

func (b *videoBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	Expect(err).NotTo(HaveOccurred())

	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          string(body),
	})
	status, respBody := b.status, b.body
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, respBody)
}

func newVideoBackend() (*videoBackend, *httptest.Server) {
	By("creating the fake video service")
	backend := &videoBackend{status: http.StatusOK, body: `{"success": false}`}
	return backend, httptest.NewServer(backend)
}

func newTestConfig(baseURL string) *serverconfig.VideoMCPServerConfig {
	cfg := &serverconfig.VideoMCPServerConfig{
		Kind:          serverconfig.KindVideoMCPServerConfig,
		SchemaVersion: serverconfig.SchemaVersion,
		Runtime: &serverconfig.ServerRuntime{
			LoggingConfig: &logging.LoggingConfig{
				Level:         "warn",
				OutputPaths:   []string{"stderr"},
				EnableMcpLogs: ptr.To(true),
			},
		},
		Backend: &serverconfig.BackendConfig{BaseURL: baseURL, BearerToken: testToken},
	}
	cfg.ApplyDefaults()
	Expect(cfg.Validate()).To(Succeed())
	return cfg
}

func freePort() int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port
}

func textResult(result *mcp.CallToolResult) string {
	Expect(result.Content).To(HaveLen(1))
	text, ok := result.Content[0].(*mcp.TextContent)
	Expect(ok).To(BeTrue(), "tool results should be text content")
	return text.Text
}

func decodeRequest(r recordedRequest) videoapi.GenerationRequest {
	var req videoapi.GenerationRequest
	Expect(json.Unmarshal([]byte(r.Body), &req)).To(Succeed())
	return req
}
