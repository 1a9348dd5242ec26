package test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"context"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/genmcp/genai-video-mcp/pkg/catalog"
	serverconfig "github.com/genmcp/genai-video-mcp/pkg/config/server"
	"github.com/genmcp/genai-video-mcp/pkg/runtime"
	"github.com/genmcp/genai-video-mcp/pkg/videoapi"
)

func connectInMemory(ctx context.Context, cfg *serverconfig.VideoMCPServerConfig) *mcp.ClientSession {
	s, err := runtime.NewVideoServer(cfg, "integration")
	Expect(err).NotTo(HaveOccurred())

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := s.Connect(ctx, serverTransport, nil)
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "integration client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(func() { _ = session.Close() })

	return session
}

var _ = Describe("Video MCP Server", func() {
	var (
		backend       *videoBackend
		backendServer *httptest.Server
		ctx           context.Context
	)

	BeforeEach(func() {
		backend, backendServer = newVideoBackend()
		DeferCleanup(backendServer.Close)

		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		DeferCleanup(cancel)
	})

	Describe("tool catalog", func() {
		It("lists generate_video identically on every call", func() {
			session := connectInMemory(ctx, newTestConfig(backendServer.URL))

			first, err := session.ListTools(ctx, &mcp.ListToolsParams{})
			Expect(err).NotTo(HaveOccurred())
			second, err := session.ListTools(ctx, &mcp.ListToolsParams{})
			Expect(err).NotTo(HaveOccurred())

			Expect(first.Tools).To(HaveLen(1))
			Expect(first.Tools[0].Name).To(Equal(catalog.GenerateVideoToolName))
			Expect(first.Tools[0].Annotations).NotTo(BeNil())
			Expect(first.Tools[0].Annotations.ReadOnlyHint).To(BeFalse())
			Expect(second.Tools).To(Equal(first.Tools))
		})

		It("rejects unknown tools at the protocol level", func() {
			session := connectInMemory(ctx, newTestConfig(backendServer.URL))

			_, err := session.CallTool(ctx, &mcp.CallToolParams{
				Name:      "generate_image",
				Arguments: map[string]any{"prompt": "a cat"},
			})
			Expect(err).To(MatchError(ContainSubstring("generate_image")))
			Expect(backend.Requests()).To(BeEmpty())
		})
	})

	Describe("generate_video over an in-memory session", func() {
		var session *mcp.ClientSession

		BeforeEach(func() {
			session = connectInMemory(ctx, newTestConfig(backendServer.URL))
		})

		It("forwards a prompt-only call without a config", func() {
			backend.respondWith(http.StatusOK, `{"success": true, "data": {"videoUrl": "https://cdn.example.com/v.mp4",
				"storagePath": "videos/v.mp4", "prompt": "a cat playing piano",
				"operation": {"name": "operations/abc", "done": false, "metadata": {"state": "RUNNING"}}}}`)

			result, err := session.CallTool(ctx, &mcp.CallToolParams{
				Name:      catalog.GenerateVideoToolName,
				Arguments: map[string]any{"prompt": "a cat playing piano"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(textResult(result)).To(MatchJSON(`{"success": true, "videoUrl": "https://cdn.example.com/v.mp4",
				"storagePath": "videos/v.mp4", "prompt": "a cat playing piano",
				"operation": {"name": "operations/abc", "done": false, "metadata": {"state": "RUNNING"}}}`))

			requests := backend.Requests()
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Method).To(Equal(http.MethodPost))
			Expect(requests[0].Path).To(Equal(videoapi.VideosPath))
			Expect(requests[0].Authorization).To(Equal("Bearer " + testToken))
			Expect(requests[0].ContentType).To(Equal("application/json"))
			Expect(requests[0].Body).To(MatchJSON(`{"prompt": "a cat playing piano"}`))
		})

		It("forwards exactly the supplied optional fields", func() {
			backend.respondWith(http.StatusOK, `{"success": true, "data": {"videoUrl": "", "storagePath": "", "prompt": "sunset"}}`)

			_, err := session.CallTool(ctx, &mcp.CallToolParams{
				Name: catalog.GenerateVideoToolName,
				Arguments: map[string]any{
					"prompt":          "sunset",
					"model":           "veo-3.1-generate-preview",
					"durationSeconds": 6,
					"referenceImages": []any{
						map[string]any{"image": map[string]any{"gcsUri": "gs://b/ref.png"}, "referenceType": "asset"},
					},
				},
			})
			Expect(err).NotTo(HaveOccurred())

			requests := backend.Requests()
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Body).To(MatchJSON(`{"prompt": "sunset", "model": "veo-3.1-generate-preview",
				"config": {"durationSeconds": 6, "referenceImages": [{"image": {"gcsUri": "gs://b/ref.png"}, "referenceType": "asset"}]}}`))

			req := decodeRequest(requests[0])
			Expect(req.Config.AspectRatio).To(BeEmpty())
		})

		It("relays the operation exactly as the service returned it", func() {
			backend.respondWith(http.StatusOK, `{"success": true, "data": {"prompt": "waves",
				"operation": {"name": "operations/def", "response": {"generatedVideos": [{"video": {"uri": "gs://b/w.mp4"}}]}}}}`)

			result, err := session.CallTool(ctx, &mcp.CallToolParams{
				Name:      catalog.GenerateVideoToolName,
				Arguments: map[string]any{"prompt": "waves", "aspectRatio": nil},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(textResult(result)).To(MatchJSON(`{"success": true, "prompt": "waves",
				"operation": {"name": "operations/def", "response": {"generatedVideos": [{"video": {"uri": "gs://b/w.mp4"}}]}}}`))

			requests := backend.Requests()
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Body).To(MatchJSON(`{"prompt": "waves"}`))
		})

		It("fails without a prompt and never calls the service", func() {
			result, err := session.CallTool(ctx, &mcp.CallToolParams{
				Name:      catalog.GenerateVideoToolName,
				Arguments: map[string]any{"aspectRatio": "16:9"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(textResult(result)).To(MatchJSON(`{"success": false, "error": "Failed to generate video", "message": "prompt is required"}`))
			Expect(backend.Requests()).To(BeEmpty())
		})

		DescribeTable("maps service failures",
			func(status int, body string, expected string) {
				backend.respondWith(status, body)

				result, err := session.CallTool(ctx, &mcp.CallToolParams{
					Name:      catalog.GenerateVideoToolName,
					Arguments: map[string]any{"prompt": "x"},
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(result.IsError).To(BeTrue())
				Expect(textResult(result)).To(MatchJSON(expected))
				Expect(backend.Requests()).To(HaveLen(1))
			},
			Entry("server error with an unparsable body", http.StatusInternalServerError, "Internal Server Error",
				`{"success": false, "error": "Failed to generate video", "message": "HTTP error! status: 500"}`),
			Entry("client error with a message", http.StatusBadRequest, `{"error": "Bad Request", "message": "prompt rejected by safety filter"}`,
				`{"success": false, "error": "Failed to generate video", "message": "prompt rejected by safety filter"}`),
			Entry("unauthorized with only an error", http.StatusUnauthorized, `{"error": "invalid token"}`,
				`{"success": false, "error": "Failed to generate video", "message": "HTTP error! status: 401"}`),
			Entry("reported failure without details", http.StatusOK, `{"success": false}`,
				`{"success": false, "error": "Unknown error occurred"}`),
			Entry("reported failure with details", http.StatusOK, `{"success": false, "error": "Quota exceeded", "message": "retry tomorrow"}`,
				`{"success": false, "error": "Quota exceeded", "message": "retry tomorrow"}`),
		)
	})

	Describe("generate_video over streamable HTTP", func() {
		It("serves health probes and tool calls until cancelled", func() {
			port := freePort()
			cfg := newTestConfig(backendServer.URL)
			cfg.Runtime.TransportProtocol = serverconfig.TransportProtocolStreamableHttp
			cfg.Runtime.StreamableHTTPConfig = &serverconfig.StreamableHTTPConfig{Port: port}
			cfg.ApplyDefaults()

			serverCtx, stopServer := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() {
				defer GinkgoRecover()
				done <- runtime.DoRunServer(serverCtx, cfg, "integration")
			}()
			DeferCleanup(stopServer)

			baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)

			By("waiting for readiness")
			Eventually(func() (int, error) {
				res, err := http.Get(baseURL + serverconfig.DefaultReadinessPath)
				if err != nil {
					return 0, err
				}
				_ = res.Body.Close()
				return res.StatusCode, nil
			}).WithTimeout(5 * time.Second).WithPolling(50 * time.Millisecond).Should(Equal(http.StatusOK))

			By("calling the tool through an MCP client")
			backend.respondWith(http.StatusOK, `{"success": true, "data": {"videoUrl": "u", "storagePath": "p", "prompt": "over http"}}`)

			client := mcp.NewClient(&mcp.Implementation{Name: "http client", Version: "0.0.1"}, nil)
			session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
				Endpoint: baseURL + serverconfig.DefaultBasePath,
			}, nil)
			Expect(err).NotTo(HaveOccurred())

			result, err := session.CallTool(ctx, &mcp.CallToolParams{
				Name:      catalog.GenerateVideoToolName,
				Arguments: map[string]any{"prompt": "over http"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(textResult(result)).To(MatchJSON(`{"success": true, "videoUrl": "u", "storagePath": "p", "prompt": "over http"}`))
			_ = session.Close()

			By("shutting down on cancellation")
			stopServer()
			Eventually(done).WithTimeout(15 * time.Second).Should(Receive(BeNil()))
		})
	})

	Describe("video service behind TLS", func() {
		var tlsServer *httptest.Server

		BeforeEach(func() {
			tlsServer = httptest.NewTLSServer(backend)
			DeferCleanup(tlsServer.Close)
			backend.respondWith(http.StatusOK, `{"success": true, "data": {"videoUrl": "u", "storagePath": "p", "prompt": "tls"}}`)
		})

		It("fails when the service CA is not trusted", func() {
			session := connectInMemory(ctx, newTestConfig(tlsServer.URL))

			result, err := session.CallTool(ctx, &mcp.CallToolParams{
				Name:      catalog.GenerateVideoToolName,
				Arguments: map[string]any{"prompt": "tls"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
			Expect(textResult(result)).To(ContainSubstring("failed to execute http request"))
		})

		It("succeeds once the CA is configured", func() {
			caFile := filepath.Join(GinkgoT().TempDir(), "video-ca.pem")
			caPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: tlsServer.Certificate().Raw})
			Expect(os.WriteFile(caFile, caPEM, 0o600)).To(Succeed())

			cfg := newTestConfig(tlsServer.URL)
			cfg.Runtime.ClientTLSConfig = &serverconfig.ClientTLSConfig{CACertFiles: []string{caFile}}
			session := connectInMemory(ctx, cfg)

			result, err := session.CallTool(ctx, &mcp.CallToolParams{
				Name:      catalog.GenerateVideoToolName,
				Arguments: map[string]any{"prompt": "tls"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(textResult(result)).To(MatchJSON(`{"success": true, "videoUrl": "u", "storagePath": "p", "prompt": "tls"}`))
		})
	})
})
