// Command jsonschemagen writes the server config file schema to specs/.
// Run it from this directory so the Go comment paths resolve.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	serverconfig "github.com/genmcp/genai-video-mcp/pkg/config/server"
)

type commentSource struct {
	Base string
	Path string
}

var commentSources = []commentSource{
	{Base: "github.com/genmcp/genai-video-mcp/pkg/config/server", Path: "../../pkg/config/server"},
	{Base: "github.com/genmcp/genai-video-mcp/pkg/observability/logging", Path: "../../pkg/observability/logging"},
}

func main() {
	outDir := flag.String("out", filepath.Join("..", "..", "specs"), "directory the schema files are written to")
	flag.Parse()

	reflector := serverconfig.NewSchemaReflector()
	for _, src := range commentSources {
		if err := reflector.AddGoComments(src.Base, src.Path); err != nil {
			log.Fatalf("Failed to add Go comments from %s: %v", src.Path, err)
		}
	}

	schemaJSON, err := json.MarshalIndent(serverconfig.ReflectSchema(reflector), "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal schema: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create %s: %v", *outDir, err)
	}

	versionedFile := filepath.Join(*outDir, fmt.Sprintf("server-config-schema-%s.json", serverconfig.SchemaVersion))
	latestFile := filepath.Join(*outDir, "server-config-schema.json")

	for _, file := range []string{versionedFile, latestFile} {
		if err := os.WriteFile(file, schemaJSON, 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", file, err)
		}
	}
}
