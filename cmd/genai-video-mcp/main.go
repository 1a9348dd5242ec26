package main

import "github.com/genmcp/genai-video-mcp/pkg/cli"

// set at build time with -ldflags "-X main.version=..."
var version = ""

func main() {
	cli.Execute(version)
}
