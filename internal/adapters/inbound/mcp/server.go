package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/pluginpipe/internal/bootstrap"
)

// NewPluginPipeMCPServer creates an MCP server with the pluginpipe tools and
// resources registered for the project at projectPath.
func NewPluginPipeMCPServer(projectPath string, svc *bootstrap.Services) *server.MCPServer {
	s := server.NewMCPServer(
		"pluginpipe",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, svc)
	registerResources(s, projectPath, svc)

	return s
}
