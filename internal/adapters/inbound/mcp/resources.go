package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/pluginpipe/internal/application"
	"github.com/openkraft/pluginpipe/internal/bootstrap"
	"github.com/openkraft/pluginpipe/internal/domain"
)

const (
	statusURI  = "pluginpipe://status"
	historyURI = "pluginpipe://history"
)

func registerResources(s *server.MCPServer, projectPath string, svc *bootstrap.Services) {
	s.AddResource(
		mcplib.NewResource(
			statusURI,
			"Pipeline Status",
			mcplib.WithResourceDescription("Current hook, config and submodule status of the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleStatusResource(projectPath, svc),
	)

	s.AddResource(
		mcplib.NewResource(
			historyURI,
			"Auto-fix History",
			mcplib.WithResourceDescription("Recorded auto-fix runs, oldest first"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(projectPath, svc),
	)
}

func handleStatusResource(projectPath string, svc *bootstrap.Services) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		root, err := absPath(projectPath)
		if err != nil {
			return nil, err
		}
		return jsonResource(statusURI, svc.Validate.Validate(root, application.ValidateOptions{}).Report())
	}
}

func handleHistoryResource(projectPath string, svc *bootstrap.Services) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		root, err := absPath(projectPath)
		if err != nil {
			return nil, err
		}
		records, err := svc.History.Load(root)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
		if records == nil {
			records = []domain.RunRecord{}
		}
		return jsonResource(historyURI, records)
	}
}

func jsonResource(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
