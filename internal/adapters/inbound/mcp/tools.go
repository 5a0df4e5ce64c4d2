package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/pluginpipe/internal/application"
	"github.com/openkraft/pluginpipe/internal/bootstrap"
	"github.com/openkraft/pluginpipe/internal/domain"
)

func registerTools(s *server.MCPServer, projectPath string, svc *bootstrap.Services) {
	s.AddTool(
		mcplib.NewTool("pluginpipe_validate",
			mcplib.WithDescription("Report hook, config and submodule issues of the plugin or marketplace, by severity"),
			mcplib.WithString("type", mcplib.Description("Force the project type: marketplace or plugin")),
		),
		handleValidate(projectPath, svc),
	)

	s.AddTool(
		mcplib.NewTool("pluginpipe_fix",
			mcplib.WithDescription("Install missing hooks and config files, remove harmful hooks, and return the actions taken with the resulting status"),
			mcplib.WithBoolean("dry_run", mcplib.Description("List the fixes without applying them")),
			mcplib.WithString("type", mcplib.Description("Force the project type: marketplace or plugin")),
		),
		handleFix(projectPath, svc),
	)

	s.AddTool(
		mcplib.NewTool("pluginpipe_autofix",
			mcplib.WithDescription("Run the lint/fix/commit loop until the tree converges, then validate plugin structure. May add commits to the current branch."),
		),
		handleAutofix(projectPath, svc),
	)
}

func validateOptions(request mcplib.CallToolRequest) (application.ValidateOptions, error) {
	kind, _ := request.GetArguments()["type"].(string)
	switch kind {
	case "":
		return application.ValidateOptions{}, nil
	case "marketplace", "plugin":
		k, err := domain.ParseProjectKind(kind)
		return application.ValidateOptions{ForceKind: k}, err
	}
	return application.ValidateOptions{}, fmt.Errorf("type must be marketplace or plugin, got %q", kind)
}

func absPath(projectPath string) (string, error) {
	p, err := filepath.Abs(projectPath)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return p, nil
}

func handleValidate(projectPath string, svc *bootstrap.Services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		opts, err := validateOptions(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		root, err := absPath(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(svc.Validate.Validate(root, opts).Report())
	}
}

type fixResult struct {
	Fix    *domain.FixReport   `json:"fix"`
	Status domain.StatusReport `json:"status"`
}

func handleFix(projectPath string, svc *bootstrap.Services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		opts, err := validateOptions(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		root, err := absPath(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		dryRun, _ := request.GetArguments()["dry_run"].(bool)

		report, err := svc.Fix.Fix(root, opts, domain.FixOptions{DryRun: dryRun})
		if errors.Is(err, application.ErrUnknownProject) {
			return errorResult(fmt.Sprintf("%s is not a plugin or marketplace", root)), nil
		}
		if err != nil {
			return errorResult(fmt.Sprintf("fix failed: %v", err)), nil
		}
		return jsonResult(fixResult{Fix: report, Status: svc.Validate.Validate(root, opts).Report()})
	}
}

func handleAutofix(projectPath string, svc *bootstrap.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		root, err := absPath(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		outcome, err := svc.AutoFix(root).Run(ctx, root)
		if err != nil {
			return errorResult(fmt.Sprintf("auto-fix aborted: %v", err)), nil
		}
		return jsonResult(outcome)
	}
}

// jsonResult marshals v to indented JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error content result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
