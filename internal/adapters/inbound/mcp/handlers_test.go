package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/pluginpipe/internal/bootstrap"
	"github.com/openkraft/pluginpipe/internal/logger"
)

func pluginDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".claude-plugin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".claude-plugin", "plugin.json"), []byte(`{"name":"demo"}`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "hooks"), 0o755))
	return root
}

func call(t *testing.T, h func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), args map[string]any) (*mcplib.CallToolResult, string) {
	t.Helper()
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return res, text.Text
}

func TestHandleValidate(t *testing.T) {
	root := pluginDir(t)
	_, text := call(t, handleValidate(root, bootstrap.New(logger.Nop())), nil)

	var report struct {
		ProjectType string `json:"project_type"`
		IsValid     bool   `json:"is_valid"`
		Summary     struct {
			Major int `json:"major"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &report))
	assert.Equal(t, "plugin", report.ProjectType)
	assert.False(t, report.IsValid)
	assert.Equal(t, 4, report.Summary.Major)
}

func TestHandleValidate_BadType(t *testing.T) {
	res, text := call(t, handleValidate(t.TempDir(), bootstrap.New(logger.Nop())), map[string]any{"type": "library"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "library")
}

func TestHandleFix(t *testing.T) {
	root := pluginDir(t)
	svc := bootstrap.New(logger.Nop())

	_, dry := call(t, handleFix(root, svc), map[string]any{"dry_run": true})
	assert.Contains(t, dry, `"applied": 0`)
	assert.NoFileExists(t, filepath.Join(root, ".git", "hooks", "pre-commit"))

	_, text := call(t, handleFix(root, svc), nil)
	var out struct {
		Status struct {
			IsValid bool `json:"is_valid"`
		} `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.True(t, out.Status.IsValid)
	assert.FileExists(t, filepath.Join(root, ".git", "hooks", "pre-commit"))
}

func TestHandleFix_UnknownProject(t *testing.T) {
	res, _ := call(t, handleFix(t.TempDir(), bootstrap.New(logger.Nop())), nil)
	assert.True(t, res.IsError)
}

func TestHistoryResource_Empty(t *testing.T) {
	contents, err := handleHistoryResource(t.TempDir(), bootstrap.New(logger.Nop()))(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "[]", text.Text)
}
