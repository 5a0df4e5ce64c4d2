package mcp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpadapter "github.com/openkraft/pluginpipe/internal/adapters/inbound/mcp"
	"github.com/openkraft/pluginpipe/internal/bootstrap"
	"github.com/openkraft/pluginpipe/internal/logger"
)

func TestNewPluginPipeMCPServer(t *testing.T) {
	s := mcpadapter.NewPluginPipeMCPServer(".", bootstrap.New(logger.Nop()))
	require.NotNil(t, s)
}

func TestMCPServerHasTools(t *testing.T) {
	s := mcpadapter.NewPluginPipeMCPServer(".", bootstrap.New(logger.Nop()))

	tools := s.ListTools()
	require.NotNil(t, tools)

	expectedTools := []string{
		"pluginpipe_validate",
		"pluginpipe_fix",
		"pluginpipe_autofix",
	}
	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}
	assert.Len(t, tools, len(expectedTools))
}
