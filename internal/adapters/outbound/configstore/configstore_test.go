package configstore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openkraft/pluginpipe/internal/adapters/outbound/configstore"
	"github.com/openkraft/pluginpipe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfig_CreatesFromTemplates(t *testing.T) {
	root := t.TempDir()
	s := configstore.New()

	for _, name := range domain.ConfigFileOrder {
		assert.False(t, s.InspectConfig(root, name).Exists, name)
		require.NoError(t, s.WriteConfig(root, name), name)
		state := s.InspectConfig(root, name)
		assert.True(t, state.Exists, name)
		assert.False(t, state.Malformed, name)
		assert.Empty(t, state.MissingPatterns, name)
	}
	assert.FileExists(t, filepath.Join(root, ".github", "workflows", "validate.yml"))
}

func TestWriteConfig_NeverOverwrites(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "cliff.toml")
	require.NoError(t, os.WriteFile(path, []byte("[changelog]\n"), 0o644))

	err := configstore.New().WriteConfig(root, domain.ConfigCliff)
	assert.Error(t, err)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "[changelog]\n", string(data))
}

func TestInspectConfig_MalformedCliff(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "cliff.toml"), []byte("[changelog\nheader = "), 0o644))

	state := configstore.New().InspectConfig(root, domain.ConfigCliff)
	assert.True(t, state.Exists)
	assert.True(t, state.Malformed)
}

func TestInspectConfig_WorkflowHeuristic(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".github", "workflows")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	s := configstore.New()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "release.yml"), []byte("name: Release\n"), 0o644))
	assert.False(t, s.InspectConfig(root, domain.ConfigWorkflow).Exists)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ci.yaml"), []byte("name: Check Plugin\n"), 0o644))
	assert.True(t, s.InspectConfig(root, domain.ConfigWorkflow).Exists)
}

func TestInspectConfig_UnrelatedWorkflowAtTemplatePath(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".github", "workflows")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "validate.yml"), []byte("name: Lint\n"), 0o644))

	state := configstore.New().InspectConfig(root, domain.ConfigWorkflow)
	assert.False(t, state.Exists)
	assert.True(t, state.Occupied)

	empty := configstore.New().InspectConfig(t.TempDir(), domain.ConfigWorkflow)
	assert.False(t, empty.Occupied)
}

func TestAppendGitignore_OnlyMissingAndIdempotent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("__pycache__/\nnode_modules/"), 0o644))
	s := configstore.New()

	state := s.InspectConfig(root, domain.ConfigGitignore)
	assert.Equal(t, []string{".mypy_cache", "docs_dev/", ".pluginpipe/"}, state.MissingPatterns)

	require.NoError(t, s.AppendGitignore(root, state.MissingPatterns))
	require.NoError(t, s.AppendGitignore(root, configstore.GitignoreMarkers))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Equal(t, 1, strings.Count(content, "__pycache__"))
	assert.Equal(t, 1, strings.Count(content, ".mypy_cache"))
	assert.Contains(t, content, "node_modules/\n\n# Added by pluginpipe\n")
	assert.Empty(t, s.InspectConfig(root, domain.ConfigGitignore).MissingPatterns)
}
