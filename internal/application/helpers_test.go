package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openkraft/pluginpipe/internal/adapters/outbound/configstore"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/detector"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/hookstore"
	"github.com/openkraft/pluginpipe/internal/application"
	"github.com/openkraft/pluginpipe/internal/logger"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newServices() (*application.ValidateService, *application.FixService) {
	det := detector.New()
	git := gitinfo.New()
	hooks := hookstore.New()
	configs := configstore.New()
	log := logger.Nop()
	v := application.NewValidateService(det, git, hooks, configs, log)
	return v, application.NewFixService(v, git, hooks, configs, log)
}

// pluginFixture creates a standalone plugin with a .git directory and every
// config file in place, so only hook issues remain.
func pluginFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".claude-plugin", "plugin.json"), `{"name": "demo", "version": "1.0.0"}`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "hooks"), 0o755))
	writeConfigs(t, root)
	return root
}

func writeConfigs(t *testing.T, root string) {
	t.Helper()
	writeFile(t, filepath.Join(root, "cliff.toml"), "[changelog]\nheader = \"# Changelog\"\n")
	writeFile(t, filepath.Join(root, ".gitignore"), "__pycache__/\n.mypy_cache/\ndocs_dev/\n.pluginpipe/\n")
	writeFile(t, filepath.Join(root, ".github", "workflows", "ci.yml"), "name: Validate plugin\non: [push]\n")
}

func installAllHooks(t *testing.T, hooksDir string) {
	t.Helper()
	store := hookstore.New()
	for _, name := range []string{"pre-commit", "pre-push", "post-rewrite", "post-merge"} {
		require.NoError(t, store.InstallHook(hooksDir, name))
	}
}
