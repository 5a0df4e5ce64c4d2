package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/pluginpipe/internal/application"
	"github.com/openkraft/pluginpipe/internal/domain"
)

func issuesOf(status *domain.PipelineStatus, sev domain.Severity) []domain.Issue {
	var out []domain.Issue
	for _, i := range status.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}

func TestValidate_UnknownProjectIsCritical(t *testing.T) {
	v, _ := newServices()
	status := v.Validate(t.TempDir(), application.ValidateOptions{})

	assert.Equal(t, domain.KindUnknown, status.Kind)
	require.Len(t, status.Issues, 1)
	assert.Equal(t, domain.SeverityCritical, status.Issues[0].Severity)
	assert.False(t, status.Issues[0].FixAvailable)
	assert.False(t, status.IsValid())
}

func TestValidate_FreshPluginHasFourMajorHookIssues(t *testing.T) {
	v, _ := newServices()
	status := v.Validate(pluginFixture(t), application.ValidateOptions{})

	assert.Equal(t, domain.KindPlugin, status.Kind)
	major := issuesOf(status, domain.SeverityMajor)
	assert.Len(t, major, 4)
	assert.Len(t, status.Issues, 4)
	for _, i := range major {
		assert.Equal(t, domain.ComponentHooks, i.Component)
		assert.True(t, i.FixAvailable)
	}
	assert.False(t, status.IsValid())
	assert.Equal(t, map[string]bool{"pre-commit": false, "pre-push": false, "post-rewrite": false, "post-merge": false}, status.Hooks)
}

func TestValidate_StubHookIsNotInstalled(t *testing.T) {
	root := pluginFixture(t)
	hooks := filepath.Join(root, ".git", "hooks")
	installAllHooks(t, hooks)
	require.NoError(t, os.WriteFile(filepath.Join(hooks, "pre-push"), []byte("#!/bin/sh\nexit 0\n"), 0o755))

	v, _ := newServices()
	status := v.Validate(root, application.ValidateOptions{})

	major := issuesOf(status, domain.SeverityMajor)
	require.Len(t, major, 1)
	assert.Contains(t, major[0].Message, "stub")
	assert.False(t, status.Hooks["pre-push"])
	assert.True(t, status.Hooks["pre-commit"])
}

func TestValidate_NonExecutableHook(t *testing.T) {
	root := pluginFixture(t)
	hooks := filepath.Join(root, ".git", "hooks")
	installAllHooks(t, hooks)
	require.NoError(t, os.Chmod(filepath.Join(hooks, "post-merge"), 0o644))

	v, _ := newServices()
	major := issuesOf(v.Validate(root, application.ValidateOptions{}), domain.SeverityMajor)

	require.Len(t, major, 1)
	assert.Contains(t, major[0].Message, "not executable")
}

func TestValidate_MissingGitIsCriticalAndFixable(t *testing.T) {
	root := pluginFixture(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, ".git")))

	v, _ := newServices()
	crit := issuesOf(v.Validate(root, application.ValidateOptions{}), domain.SeverityCritical)

	require.Len(t, crit, 1)
	assert.Equal(t, domain.ComponentGit, crit[0].Component)
	assert.Equal(t, domain.RemedyInitRepository, crit[0].Remedy.Action)
}

func TestValidate_ConfigIssues(t *testing.T) {
	root := pluginFixture(t)
	installAllHooks(t, filepath.Join(root, ".git", "hooks"))
	require.NoError(t, os.Remove(filepath.Join(root, "cliff.toml")))
	require.NoError(t, os.RemoveAll(filepath.Join(root, ".github")))
	writeFile(t, filepath.Join(root, ".gitignore"), "__pycache__/\n")

	v, _ := newServices()
	status := v.Validate(root, application.ValidateOptions{})

	assert.True(t, status.IsValid())
	assert.Len(t, issuesOf(status, domain.SeverityMinor), 2)
	info := issuesOf(status, domain.SeverityInfo)
	require.Len(t, info, 1)
	assert.Equal(t, []string{".mypy_cache", "docs_dev/", ".pluginpipe/"}, info[0].Remedy.Patterns)
	assert.False(t, status.ConfigFiles["cliff.toml"])
	assert.True(t, status.ConfigFiles[".gitignore"])
}

func TestValidate_MalformedCliffIsNotFixable(t *testing.T) {
	root := pluginFixture(t)
	installAllHooks(t, filepath.Join(root, ".git", "hooks"))
	writeFile(t, filepath.Join(root, "cliff.toml"), "[changelog\nbroken = ")

	v, _ := newServices()
	minor := issuesOf(v.Validate(root, application.ValidateOptions{}), domain.SeverityMinor)

	require.Len(t, minor, 1)
	assert.Contains(t, minor[0].Message, "malformed")
	assert.False(t, minor[0].FixAvailable)
}

func TestValidate_OccupiedWorkflowPathIsNotFixable(t *testing.T) {
	root := pluginFixture(t)
	installAllHooks(t, filepath.Join(root, ".git", "hooks"))
	require.NoError(t, os.RemoveAll(filepath.Join(root, ".github")))
	writeFile(t, filepath.Join(root, ".github", "workflows", "validate.yml"), "name: Lint\non: [push]\n")

	v, fix := newServices()
	minor := issuesOf(v.Validate(root, application.ValidateOptions{}), domain.SeverityMinor)
	require.Len(t, minor, 1)
	assert.Equal(t, domain.ComponentCI, minor[0].Component)
	assert.False(t, minor[0].FixAvailable)

	report, err := fix.Fix(root, application.ValidateOptions{}, domain.FixOptions{})
	require.NoError(t, err)
	assert.Zero(t, report.Applied)
	assert.Empty(t, report.Failures)
	data, err := os.ReadFile(filepath.Join(root, ".github", "workflows", "validate.yml"))
	require.NoError(t, err)
	assert.Equal(t, "name: Lint\non: [push]\n", string(data))
}

func TestValidate_ForcedKind(t *testing.T) {
	root := t.TempDir()
	v, _ := newServices()

	status := v.Validate(root, application.ValidateOptions{ForceKind: domain.KindMarketplace})

	assert.Equal(t, domain.KindMarketplace, status.Kind)
	crit := issuesOf(status, domain.SeverityCritical)
	require.Len(t, crit, 1)
	assert.Equal(t, domain.ComponentGit, crit[0].Component)
}

func marketplaceFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".claude-plugin", "marketplace.json"),
		`{"name": "mkt", "plugins": [{"name": "alpha", "source": "./alpha"}, {"name": "beta", "source": "./beta"}]}`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "hooks"), 0o755))
	installAllHooks(t, filepath.Join(root, ".git", "hooks"))
	writeConfigs(t, root)
	writeFile(t, filepath.Join(root, ".gitmodules"),
		"[submodule \"beta\"]\n\tpath = beta\n\turl = https://example.com/beta.git\n"+
			"[submodule \"alpha\"]\n\tpath = alpha\n\turl = https://example.com/alpha.git\n")
	return root
}

func TestValidate_MarketplaceSubmodules(t *testing.T) {
	root := marketplaceFixture(t)

	// alpha is an initialised submodule whose git dir lives under .git/modules.
	modDir := filepath.Join(root, ".git", "modules", "alpha")
	require.NoError(t, os.MkdirAll(filepath.Join(modDir, "hooks"), 0o755))
	writeFile(t, filepath.Join(root, "alpha", ".git"), "gitdir: ../.git/modules/alpha\n")
	writeFile(t, filepath.Join(modDir, "hooks", "post-commit"), "#!/bin/sh\necho legacy\n")
	require.NoError(t, os.Chmod(filepath.Join(modDir, "hooks", "post-commit"), 0o755))

	// beta is declared and checked out but not initialised.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "beta"), 0o755))

	v, _ := newServices()
	status := v.Validate(root, application.ValidateOptions{})

	assert.Equal(t, domain.KindMarketplace, status.Kind)
	assert.Equal(t, []string{"alpha", "beta"}, status.Submodules)

	major := issuesOf(status, domain.SeverityMajor)
	require.Len(t, major, 1)
	assert.Equal(t, domain.ComponentSubmodules, major[0].Component)
	assert.Contains(t, major[0].Message, "alpha")

	minor := issuesOf(status, domain.SeverityMinor)
	require.Len(t, minor, 3)
	assert.Contains(t, minor[0].Message, "post-rewrite")
	assert.Contains(t, minor[1].Message, "post-merge")
	assert.Contains(t, minor[2].Message, "beta")
	assert.False(t, minor[2].FixAvailable)

	resolved, err := filepath.EvalSymlinks(filepath.Join(modDir, "hooks"))
	require.NoError(t, err)
	assert.Equal(t, resolved, minor[0].Remedy.Dir)
}
