package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/openkraft/pluginpipe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		issues []domain.Severity
		valid  bool
	}{
		{"no issues", nil, true},
		{"info only", []domain.Severity{domain.SeverityInfo}, true},
		{"minor and info", []domain.Severity{domain.SeverityMinor, domain.SeverityInfo}, true},
		{"one major", []domain.Severity{domain.SeverityMinor, domain.SeverityMajor}, false},
		{"one critical", []domain.Severity{domain.SeverityCritical}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.NewPipelineStatus("/p", domain.KindPlugin)
			for _, sev := range tt.issues {
				s.Add(domain.NewIssue(sev, domain.ComponentHooks, "x"))
			}
			assert.Equal(t, tt.valid, s.IsValid())
		})
	}
}

func TestSeverity_Ordering(t *testing.T) {
	assert.Less(t, domain.SeverityInfo, domain.SeverityMinor)
	assert.Less(t, domain.SeverityMinor, domain.SeverityMajor)
	assert.Less(t, domain.SeverityMajor, domain.SeverityCritical)
	assert.False(t, domain.SeverityMinor.Blocking())
	assert.True(t, domain.SeverityMajor.Blocking())
}

func TestPipelineStatus_ReportJSON(t *testing.T) {
	s := domain.NewPipelineStatus("/repo", domain.KindMarketplace)
	s.Hooks[domain.HookPreCommit] = true
	s.ConfigFiles[domain.ConfigCliff] = false
	s.Submodules = []string{"plugins/b", "plugins/a"}
	s.Add(domain.NewIssue(domain.SeverityMinor, domain.ComponentConfig, "Missing cliff.toml").
		WithFix("Create cliff.toml", domain.Remedy{Action: domain.RemedyCreateConfig, Dir: "/repo", Name: domain.ConfigCliff}))

	data, err := json.Marshal(s.Report())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "/repo", decoded["project_path"])
	assert.Equal(t, "marketplace", decoded["project_type"])
	assert.Equal(t, true, decoded["is_valid"])
	assert.Equal(t, []any{"plugins/a", "plugins/b"}, decoded["submodules"])

	issues := decoded["issues"].([]any)
	require.Len(t, issues, 1)
	issue := issues[0].(map[string]any)
	assert.Equal(t, "MINOR", issue["level"])
	assert.Equal(t, true, issue["fix_available"])
	assert.NotContains(t, issue, "Remedy")

	summary := decoded["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["minor"])
}

func TestReport_EmptyCollectionsSerialiseAsArrays(t *testing.T) {
	data, err := json.Marshal(domain.NewPipelineStatus("/p", domain.KindPlugin).Report())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"issues":[]`)
	assert.Contains(t, string(data), `"submodules":[]`)
}

func TestHookState_Installed(t *testing.T) {
	assert.True(t, domain.HookState{Exists: true, Executable: true, Size: 100}.Installed())
	assert.False(t, domain.HookState{Exists: true, Executable: true, Size: 99}.Installed())
	assert.False(t, domain.HookState{Exists: true, Executable: false, Size: 500}.Installed())
	assert.False(t, domain.HookState{}.Installed())
}

func TestParseProjectKind(t *testing.T) {
	for _, k := range []domain.ProjectKind{domain.KindMarketplace, domain.KindPlugin, domain.KindPluginInMarketplace} {
		parsed, err := domain.ParseProjectKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := domain.ParseProjectKind("library")
	assert.Error(t, err)
}
