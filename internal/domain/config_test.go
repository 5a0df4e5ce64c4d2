package domain_test

import (
	"testing"
	"time"

	"github.com/openkraft/pluginpipe/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.True(t, cfg.History)
	assert.Equal(t, domain.DefaultValidatorTimeout, cfg.Validator.Timeout)
	assert.Empty(t, cfg.ExcludeDirs)
	assert.NoError(t, cfg.Validate())
}

func TestPipelineConfig_Validate(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.DisabledCategories = []string{"python", "fortran"}
	assert.ErrorContains(t, cfg.Validate(), "fortran")

	cfg = domain.DefaultConfig()
	cfg.ToolTimeouts = map[string]time.Duration{"ruff": 0}
	assert.ErrorContains(t, cfg.Validate(), "tool_timeouts.ruff")
}

func TestPipelineConfig_IsDisabled(t *testing.T) {
	cfg := domain.PipelineConfig{DisabledCategories: []string{"yaml"}}
	assert.True(t, cfg.IsDisabled(domain.CategoryYAML))
	assert.False(t, cfg.IsDisabled(domain.CategoryJSON))

	mixed := domain.PipelineConfig{DisabledCategories: []string{"Python", "JSON"}}
	assert.NoError(t, mixed.Validate())
	assert.True(t, mixed.IsDisabled(domain.CategoryPython))
	assert.True(t, mixed.IsDisabled(domain.CategoryJSON))
	assert.False(t, mixed.IsDisabled(domain.CategoryYAML))
}

func TestPipelineConfig_TimeoutFor(t *testing.T) {
	cfg := domain.PipelineConfig{ToolTimeouts: map[string]time.Duration{"mypy": 5 * time.Minute}}
	assert.Equal(t, 5*time.Minute, cfg.TimeoutFor("mypy", time.Minute))
	assert.Equal(t, time.Minute, cfg.TimeoutFor("ruff", time.Minute))
}
