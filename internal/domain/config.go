package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// PipelineConfig is the optional per-project .pluginpipe.yaml.
type PipelineConfig struct {
	ExcludeDirs        []string                 `mapstructure:"exclude_dirs" json:"exclude_dirs,omitempty"`
	DisabledCategories []string                 `mapstructure:"disabled_categories" json:"disabled_categories,omitempty"`
	Validator          ValidatorConfig          `mapstructure:"validator" json:"validator"`
	ToolTimeouts       map[string]time.Duration `mapstructure:"tool_timeouts" json:"tool_timeouts,omitempty"`
	History            bool                     `mapstructure:"history" json:"history"`
}

type ValidatorConfig struct {
	Command string        `mapstructure:"command" json:"command,omitempty"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

const DefaultValidatorTimeout = 120 * time.Second

func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Validator: ValidatorConfig{Timeout: DefaultValidatorTimeout},
		History:   true,
	}
}

func (c PipelineConfig) Validate() error {
	for _, name := range c.DisabledCategories {
		if _, err := ParseCategory(name); err != nil {
			return fmt.Errorf("disabled_categories: %w", err)
		}
	}
	if c.Validator.Timeout < 0 {
		return fmt.Errorf("validator.timeout must not be negative, got %s", c.Validator.Timeout)
	}
	for tool, d := range c.ToolTimeouts {
		if d <= 0 {
			return fmt.Errorf("tool_timeouts.%s must be positive, got %s", tool, d)
		}
	}
	return nil
}

// IsDisabled matches category names case-insensitively, as Validate does.
func (c PipelineConfig) IsDisabled(cat Category) bool {
	return slices.ContainsFunc(c.DisabledCategories, func(name string) bool {
		return strings.EqualFold(name, cat.String())
	})
}

// TimeoutFor returns the configured timeout for a tool, or def.
func (c PipelineConfig) TimeoutFor(tool string, def time.Duration) time.Duration {
	if d, ok := c.ToolTimeouts[tool]; ok && d > 0 {
		return d
	}
	return def
}
