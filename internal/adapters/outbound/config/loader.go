// Package config loads the optional per-project .pluginpipe.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openkraft/pluginpipe/internal/domain"
	"github.com/spf13/viper"
)

const (
	fileName  = ".pluginpipe.yaml"
	envPrefix = "PLUGINPIPE"
)

// ViperLoader implements domain.ConfigLoader. Values come from
// .pluginpipe.yaml and PLUGINPIPE_* environment variables, env winning.
type ViperLoader struct{}

// New creates a ViperLoader.
func New() *ViperLoader { return &ViperLoader{} }

// Load reads .pluginpipe.yaml from projectPath.
// Returns DefaultConfig, with env overrides, if the file does not exist.
func (l *ViperLoader) Load(projectPath string) (domain.PipelineConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	path := filepath.Join(projectPath, fileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return domain.DefaultConfig(), fmt.Errorf("parsing %s: %w", fileName, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return domain.DefaultConfig(), err
	}

	var cfg domain.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return domain.DefaultConfig(), fmt.Errorf("decoding %s: %w", fileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.DefaultConfig(), fmt.Errorf("invalid %s: %w", fileName, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := domain.DefaultConfig()
	v.SetDefault("exclude_dirs", []string{})
	v.SetDefault("disabled_categories", []string{})
	v.SetDefault("validator.command", d.Validator.Command)
	v.SetDefault("validator.timeout", d.Validator.Timeout)
	v.SetDefault("history", d.History)
}
