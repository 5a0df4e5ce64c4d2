// Package validator runs the external structural plugin validator.
package validator

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"github.com/openkraft/pluginpipe/internal/domain"
	"go.uber.org/zap"
)

// ErrNotFound means no validator is configured and none was discovered.
var ErrNotFound = errors.New("plugin validator not found")

// Candidate scripts, relative to the project root, in discovery order.
var candidates = []string{
	filepath.Join("scripts", "validate_plugin.py"),
	filepath.Join("claude-plugins-validation", "scripts", "validate_plugin.py"),
}

// ProcessValidator implements domain.PluginValidator by running a command
// with the plugin path appended. Exit status 0 means the plugin passed.
type ProcessValidator struct {
	runner  domain.CommandRunner
	log     *zap.SugaredLogger
	argv    []string
	root    string
	timeout time.Duration
}

// Discover builds a validator from cfg.Command or, when unset, from the
// first candidate script present under root.
func Discover(root string, cfg domain.ValidatorConfig, runner domain.CommandRunner, log *zap.SugaredLogger) (*ProcessValidator, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultValidatorTimeout
	}
	v := &ProcessValidator{runner: runner, log: log, root: root, timeout: timeout}

	if cfg.Command != "" {
		argv, err := shellquote.Split(cfg.Command)
		if err != nil {
			return nil, errors.Wrap(err, "parsing validator.command")
		}
		if len(argv) == 0 {
			return nil, errors.WithHint(ErrNotFound, "validator.command is blank")
		}
		v.argv = argv
		return v, nil
	}

	for _, rel := range candidates {
		script := filepath.Join(root, rel)
		if _, err := os.Stat(script); err == nil {
			v.argv = []string{"python3", script}
			return v, nil
		}
	}
	return nil, errors.WithHintf(ErrNotFound,
		"add scripts/validate_plugin.py or set validator.command in .pluginpipe.yaml")
}

// Command is the validator invocation without the plugin path.
func (v *ProcessValidator) Command() string {
	return shellquote.Join(v.argv...)
}

func (v *ProcessValidator) Validate(ctx context.Context, pluginPath string) bool {
	args := append(append([]string{}, v.argv[1:]...), pluginPath)
	res := v.runner.Run(ctx, domain.Command{Name: v.argv[0], Args: args, Dir: v.root, Timeout: v.timeout})
	switch {
	case res.TimedOut:
		v.log.Warnw("Validator timed out", "plugin", pluginPath, "timeout", v.timeout)
	case res.Err != nil:
		v.log.Warnw("Validator could not run", "plugin", pluginPath, "error", res.Err)
	case res.ExitCode != 0:
		v.log.Debugw("Validator reported issues", "plugin", pluginPath, "exit_code", res.ExitCode, "output", res.Output())
	}
	return res.OK()
}
