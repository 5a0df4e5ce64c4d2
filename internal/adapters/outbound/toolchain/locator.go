package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"github.com/openkraft/pluginpipe/internal/domain"
	"go.uber.org/zap"
)

const errorPreviewLen = 200

// Locator finds tools on PATH and walks each tool's install strategies, in
// order, when it is missing. The first strategy that succeeds wins.
type Locator struct {
	runner domain.CommandRunner
	log    *zap.SugaredLogger
	goos   string
	root   string

	mu       sync.Mutex
	failures map[string]error
}

type LocatorOption func(*Locator)

// WithRoot sets the project root used by project-local install strategies.
func WithRoot(root string) LocatorOption {
	return func(l *Locator) { l.root = root }
}

// WithGOOS overrides the operating system used to pick package managers.
func WithGOOS(goos string) LocatorOption {
	return func(l *Locator) { l.goos = goos }
}

func NewLocator(runner domain.CommandRunner, log *zap.SugaredLogger, opts ...LocatorOption) *Locator {
	l := &Locator{
		runner:   runner,
		log:      log,
		goos:     runtime.GOOS,
		failures: make(map[string]error),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// EnsureAvailable reports whether tool can be run, installing it if needed.
// On failure the reason, with a manual install hint, is logged and kept for
// Failure; later calls for the same tool do not retry the install.
func (l *Locator) EnsureAvailable(ctx context.Context, tool string) bool {
	spec, known := toolSpecs[tool]
	if !known {
		spec = toolSpec{binaries: []string{tool}}
	}
	if l.present(spec) {
		return true
	}
	if l.Failure(tool) != nil {
		l.log.Debugw("Tool unavailable, install already failed", "tool", tool)
		return false
	}

	var lastErr error
	if spec.strategies != nil {
		for _, st := range spec.strategies(l) {
			if _, err := l.runner.LookPath(st.probe); err != nil {
				continue
			}
			l.log.Infow("Installing tool", "tool", tool, "via", st.probe)
			res := l.runner.Run(ctx, domain.Command{Name: st.argv[0], Args: st.argv[1:], Timeout: st.timeout, Dir: st.dir})
			if res.OK() || alreadyInstalled(res) {
				l.log.Infow("Tool installed", "tool", tool, "via", st.probe)
				return true
			}
			lastErr = strategyError(st, res)
		}
	}

	err := errors.Newf("%s is not available", tool)
	if lastErr != nil {
		err = errors.Wrapf(lastErr, "%s is not available", tool)
	}
	err = errors.WithHint(err, "install manually: "+l.hint(spec))

	l.mu.Lock()
	l.failures[tool] = err
	l.mu.Unlock()

	fields := []any{"tool", tool, "hint", errors.FlattenHints(err)}
	if lastErr != nil {
		fields = append(fields, "last_error", preview(lastErr.Error()))
	}
	l.log.Warnw("Tool unavailable", fields...)
	return false
}

// Failure returns why the last EnsureAvailable call for tool failed.
func (l *Locator) Failure(tool string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures[tool]
}

func (l *Locator) present(spec toolSpec) bool {
	for _, b := range spec.binaries {
		if _, err := l.runner.LookPath(b); err == nil {
			return true
		}
	}
	if l.root != "" {
		for _, rel := range spec.local {
			if info, err := os.Stat(filepath.Join(l.root, rel)); err == nil && !info.IsDir() {
				return true
			}
		}
	}
	return false
}

func (l *Locator) hint(spec toolSpec) string {
	if argv, ok := spec.hints[l.goos]; ok {
		return shellquote.Join(argv...)
	}
	if argv, ok := spec.hints[""]; ok {
		return shellquote.Join(argv...)
	}
	if spec.fallback != "" {
		return spec.fallback
	}
	return "see the tool's documentation"
}

func alreadyInstalled(res domain.CommandResult) bool {
	if res.Err != nil || res.TimedOut {
		return false
	}
	return strings.Contains(strings.ToLower(res.Output()), "already installed")
}

func strategyError(st strategy, res domain.CommandResult) error {
	cmd := shellquote.Join(st.argv...)
	switch {
	case res.TimedOut:
		return errors.Newf("%s timed out after %s", cmd, st.timeout)
	case res.Err != nil:
		return errors.Wrapf(res.Err, "%s", cmd)
	}
	return errors.Newf("%s exited %d: %s", cmd, res.ExitCode, preview(res.Output()))
}

func preview(s string) string {
	if len(s) <= errorPreviewLen {
		return s
	}
	return s[:errorPreviewLen]
}
