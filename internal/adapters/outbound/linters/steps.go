// Package linters adapts external fixers, checkers and formatters to the
// uniform per-category contract of the auto-fix loop.
package linters

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/openkraft/pluginpipe/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultTimeout   = 120 * time.Second
	typecheckTimeout = 180 * time.Second
	perFileTimeout   = 60 * time.Second

	// issuePreviewLines bounds how much checker output reaches the log.
	issuePreviewLines = 10
)

// Deps are the collaborators shared by every adapter.
type Deps struct {
	Runner  domain.CommandRunner
	Locator domain.ToolLocator
	Tree    domain.WorkTree
	Log     *zap.SugaredLogger
	Config  domain.PipelineConfig
}

type stepKind int

// Steps always run in this order.
const (
	stepFix stepKind = iota
	stepTypecheck
	stepVerify
	stepFormat
)

func (k stepKind) String() string {
	switch k {
	case stepFix:
		return "fix"
	case stepTypecheck:
		return "typecheck"
	case stepVerify:
		return "verify"
	}
	return "format"
}

func (k stepKind) mutates() bool { return k == stepFix || k == stepFormat }
func (k stepKind) checks() bool  { return k == stepTypecheck || k == stepVerify }

// step is one tool invocation. Exactly one of cmd and check is set.
type step struct {
	kind stepKind
	// tool is resolved through the ToolLocator before the step runs; empty
	// means the command is already known to be runnable.
	tool string
	// optional steps are skipped when their tool is missing or times out.
	// A required step in that situation fails the category.
	optional bool
	cmd      *domain.Command
	check    func(ctx context.Context) (bool, []string)
}

// run executes steps in kind order. A failing check stops the sequence, so
// formatting only ever runs once every check has passed.
func (d Deps) run(ctx context.Context, cat domain.Category, steps []step) domain.CategoryResult {
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].kind < steps[j].kind })

	changed := false
	for _, st := range steps {
		if st.tool != "" && !d.Locator.EnsureAvailable(ctx, st.tool) {
			if st.optional {
				d.Log.Infow("Tool not available, skipping step", "category", cat, "step", st.kind, "tool", st.tool)
				continue
			}
			d.requiredMissing(cat, st.tool)
			return domain.CategoryResult{Success: false, FilesChanged: changed}
		}

		ok := d.exec(ctx, cat, st)
		if st.kind.mutates() {
			dirty, err := d.Tree.HasTrackedChanges(ctx)
			if err != nil {
				return domain.CategoryResult{FilesChanged: changed, Err: err}
			}
			changed = changed || dirty
		}
		if !ok {
			return domain.CategoryResult{Success: false, FilesChanged: changed}
		}
	}
	return domain.CategoryResult{Success: true, FilesChanged: changed}
}

// exec runs one step and reports whether the sequence may continue.
func (d Deps) exec(ctx context.Context, cat domain.Category, st step) bool {
	if st.check != nil {
		ok, problems := st.check(ctx)
		if !ok {
			d.logProblems(cat, st.kind, problems)
		}
		return ok
	}

	d.Log.Debugw("Running", "category", cat, "step", st.kind, "command", st.cmd.String())
	res := d.Runner.Run(ctx, *st.cmd)
	switch {
	case res.TimedOut:
		if st.optional {
			d.Log.Warnw("Step timed out, skipping", "category", cat, "step", st.kind, "command", st.cmd.Name, "timeout", st.cmd.Timeout)
			return true
		}
		d.Log.Warnw("Step timed out", "category", cat, "step", st.kind, "command", st.cmd.Name, "timeout", st.cmd.Timeout)
		return false
	case res.Err != nil:
		if st.optional {
			d.Log.Warnw("Step could not run, skipping", "category", cat, "step", st.kind, "error", res.Err)
			return true
		}
		d.Log.Warnw("Step could not run", "category", cat, "step", st.kind, "error", res.Err)
		return false
	case res.ExitCode != 0 && st.kind.checks():
		d.logProblems(cat, st.kind, strings.Split(res.Output(), "\n"))
		return false
	}
	// Fixers exit non-zero when issues remain; the verify step decides.
	return true
}

func (d Deps) requiredMissing(cat domain.Category, tool string) {
	d.Log.Warnw("Required tool not available", "category", cat, "tool", tool,
		"hint", errors.FlattenHints(d.Locator.Failure(tool)))
}

func (d Deps) logProblems(cat domain.Category, kind stepKind, problems []string) {
	var lines []string
	for _, p := range problems {
		if strings.TrimSpace(p) != "" {
			lines = append(lines, p)
		}
	}
	total := len(lines)
	if total > issuePreviewLines {
		lines = lines[:issuePreviewLines]
	}
	d.Log.Warnw("Issues remain", "category", cat, "step", kind, "count", total, "issues", lines)
}

// command builds a Command rooted at root, honouring tool_timeouts.
func (d Deps) command(root, tool string, def time.Duration, argv []string, files ...string) *domain.Command {
	args := append(append([]string{}, argv[1:]...), files...)
	return &domain.Command{
		Name:    argv[0],
		Args:    args,
		Dir:     root,
		Timeout: d.Config.TimeoutFor(tool, def),
	}
}
