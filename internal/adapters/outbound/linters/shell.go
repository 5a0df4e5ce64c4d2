package linters

import (
	"context"
	"strings"

	"github.com/openkraft/pluginpipe/internal/domain"
)

// Shell checks each script with shellcheck. It never modifies files.
type Shell struct{ d Deps }

func NewShell(d Deps) *Shell { return &Shell{d: d} }

func (s *Shell) Category() domain.Category { return domain.CategoryShell }

func (s *Shell) Run(ctx context.Context, root string, files []string) domain.CategoryResult {
	if len(files) == 0 {
		return domain.CategoryResult{Success: true}
	}
	return s.d.run(ctx, s.Category(), []step{
		{kind: stepVerify, tool: "shellcheck", optional: true, check: func(ctx context.Context) (bool, []string) {
			return s.checkEach(ctx, root, files)
		}},
	})
}

func (s *Shell) checkEach(ctx context.Context, root string, files []string) (bool, []string) {
	ok := true
	var problems []string
	for _, f := range files {
		res := s.d.Runner.Run(ctx, *s.d.command(root, "shellcheck", perFileTimeout, []string{"shellcheck", "-x"}, f))
		switch {
		case res.TimedOut:
			s.d.Log.Warnw("shellcheck timed out", "path", f)
		case res.Err != nil:
			s.d.Log.Warnw("shellcheck could not run, skipping", "error", res.Err)
			return true, nil
		case res.ExitCode != 0:
			ok = false
			problems = append(problems, strings.Split(res.Output(), "\n")...)
		}
	}
	return ok, problems
}
