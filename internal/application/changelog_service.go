package application

import (
	"context"
	"time"

	"github.com/openkraft/pluginpipe/internal/domain"
	"go.uber.org/zap"
)

const (
	changelogFile    = "CHANGELOG.md"
	changelogTimeout = 60 * time.Second
)

// ChangelogResult says what a regeneration did. Skipped is set when the
// project is not set up for changelogs.
type ChangelogResult struct {
	Skipped string
	Updated bool
	Failed  string
}

// ChangelogService regenerates CHANGELOG.md after history rewrites and
// merges. It never commits.
type ChangelogService struct {
	runner  domain.CommandRunner
	configs domain.ConfigStore
	log     *zap.SugaredLogger
}

func NewChangelogService(runner domain.CommandRunner, configs domain.ConfigStore, log *zap.SugaredLogger) *ChangelogService {
	return &ChangelogService{runner: runner, configs: configs, log: log}
}

func (s *ChangelogService) Regenerate(ctx context.Context, root, operation string) ChangelogResult {
	if _, err := s.runner.LookPath("git-cliff"); err != nil {
		return ChangelogResult{Skipped: "git-cliff not installed"}
	}
	if !s.configs.InspectConfig(root, domain.ConfigCliff).Exists {
		return ChangelogResult{Skipped: "no " + domain.ConfigCliff}
	}

	s.log.Infow("Regenerating changelog", "operation", operation, "path", root)
	res := s.runner.Run(ctx, domain.Command{
		Name: "git-cliff", Args: []string{"-o", changelogFile}, Dir: root, Timeout: changelogTimeout,
	})
	if !res.OK() {
		msg := res.Output()
		if res.TimedOut {
			msg = "timed out"
		}
		s.log.Warnw("git-cliff failed", "error", msg)
		return ChangelogResult{Failed: msg}
	}

	diff := s.runner.Run(ctx, domain.Command{
		Name: "git", Args: []string{"diff", "--quiet", changelogFile}, Dir: root, Timeout: gitQueryTimeout,
	})
	return ChangelogResult{Updated: diff.Err == nil && !diff.TimedOut && diff.ExitCode == 1}
}
