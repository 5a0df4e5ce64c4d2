package application

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/openkraft/pluginpipe/internal/domain"
	"go.uber.org/zap"
)

const (
	gitQueryTimeout = 30 * time.Second
	stagedLintTime  = 60 * time.Second

	// maxSensitiveWarnings bounds how many findings are shown.
	maxSensitiveWarnings = 3
)

// OperationInspector reports multi-step git operations underway.
type OperationInspector interface {
	OperationInProgress(root string) (string, bool)
}

var sensitivePatterns = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`(?i)password\s*[:=]\s*['"].+['"]`), "password"},
	{regexp.MustCompile(`(?i)api[_-]?key\s*[:=]\s*['"].+['"]`), "API key"},
	{regexp.MustCompile(`(?i)secret\s*[:=]\s*['"].+['"]`), "secret"},
	{regexp.MustCompile(`(?i)token\s*[:=]\s*['"][a-zA-Z0-9]{20,}['"]`), "token"},
}

var placeholderMarkers = []string{"example", "placeholder", "your_", "<"}

// PreCommitService runs the staged-file checks of the pre-commit hook.
type PreCommitService struct {
	runner domain.CommandRunner
	ops    OperationInspector
	log    *zap.SugaredLogger
}

func NewPreCommitService(runner domain.CommandRunner, ops OperationInspector, log *zap.SugaredLogger) *PreCommitService {
	return &PreCommitService{runner: runner, ops: ops, log: log}
}

func (s *PreCommitService) Check(ctx context.Context, root string) *domain.PreCommitReport {
	report := &domain.PreCommitReport{}
	if op, busy := s.ops.OperationInProgress(root); busy {
		report.SkippedFor = op
		return report
	}

	staged := s.stagedFiles(ctx, root)
	report.StagedFiles = len(staged)
	report.JSONErrors = validateStagedJSON(root, staged)
	report.LintIssues, report.LintNote = s.lintPython(ctx, root, staged)

	res := s.runner.Run(ctx, domain.Command{
		Name: "git", Args: []string{"diff", "--cached", "-U0"}, Dir: root, Timeout: gitQueryTimeout,
	})
	if res.TimedOut {
		s.log.Warnw("git diff timed out, skipping sensitive data check")
	} else {
		report.Sensitive = SensitiveFindings(res.Stdout)
	}
	return report
}

func (s *PreCommitService) stagedFiles(ctx context.Context, root string) []string {
	res := s.runner.Run(ctx, domain.Command{
		Name: "git", Args: []string{"diff", "--cached", "--name-only"}, Dir: root, Timeout: gitQueryTimeout,
	})
	if !res.OK() {
		s.log.Warnw("Cannot list staged files", "error", res.Output())
		return nil
	}
	var files []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files
}

// validateStagedJSON checks the syntax of staged .json files still on disk.
func validateStagedJSON(root string, files []string) []string {
	var errs []string
	for _, f := range files {
		if !strings.EqualFold(filepath.Ext(f), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f)))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			errs = append(errs, f+": I/O error: "+err.Error())
			continue
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			errs = append(errs, f+": "+err.Error())
		}
	}
	return errs
}

// lintPython runs ruff on staged Python files. It never blocks: a missing or
// slow ruff is only noted.
func (s *PreCommitService) lintPython(ctx context.Context, root string, files []string) (bool, string) {
	var py []string
	for _, f := range files {
		if filepath.Ext(f) != ".py" {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(f))); err == nil {
			py = append(py, f)
		}
	}
	if len(py) == 0 {
		return false, ""
	}
	if _, err := s.runner.LookPath("ruff"); err != nil {
		return false, "ruff not installed"
	}
	res := s.runner.Run(ctx, domain.Command{
		Name: "ruff", Args: append([]string{"check"}, py...), Dir: root, Timeout: stagedLintTime,
	})
	switch {
	case res.TimedOut:
		return false, "ruff timed out"
	case res.Err != nil:
		return false, "ruff could not run"
	}
	return res.ExitCode != 0, ""
}

// SensitiveFindings scans added diff lines for credential-looking
// assignments. Lines that look like documentation placeholders are ignored.
// At most three findings are returned.
func SensitiveFindings(diff string) []string {
	var out []string
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "-") {
			continue
		}
		lower := strings.ToLower(line)
		if containsAny(lower, placeholderMarkers) {
			continue
		}
		for _, p := range sensitivePatterns {
			if p.re.MatchString(line) {
				out = append(out, "Potential "+p.name+" detected")
				break
			}
		}
		if len(out) == maxSensitiveWarnings {
			break
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
