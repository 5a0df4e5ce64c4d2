package application

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/openkraft/pluginpipe/internal/domain"
	"go.uber.org/zap"
)

// ErrUnknownProject is returned when the path is neither a plugin nor a
// marketplace; nothing can be repaired there.
var ErrUnknownProject = errors.New("not a plugin or marketplace")

// FixService applies the remedies of a PipelineStatus. Every fixable issue is
// attempted independently; a failed remedy becomes a Critical issue in the
// report and the remaining remedies still run.
type FixService struct {
	validate *ValidateService
	git      domain.GitLocator
	hooks    domain.HookStore
	configs  domain.ConfigStore
	log      *zap.SugaredLogger
}

func NewFixService(validate *ValidateService, git domain.GitLocator, hooks domain.HookStore, configs domain.ConfigStore, log *zap.SugaredLogger) *FixService {
	return &FixService{validate: validate, git: git, hooks: hooks, configs: configs, log: log}
}

// Fix validates root and applies every available remedy.
func (s *FixService) Fix(root string, vopts ValidateOptions, opts domain.FixOptions) (*domain.FixReport, error) {
	return s.Apply(s.validate.Validate(root, vopts), opts)
}

// Apply runs the remedies of an already computed status.
func (s *FixService) Apply(status *domain.PipelineStatus, opts domain.FixOptions) (*domain.FixReport, error) {
	if status.Kind == domain.KindUnknown {
		return nil, ErrUnknownProject
	}

	report := &domain.FixReport{Actions: []domain.FixAction{}}
	// Init comes first so hook remedies land in a real hooks directory.
	for _, issue := range orderedRemedies(status.Fixable()) {
		action := domain.FixAction{
			Action:      issue.Remedy.Action.String(),
			Path:        remedyPath(issue.Remedy),
			Description: issue.FixDescription,
		}
		if opts.DryRun {
			report.Actions = append(report.Actions, action)
			continue
		}

		if err := s.apply(issue.Remedy); err != nil {
			s.log.Warnw("Fix failed", "action", action.Action, "path", action.Path, "error", err)
			report.Failures = append(report.Failures, domain.NewIssue(domain.SeverityCritical, domain.ComponentPermission,
				issue.FixDescription+": "+err.Error()))
			report.Actions = append(report.Actions, action)
			continue
		}
		s.log.Debugw("Fix applied", "action", action.Action, "path", action.Path)
		action.Applied = true
		report.Applied++
		report.Actions = append(report.Actions, action)
	}
	return report, nil
}

func (s *FixService) apply(r domain.Remedy) error {
	switch r.Action {
	case domain.RemedyInitRepository:
		return s.git.InitRepository(r.Dir)
	case domain.RemedyInstallHook:
		return s.hooks.InstallHook(r.Dir, r.Name)
	case domain.RemedyRemoveHook:
		return s.hooks.RemoveHook(r.Dir, r.Name)
	case domain.RemedyCreateConfig:
		return s.configs.WriteConfig(r.Dir, r.Name)
	case domain.RemedyAppendGitignore:
		return s.configs.AppendGitignore(r.Dir, r.Patterns)
	}
	return errors.Newf("no remedy for action %s", r.Action)
}

func orderedRemedies(issues []domain.Issue) []domain.Issue {
	out := make([]domain.Issue, 0, len(issues))
	for _, i := range issues {
		if i.Remedy.Action == domain.RemedyInitRepository {
			out = append(out, i)
		}
	}
	for _, i := range issues {
		if i.Remedy.Action != domain.RemedyInitRepository {
			out = append(out, i)
		}
	}
	return out
}

func remedyPath(r domain.Remedy) string {
	switch r.Action {
	case domain.RemedyInitRepository:
		return r.Dir
	case domain.RemedyCreateConfig:
		if r.Name == domain.ConfigWorkflow {
			return filepath.Join(r.Dir, filepath.FromSlash(domain.WorkflowPath))
		}
	}
	return filepath.Join(r.Dir, r.Name)
}
