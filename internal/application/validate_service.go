package application

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/openkraft/pluginpipe/internal/domain"
	"go.uber.org/zap"
)

// ValidateOptions tune classification.
type ValidateOptions struct {
	// ForceKind overrides manifest detection when not KindUnknown.
	ForceKind domain.ProjectKind
}

// ValidateService classifies a project's pipeline state into severity-ranked
// issues. It reads the filesystem only and never fails: every problem it
// finds becomes an Issue.
type ValidateService struct {
	detector domain.ProjectDetector
	git      domain.GitLocator
	hooks    domain.HookStore
	configs  domain.ConfigStore
	log      *zap.SugaredLogger
}

func NewValidateService(det domain.ProjectDetector, git domain.GitLocator, hooks domain.HookStore, configs domain.ConfigStore, log *zap.SugaredLogger) *ValidateService {
	return &ValidateService{detector: det, git: git, hooks: hooks, configs: configs, log: log}
}

func (s *ValidateService) Validate(root string, opts ValidateOptions) *domain.PipelineStatus {
	kind := opts.ForceKind
	if kind == domain.KindUnknown {
		kind = s.detector.DetectKind(root)
	}
	status := domain.NewPipelineStatus(root, kind)

	if kind == domain.KindUnknown {
		status.Add(domain.NewIssue(domain.SeverityCritical, domain.ComponentProject,
			fmt.Sprintf("Not a plugin or marketplace: no %s/%s or %s/%s found",
				domain.ManifestDir, domain.PluginManifest, domain.ManifestDir, domain.MarketplaceManifest)))
		return status
	}

	if !s.git.HasRepository(root) {
		status.Add(domain.NewIssue(domain.SeverityCritical, domain.ComponentGit, "Not a git repository").
			WithFix("Initialise a git repository", domain.Remedy{Action: domain.RemedyInitRepository, Dir: root}))
	}

	s.checkHooks(status, s.git.HooksDir(root))
	s.checkConfigs(status, root)

	if kind == domain.KindMarketplace {
		s.checkSubmodules(status, root)
	}
	return status
}

func (s *ValidateService) checkHooks(status *domain.PipelineStatus, hooksDir string) {
	for _, spec := range domain.RequiredHooks {
		state := s.hooks.InspectHook(hooksDir, spec.Name)
		status.Hooks[spec.Name] = state.Installed()
		if state.Installed() {
			continue
		}

		var msg string
		switch {
		case !state.Exists:
			msg = fmt.Sprintf("Missing %s hook (%s)", spec.Name, spec.Description)
		case !state.Executable:
			msg = fmt.Sprintf("%s hook is not executable", spec.Name)
		default:
			msg = fmt.Sprintf("%s hook is a stub (%d bytes)", spec.Name, state.Size)
		}
		status.Add(domain.NewIssue(domain.SeverityMajor, domain.ComponentHooks, msg).
			WithFix("Install "+spec.Name+" hook", domain.Remedy{Action: domain.RemedyInstallHook, Dir: hooksDir, Name: spec.Name}))
	}

	if s.hooks.InspectHook(hooksDir, domain.HookPostCommit).Exists {
		status.Add(domain.NewIssue(domain.SeverityMajor, domain.ComponentHooks,
			"post-commit hook present: it fires on every rebase step and causes conflicts").
			WithFix("Remove post-commit hook", domain.Remedy{Action: domain.RemedyRemoveHook, Dir: hooksDir, Name: domain.HookPostCommit}))
	}
}

func (s *ValidateService) checkConfigs(status *domain.PipelineStatus, root string) {
	for _, name := range domain.ConfigFileOrder {
		state := s.configs.InspectConfig(root, name)
		status.ConfigFiles[name] = state.Exists && !state.Malformed

		create := domain.Remedy{Action: domain.RemedyCreateConfig, Dir: root, Name: name}
		switch {
		case state.Malformed:
			status.Add(domain.NewIssue(domain.SeverityMinor, domain.ComponentConfig,
				fmt.Sprintf("%s is malformed; fix it by hand", name)))
		case !state.Exists && state.Occupied && name == domain.ConfigWorkflow:
			status.Add(domain.NewIssue(domain.SeverityMinor, domain.ComponentCI,
				fmt.Sprintf("%s does not run plugin validation; edit it by hand", domain.WorkflowPath)))
		case !state.Exists && name == domain.ConfigWorkflow:
			status.Add(domain.NewIssue(domain.SeverityMinor, domain.ComponentCI, "No GitHub workflow runs plugin validation").
				WithFix("Create "+domain.WorkflowPath, create))
		case !state.Exists:
			status.Add(domain.NewIssue(domain.SeverityMinor, domain.ComponentConfig, "Missing "+name).
				WithFix("Create "+name, create))
		case len(state.MissingPatterns) > 0:
			status.Add(domain.NewIssue(domain.SeverityInfo, domain.ComponentConfig,
				fmt.Sprintf("%s lacks recommended patterns: %s", name, strings.Join(state.MissingPatterns, ", "))).
				WithFix("Append recommended patterns to "+name, domain.Remedy{Action: domain.RemedyAppendGitignore, Dir: root, Name: name, Patterns: state.MissingPatterns}))
		}
	}
}

func (s *ValidateService) checkSubmodules(status *domain.PipelineStatus, root string) {
	subs, err := s.detector.Submodules(root)
	if err != nil {
		s.log.Warnw("Ignoring unreadable .gitmodules", "path", root, "error", err)
		return
	}

	for _, sub := range subs {
		status.Submodules = append(status.Submodules, sub.Path)
		subRoot := filepath.Join(root, filepath.FromSlash(sub.Path))

		if !s.git.HasRepository(subRoot) {
			status.Add(domain.NewIssue(domain.SeverityMinor, domain.ComponentSubmodules,
				fmt.Sprintf("%s: hooks directory not found (submodule not initialised?)", sub.Path)))
			continue
		}
		hooksDir := s.git.HooksDir(subRoot)

		if s.hooks.InspectHook(hooksDir, domain.HookPostCommit).Exists {
			status.Add(domain.NewIssue(domain.SeverityMajor, domain.ComponentSubmodules,
				fmt.Sprintf("%s: post-commit hook present", sub.Path)).
				WithFix("Remove post-commit hook from "+sub.Path, domain.Remedy{Action: domain.RemedyRemoveHook, Dir: hooksDir, Name: domain.HookPostCommit}))
		}
		for _, name := range domain.SubmoduleHooks {
			if s.hooks.InspectHook(hooksDir, name).Installed() {
				continue
			}
			status.Add(domain.NewIssue(domain.SeverityMinor, domain.ComponentSubmodules,
				fmt.Sprintf("%s: missing %s hook", sub.Path, name)).
				WithFix(fmt.Sprintf("Install %s hook in %s", name, sub.Path), domain.Remedy{Action: domain.RemedyInstallHook, Dir: hooksDir, Name: name}))
		}
	}
}
