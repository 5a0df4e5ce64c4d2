package domain

import (
	"slices"
	"sort"
)

// Hook names managed by the pipeline.
const (
	HookPreCommit   = "pre-commit"
	HookPrePush     = "pre-push"
	HookPostRewrite = "post-rewrite"
	HookPostMerge   = "post-merge"
	HookPostCommit  = "post-commit"
)

// HookSizeFloor is the smallest size a real hook script can have; anything
// shorter is a stub.
const HookSizeFloor = 100

// HookSpec names a hook the pipeline installs and what it is for.
type HookSpec struct {
	Name        string
	Description string
}

var RequiredHooks = []HookSpec{
	{Name: HookPreCommit, Description: "lint staged files, block invalid JSON"},
	{Name: HookPrePush, Description: "auto-fix loop and plugin validation"},
	{Name: HookPostRewrite, Description: "regenerate changelog after amend/rebase"},
	{Name: HookPostMerge, Description: "regenerate changelog after merge"},
}

// SubmoduleHooks are expected inside each marketplace submodule.
var SubmoduleHooks = []string{HookPostRewrite, HookPostMerge}

// HookState is what the filesystem says about one hook file.
type HookState struct {
	Exists     bool
	Executable bool
	Size       int64
}

func (h HookState) Installed() bool {
	return h.Exists && h.Executable && h.Size >= HookSizeFloor
}

// Config files tracked by the status report.
const (
	ConfigCliff     = "cliff.toml"
	ConfigGitignore = ".gitignore"
	ConfigWorkflow  = "github_workflow"
)

// WorkflowPath is where a fresh validation workflow is written.
const WorkflowPath = ".github/workflows/validate.yml"

var ConfigFileOrder = []string{ConfigCliff, ConfigGitignore, ConfigWorkflow}

// ConfigState is what the filesystem says about one config file.
type ConfigState struct {
	Exists    bool
	Malformed bool
	// Occupied means the file is not satisfied but its template path is
	// taken, so it cannot be created.
	Occupied        bool
	MissingPatterns []string
}

// PipelineStatus is the classified state of one project's pipeline.
type PipelineStatus struct {
	Root        string
	Kind        ProjectKind
	Hooks       map[string]bool
	ConfigFiles map[string]bool
	Submodules  []string
	Issues      []Issue
}

func NewPipelineStatus(root string, kind ProjectKind) *PipelineStatus {
	return &PipelineStatus{
		Root:        root,
		Kind:        kind,
		Hooks:       make(map[string]bool),
		ConfigFiles: make(map[string]bool),
	}
}

func (s *PipelineStatus) Add(issue Issue) {
	s.Issues = append(s.Issues, issue)
}

// IsValid holds iff no Critical or Major issue is present.
func (s *PipelineStatus) IsValid() bool {
	return !slices.ContainsFunc(s.Issues, func(i Issue) bool { return i.Severity.Blocking() })
}

func (s *PipelineStatus) Count(sev Severity) int {
	n := 0
	for _, i := range s.Issues {
		if i.Severity == sev {
			n++
		}
	}
	return n
}

func (s *PipelineStatus) Fixable() []Issue {
	var out []Issue
	for _, i := range s.Issues {
		if i.FixAvailable {
			out = append(out, i)
		}
	}
	return out
}

// Summary counts issues by severity.
type Summary struct {
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
	Info     int `json:"info"`
}

// StatusReport is the serialisable view of a PipelineStatus. Both the JSON
// and the terminal output are rendered from it.
type StatusReport struct {
	ProjectPath string          `json:"project_path"`
	ProjectType ProjectKind     `json:"project_type"`
	IsValid     bool            `json:"is_valid"`
	Hooks       map[string]bool `json:"hooks"`
	ConfigFiles map[string]bool `json:"config_files"`
	Submodules  []string        `json:"submodules"`
	Issues      []Issue         `json:"issues"`
	Summary     Summary         `json:"summary"`
}

func (s *PipelineStatus) Report() StatusReport {
	issues := slices.Clone(s.Issues)
	if issues == nil {
		issues = []Issue{}
	}
	subs := slices.Clone(s.Submodules)
	if subs == nil {
		subs = []string{}
	}
	sort.Strings(subs)
	return StatusReport{
		ProjectPath: s.Root,
		ProjectType: s.Kind,
		IsValid:     s.IsValid(),
		Hooks:       s.Hooks,
		ConfigFiles: s.ConfigFiles,
		Submodules:  subs,
		Issues:      issues,
		Summary: Summary{
			Critical: s.Count(SeverityCritical),
			Major:    s.Count(SeverityMajor),
			Minor:    s.Count(SeverityMinor),
			Info:     s.Count(SeverityInfo),
		},
	}
}
