package domain

import "fmt"

// Severity orders issues from informational to pipeline-breaking.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityMinor
	SeverityMajor
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityMinor:
		return "MINOR"
	case SeverityMajor:
		return "MAJOR"
	case SeverityCritical:
		return "CRITICAL"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Blocking reports whether an issue of this severity makes the pipeline invalid.
func (s Severity) Blocking() bool {
	return s >= SeverityMajor
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "INFO":
		*s = SeverityInfo
	case "MINOR":
		*s = SeverityMinor
	case "MAJOR":
		*s = SeverityMajor
	case "CRITICAL":
		*s = SeverityCritical
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}

// Component tags used on issues.
const (
	ComponentProject    = "project"
	ComponentGit        = "git"
	ComponentHooks      = "hooks"
	ComponentConfig     = "config"
	ComponentCI         = "ci"
	ComponentSubmodules = "submodules"
	ComponentPermission = "permissions"
)

// RemedyAction names the concrete operation that resolves a fixable issue.
type RemedyAction int

const (
	RemedyNone RemedyAction = iota
	RemedyInitRepository
	RemedyInstallHook
	RemedyRemoveHook
	RemedyCreateConfig
	RemedyAppendGitignore
)

func (a RemedyAction) String() string {
	switch a {
	case RemedyInitRepository:
		return "init_repository"
	case RemedyInstallHook:
		return "install_hook"
	case RemedyRemoveHook:
		return "remove_hook"
	case RemedyCreateConfig:
		return "create_config"
	case RemedyAppendGitignore:
		return "append_gitignore"
	}
	return "none"
}

// Remedy carries what the hook manager needs to apply a fix.
// Dir is a hooks directory for hook remedies and the project root otherwise.
type Remedy struct {
	Action   RemedyAction
	Dir      string
	Name     string
	Patterns []string
}

type Issue struct {
	Severity       Severity `json:"level"`
	Component      string   `json:"component"`
	Message        string   `json:"message"`
	FixAvailable   bool     `json:"fix_available"`
	FixDescription string   `json:"fix_description,omitempty"`
	Remedy         Remedy   `json:"-"`
}

func NewIssue(sev Severity, component, message string) Issue {
	return Issue{Severity: sev, Component: component, Message: message}
}

// WithFix returns a copy of the issue marked fixable by the given remedy.
func (i Issue) WithFix(description string, r Remedy) Issue {
	i.FixAvailable = true
	i.FixDescription = description
	i.Remedy = r
	return i
}
