package domain

import (
	"context"
	"strings"
	"time"
)

// Command is one external process invocation. A zero Timeout means no deadline.
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Timeout time.Duration
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// CommandResult describes how a process ended. Err is set only when the
// process could not be started or waited on; ExitCode is -1 in that case.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Err      error
}

func (r CommandResult) OK() bool {
	return r.Err == nil && !r.TimedOut && r.ExitCode == 0
}

// Output returns combined, trimmed process output.
func (r CommandResult) Output() string {
	return strings.TrimSpace(r.Stdout + "\n" + r.Stderr)
}

// CommandRunner executes external tools.
type CommandRunner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, cmd Command) CommandResult
}

// ToolLocator makes a tool available, installing it when it can. Failure
// explains a failed EnsureAvailable, with the manual install command as an
// error hint; it is nil when the tool is available.
type ToolLocator interface {
	EnsureAvailable(ctx context.Context, tool string) bool
	Failure(tool string) error
}

// CategoryDetector finds the categories present in a tree, in first-seen order.
type CategoryDetector interface {
	Detect(root string) ([]CategoryFiles, error)
}

// LinterAdapter fixes, checks and formats the files of one category.
type LinterAdapter interface {
	Category() Category
	Run(ctx context.Context, root string, files []string) CategoryResult
}

// WorkTree is the version-control view used by the auto-fix loop.
type WorkTree interface {
	HasTrackedChanges(ctx context.Context) (bool, error)
	StageTracked(ctx context.Context) error
	HasStagedChanges(ctx context.Context) (bool, error)
	Commit(ctx context.Context, message string) (string, error)
}

// PluginCatalog lists the plugins of a project.
type PluginCatalog interface {
	Plugins(root string) ([]PluginTarget, error)
}

// PluginValidator runs the external structural validator on one plugin.
type PluginValidator interface {
	Validate(ctx context.Context, pluginPath string) bool
}

// ProjectDetector classifies a project and lists marketplace submodules.
type ProjectDetector interface {
	DetectKind(root string) ProjectKind
	Submodules(root string) ([]Submodule, error)
}

// GitLocator answers repository-layout questions about a checkout.
type GitLocator interface {
	HasRepository(root string) bool
	HooksDir(root string) string
	InitRepository(root string) error
}

// HookStore reads and writes hook scripts.
type HookStore interface {
	InspectHook(dir, name string) HookState
	InstallHook(dir, name string) error
	RemoveHook(dir, name string) error
}

// ConfigStore reads and writes the pipeline's config files.
type ConfigStore interface {
	InspectConfig(root, name string) ConfigState
	WriteConfig(root, name string) error
	AppendGitignore(root string, patterns []string) error
}

// ConfigLoader loads the optional per-project configuration.
type ConfigLoader interface {
	Load(projectPath string) (PipelineConfig, error)
}

// RunHistory persists auto-fix loop runs.
type RunHistory interface {
	Save(projectPath string, record RunRecord) error
	Load(projectPath string) ([]RunRecord, error)
}
