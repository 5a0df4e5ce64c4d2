// Package bootstrap wires outbound adapters into application services for
// the CLI and the MCP server.
package bootstrap

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/openkraft/pluginpipe/internal/adapters/outbound/config"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/configstore"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/detector"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/history"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/hookstore"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/linters"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/scanner"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/toolchain"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/validator"
	"github.com/openkraft/pluginpipe/internal/adapters/outbound/worktree"
	"github.com/openkraft/pluginpipe/internal/application"
	"github.com/openkraft/pluginpipe/internal/domain"
)

// Services holds the project-independent services.
type Services struct {
	Validate  *application.ValidateService
	Fix       *application.FixService
	PreCommit *application.PreCommitService
	Changelog *application.ChangelogService

	Git     *gitinfo.GitInfoAdapter
	History *history.FileHistory
	Runner  *toolchain.Executor
	Log     *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Services {
	det := detector.New()
	git := gitinfo.New()
	hooks := hookstore.New()
	configs := configstore.New()
	runner := toolchain.NewExecutor()

	validate := application.NewValidateService(det, git, hooks, configs, log)
	return &Services{
		Validate:  validate,
		Fix:       application.NewFixService(validate, git, hooks, configs, log),
		PreCommit: application.NewPreCommitService(runner, git, log),
		Changelog: application.NewChangelogService(runner, configs, log),
		Git:       git,
		History:   history.New(),
		Runner:    runner,
		Log:       log,
	}
}

// LoadConfig reads root's .pluginpipe.yaml. A file that cannot be used is
// reported and replaced by defaults.
func (s *Services) LoadConfig(root string) domain.PipelineConfig {
	cfg, err := config.New().Load(root)
	if err != nil {
		s.Log.Warnw("Ignoring project config, using defaults", "path", root, "error", err)
	}
	return cfg
}

// AutoFix builds the convergence loop for one project root.
func (s *Services) AutoFix(root string) *application.AutoFixService {
	cfg := s.LoadConfig(root)
	det := detector.New()
	tree := worktree.Open(root)
	locator := toolchain.NewLocator(s.Runner, s.Log, toolchain.WithRoot(root))

	deps := application.AutoFixDeps{
		Detector: scanner.New(cfg.ExcludeDirs...),
		Adapters: linters.All(linters.Deps{
			Runner:  s.Runner,
			Locator: locator,
			Tree:    tree,
			Log:     s.Log,
			Config:  cfg,
		}),
		Tree:    tree,
		Catalog: det,
		History: s.History,
		Head:    s.Git,
		Config:  cfg,
		Log:     s.Log,
	}

	v, err := validator.Discover(root, cfg.Validator, s.Runner, s.Log)
	switch {
	case err == nil:
		s.Log.Debugw("Using plugin validator", "command", v.Command())
		deps.Validator = v
	case errors.Is(err, validator.ErrNotFound):
		s.Log.Warnw("Plugin validator not found", "hint", errors.FlattenHints(err))
	default:
		s.Log.Warnw("Plugin validator unusable", "error", err)
	}
	return application.NewAutoFixService(deps)
}
