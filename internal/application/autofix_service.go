package application

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/openkraft/pluginpipe/internal/domain"
	"go.uber.org/zap"
)

// HeadReader resolves the commit a run finished on, for the run log.
type HeadReader interface {
	CommitHash(root string) (string, error)
}

// AutoFixDeps are the collaborators of one auto-fix run. Validator, History
// and Head may be nil.
type AutoFixDeps struct {
	Detector  domain.CategoryDetector
	Adapters  []domain.LinterAdapter
	Tree      domain.WorkTree
	Catalog   domain.PluginCatalog
	Validator domain.PluginValidator
	History   domain.RunHistory
	Head      HeadReader
	Config    domain.PipelineConfig
	Log       *zap.SugaredLogger
	// Now is the clock used for run records.
	Now func() time.Time
}

// AutoFixService is the bounded convergence loop: lint, commit what changed,
// repeat, then validate plugin structure once the tree is stable.
type AutoFixService struct {
	d        AutoFixDeps
	adapters map[domain.Category]domain.LinterAdapter
}

func NewAutoFixService(d AutoFixDeps) *AutoFixService {
	if d.Now == nil {
		d.Now = time.Now
	}
	adapters := make(map[domain.Category]domain.LinterAdapter, len(d.Adapters))
	for _, a := range d.Adapters {
		adapters[a.Category()] = a
	}
	return &AutoFixService{d: d, adapters: adapters}
}

// CommitMessage is the message of the commit made after iteration n.
func CommitMessage(n int) string {
	return fmt.Sprintf("chore: Auto-fix lint/format issues (iteration %d)", n)
}

// Run drives the loop to a terminal outcome. The returned error is reserved
// for version-control failures; every other condition is an outcome.
//
// Changes made in the last permitted round are not committed: the run ends
// MaxIterationsExhausted with at most MaxIterations-1 commits.
func (s *AutoFixService) Run(ctx context.Context, root string) (*domain.ConvergenceOutcome, error) {
	outcome := &domain.ConvergenceOutcome{Kind: domain.OutcomeMaxIterationsExhausted}

	for iter := 1; iter <= domain.MaxIterations; iter++ {
		outcome.Iterations = iter
		s.d.Log.Infow("Auto-fix iteration", "iteration", iter, "max", domain.MaxIterations)

		changed, passed, err := s.round(ctx, root)
		if err != nil {
			return nil, err
		}

		if changed {
			if iter == domain.MaxIterations {
				s.d.Log.Warnw("Files still changing at iteration limit", "iteration", iter)
				break
			}
			committed, err := s.commit(ctx, iter)
			if err != nil {
				return nil, err
			}
			if committed {
				outcome.Commits++
			}
			continue
		}

		if !passed {
			outcome.Kind = domain.OutcomeBlockedUnfixableLint
			break
		}

		failing := s.structural(ctx, root)
		if len(failing) == 0 {
			outcome.Kind = domain.OutcomeSuccess
		} else {
			outcome.Kind = domain.OutcomeBlockedStructural
			outcome.FailingPlugins = failing
		}
		break
	}

	s.record(root, outcome)
	return outcome, nil
}

// round runs every applicable adapter once.
func (s *AutoFixService) round(ctx context.Context, root string) (changed, passed bool, err error) {
	found, err := s.d.Detector.Detect(root)
	if err != nil {
		return false, false, errors.Wrap(err, "detecting file categories")
	}
	if _, err := s.d.Tree.HasTrackedChanges(ctx); err != nil {
		return false, false, errors.Wrap(err, "reading working tree status")
	}

	passed = true
	for _, cf := range found {
		if s.d.Config.IsDisabled(cf.Category) {
			s.d.Log.Debugw("Category disabled", "category", cf.Category)
			continue
		}
		adapter, ok := s.adapters[cf.Category]
		if !ok {
			continue
		}
		res := adapter.Run(ctx, root, cf.Files)
		if res.Err != nil {
			return false, false, errors.Wrapf(res.Err, "reading working tree status after %s", cf.Category)
		}
		s.d.Log.Infow("Category done", "category", cf.Category, "files", len(cf.Files),
			"success", res.Success, "changed", res.FilesChanged)
		changed = changed || res.FilesChanged
		passed = passed && res.Success
	}
	return changed, passed, nil
}

func (s *AutoFixService) commit(ctx context.Context, iter int) (bool, error) {
	if err := s.d.Tree.StageTracked(ctx); err != nil {
		return false, errors.Wrapf(err, "staging iteration %d", iter)
	}
	staged, err := s.d.Tree.HasStagedChanges(ctx)
	if err != nil {
		return false, errors.Wrapf(err, "reading index after iteration %d", iter)
	}
	if !staged {
		s.d.Log.Debugw("Nothing staged", "iteration", iter)
		return false, nil
	}
	hash, err := s.d.Tree.Commit(ctx, CommitMessage(iter))
	if err != nil {
		return false, errors.Wrapf(err, "committing iteration %d", iter)
	}
	s.d.Log.Infow("Committed auto-fixes", "iteration", iter, "commit", shortHash(hash))
	return true, nil
}

// structural returns the names of plugins the external validator rejects.
func (s *AutoFixService) structural(ctx context.Context, root string) []string {
	if s.d.Validator == nil {
		s.d.Log.Warnw("No plugin validator available, skipping structural validation")
		return nil
	}
	targets, err := s.d.Catalog.Plugins(root)
	if err != nil {
		s.d.Log.Warnw("Cannot list plugins", "path", root, "error", err)
		return nil
	}

	var failing []string
	for _, t := range targets {
		if _, err := os.Stat(t.Path); err != nil {
			s.d.Log.Warnw("Plugin directory not found", "plugin", t.Name, "path", t.Path)
			continue
		}
		if !s.d.Validator.Validate(ctx, t.Path) {
			failing = append(failing, t.Name)
		}
	}
	return failing
}

func (s *AutoFixService) record(root string, o *domain.ConvergenceOutcome) {
	if s.d.History == nil || !s.d.Config.History {
		return
	}
	var hash string
	if s.d.Head != nil {
		if h, err := s.d.Head.CommitHash(root); err == nil {
			hash = h
		}
	}
	if err := s.d.History.Save(root, domain.NewRunRecord(o, hash, s.d.Now().UTC())); err != nil {
		s.d.Log.Warnw("Cannot save run history", "path", root, "error", err)
	}
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
