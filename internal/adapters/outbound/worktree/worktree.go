// Package worktree is the go-git backed view of a checkout used by the
// auto-fix loop.
package worktree

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const defaultTimeout = 30 * time.Second

const (
	fallbackName  = "pluginpipe"
	fallbackEmail = "pluginpipe@localhost"
)

// Repo implements domain.WorkTree. Untracked files are ignored throughout.
type Repo struct {
	root    string
	timeout time.Duration
}

type Option func(*Repo)

func WithTimeout(d time.Duration) Option {
	return func(r *Repo) { r.timeout = d }
}

func Open(root string, opts ...Option) *Repo {
	r := &Repo{root: root, timeout: defaultTimeout}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Repo) open() (*git.Repository, *git.Worktree, error) {
	repo, err := git.PlainOpenWithOptions(r.root, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening repository at %s", r.root)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening worktree")
	}
	return repo, wt, nil
}

func (r *Repo) status() (git.Status, *git.Worktree, error) {
	_, wt, err := r.open()
	if err != nil {
		return nil, nil, err
	}
	st, err := wt.Status()
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading worktree status")
	}
	return st, wt, nil
}

// HasTrackedChanges reports whether any tracked file differs from HEAD,
// staged or not.
func (r *Repo) HasTrackedChanges(ctx context.Context) (bool, error) {
	return withTimeout(ctx, r.timeout, func() (bool, error) {
		st, _, err := r.status()
		if err != nil {
			return false, err
		}
		for _, fs := range st {
			if fs.Worktree == git.Untracked {
				continue
			}
			if fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified {
				return true, nil
			}
		}
		return false, nil
	})
}

// StageTracked stages modifications and deletions of tracked files, like
// `git add -u`.
func (r *Repo) StageTracked(ctx context.Context) error {
	_, err := withTimeout(ctx, r.timeout, func() (struct{}, error) {
		st, wt, err := r.status()
		if err != nil {
			return struct{}{}, err
		}
		for path, fs := range st {
			switch fs.Worktree {
			case git.Modified:
				if _, err := wt.Add(path); err != nil {
					return struct{}{}, errors.Wrapf(err, "staging %s", path)
				}
			case git.Deleted:
				if _, err := wt.Remove(path); err != nil {
					return struct{}{}, errors.Wrapf(err, "staging removal of %s", path)
				}
			}
		}
		return struct{}{}, nil
	})
	return err
}

func (r *Repo) HasStagedChanges(ctx context.Context) (bool, error) {
	return withTimeout(ctx, r.timeout, func() (bool, error) {
		st, _, err := r.status()
		if err != nil {
			return false, err
		}
		for _, fs := range st {
			if fs.Staging != git.Unmodified && fs.Staging != git.Untracked {
				return true, nil
			}
		}
		return false, nil
	})
}

// Commit records the index. go-git never executes repository hooks, so the
// commit does not re-enter the pre-commit hook.
func (r *Repo) Commit(ctx context.Context, message string) (string, error) {
	return withTimeout(ctx, r.timeout, func() (string, error) {
		repo, wt, err := r.open()
		if err != nil {
			return "", err
		}
		sig := signature(repo)
		hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
		if err != nil {
			return "", errors.Wrap(err, "committing")
		}
		return hash.String(), nil
	})
}

func signature(repo *git.Repository) *object.Signature {
	name, email := fallbackName, fallbackEmail
	if cfg, err := repo.ConfigScoped(config.GlobalScope); err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}

// withTimeout bounds fn by d. go-git calls take no context, so on expiry
// fn is abandoned and keeps running in the background.
func withTimeout[T any](ctx context.Context, d time.Duration, fn func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, errors.Wrapf(ctx.Err(), "git operation exceeded %s", d)
	}
}
