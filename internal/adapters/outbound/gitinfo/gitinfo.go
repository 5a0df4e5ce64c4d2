// Package gitinfo answers repository-layout questions using go-git and the
// on-disk .git layout.
package gitinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

const gitdirPrefix = "gitdir:"

// GitInfoAdapter implements domain.GitLocator.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

// HasRepository reports whether root has a .git entry, file or directory.
func (g *GitInfoAdapter) HasRepository(root string) bool {
	_, err := os.Lstat(filepath.Join(root, ".git"))
	return err == nil
}

// IsNested reports whether root's .git is a pointer file, as it is for
// submodule checkouts.
func (g *GitInfoAdapter) IsNested(root string) bool {
	info, err := os.Lstat(filepath.Join(root, ".git"))
	return err == nil && info.Mode().IsRegular()
}

// GitDir resolves root's git directory. A "gitdir: <path>" pointer file is
// followed, relative paths resolving against root; anything else falls back
// to root/.git.
func (g *GitInfoAdapter) GitDir(root string) string {
	dotGit := filepath.Join(root, ".git")
	info, err := os.Lstat(dotGit)
	if err != nil || !info.Mode().IsRegular() {
		return dotGit
	}
	data, err := os.ReadFile(dotGit)
	if err != nil {
		return dotGit
	}
	line := strings.TrimSpace(string(data))
	if !strings.HasPrefix(line, gitdirPrefix) {
		return dotGit
	}
	target := strings.TrimSpace(strings.TrimPrefix(line, gitdirPrefix))
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		return resolved
	}
	return filepath.Clean(target)
}

func (g *GitInfoAdapter) HooksDir(root string) string {
	return filepath.Join(g.GitDir(root), "hooks")
}

func (g *GitInfoAdapter) InitRepository(root string) error {
	if _, err := git.PlainInit(root, false); err != nil {
		return fmt.Errorf("initialising repository: %w", err)
	}
	return nil
}

func (g *GitInfoAdapter) CommitHash(projectPath string) (string, error) {
	repo, err := git.PlainOpenWithOptions(projectPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}

// TopLevel returns the work tree root containing dir.
func (g *GitInfoAdapter) TopLevel(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

var operationMarkers = []struct {
	path string
	name string
}{
	{"rebase-merge", "rebase"},
	{"rebase-apply", "rebase"},
	{"MERGE_HEAD", "merge"},
	{"CHERRY_PICK_HEAD", "cherry-pick"},
	{"REVERT_HEAD", "revert"},
	{"BISECT_LOG", "bisect"},
}

// OperationInProgress names a multi-step git operation underway in root.
func (g *GitInfoAdapter) OperationInProgress(root string) (string, bool) {
	gitDir := g.GitDir(root)
	for _, m := range operationMarkers {
		if _, err := os.Stat(filepath.Join(gitDir, m.path)); err == nil {
			return m.name, true
		}
	}
	return "", false
}
