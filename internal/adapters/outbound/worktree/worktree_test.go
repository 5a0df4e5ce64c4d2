package worktree_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openkraft/pluginpipe/internal/adapters/outbound/worktree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0o644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")
	return dir
}

func TestRepo_CleanTree(t *testing.T) {
	dir := initRepo(t)
	r := worktree.Open(dir)

	changed, err := r.HasTrackedChanges(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRepo_IgnoresUntracked(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.py"), []byte("y = 2\n"), 0o644))
	r := worktree.Open(dir)

	changed, err := r.HasTrackedChanges(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, r.StageTracked(context.Background()))
	staged, err := r.HasStagedChanges(context.Background())
	require.NoError(t, err)
	assert.False(t, staged)
}

func TestRepo_StageAndCommitTracked(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.py"), []byte("z = 3\n"), 0o644))
	r := worktree.Open(dir)
	ctx := context.Background()

	changed, err := r.HasTrackedChanges(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, r.StageTracked(ctx))
	staged, err := r.HasStagedChanges(ctx)
	require.NoError(t, err)
	assert.True(t, staged)

	hash, err := r.Commit(ctx, "chore: Auto-fix lint/format issues (iteration 1)")
	require.NoError(t, err)
	assert.Len(t, hash, 40)

	changed, err = r.HasTrackedChanges(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	out := gitOutput(t, dir, "log", "-1", "--format=%s")
	assert.Equal(t, "chore: Auto-fix lint/format issues (iteration 1)", out)
	assert.Contains(t, gitOutput(t, dir, "status", "--porcelain"), "?? untracked.py")
}

func TestRepo_CommitDoesNotRunHooks(t *testing.T) {
	dir := initRepo(t)
	marker := filepath.Join(dir, "hook-ran")
	hook := "#!/bin/sh\ntouch " + marker + "\nexit 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "hooks", "pre-commit"), []byte(hook), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 3\n"), 0o644))

	r := worktree.Open(dir)
	require.NoError(t, r.StageTracked(context.Background()))
	_, err := r.Commit(context.Background(), "auto")
	require.NoError(t, err)
	assert.NoFileExists(t, marker)
}

func TestRepo_NotARepository(t *testing.T) {
	_, err := worktree.Open(t.TempDir()).HasTrackedChanges(context.Background())
	assert.Error(t, err)
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	gitOutput(t, dir, args...)
}

func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
	return strings.TrimSpace(string(out))
}
