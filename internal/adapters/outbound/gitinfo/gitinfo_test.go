package gitinfo_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/openkraft/pluginpipe/internal/adapters/outbound/gitinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitInfo_HasRepository(t *testing.T) {
	dir := t.TempDir()
	gi := gitinfo.New()
	assert.False(t, gi.HasRepository(dir))

	require.NoError(t, gi.InitRepository(dir))
	assert.True(t, gi.HasRepository(dir))
	assert.False(t, gi.IsNested(dir))
	assert.Equal(t, filepath.Join(dir, ".git", "hooks"), gi.HooksDir(dir))
}

func TestGitInfo_HooksDir_FollowsRelativePointer(t *testing.T) {
	root := t.TempDir()
	modDir := filepath.Join(root, ".git", "modules", "plugin-a")
	require.NoError(t, os.MkdirAll(modDir, 0o755))
	sub := filepath.Join(root, "plugins", "plugin-a")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, ".git"), []byte("gitdir: ../../.git/modules/plugin-a\n"), 0o644))

	gi := gitinfo.New()
	assert.True(t, gi.IsNested(sub))
	want, err := filepath.EvalSymlinks(modDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(want, "hooks"), gi.HooksDir(sub))
}

func TestGitInfo_HooksDir_AbsolutePointer(t *testing.T) {
	root := t.TempDir()
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git"), []byte("gitdir: "+target), 0o644))

	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(want, "hooks"), gitinfo.New().HooksDir(root))
}

func TestGitInfo_HooksDir_GarbagePointerFallsBack(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git"), []byte("not a pointer"), 0o644))
	assert.Equal(t, filepath.Join(root, ".git", "hooks"), gitinfo.New().HooksDir(root))
}

func TestGitInfo_OperationInProgress(t *testing.T) {
	root := t.TempDir()
	gi := gitinfo.New()
	require.NoError(t, gi.InitRepository(root))

	_, busy := gi.OperationInProgress(root)
	assert.False(t, busy)

	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "rebase-merge"), 0o755))
	op, busy := gi.OperationInProgress(root)
	assert.True(t, busy)
	assert.Equal(t, "rebase", op)
}

func TestGitInfo_CommitHash_ReturnsHash(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("hello"), 0o644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")

	gi := gitinfo.New()
	hash, err := gi.CommitHash(dir)
	require.NoError(t, err)
	assert.Len(t, hash, 40, "should be a full SHA-1 hash")

	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	top, err := gi.TopLevel(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, top)
}

func TestGitInfo_CommitHash_NotGitRepo(t *testing.T) {
	_, err := gitinfo.New().CommitHash(t.TempDir())
	assert.Error(t, err)
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
}
