package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// initRepo creates a work tree with a bare remote named origin.
func initRepo(t *testing.T) (string, string) {
	t.Helper()
	requireGit(t)

	root := t.TempDir()
	work := filepath.Join(root, "work")
	remote := filepath.Join(root, "remote.git")

	gitCmd := func(dir string, args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	require.NoError(t, os.MkdirAll(work, 0755))
	gitCmd(root, "init", "--bare", "-b", "main", remote)
	gitCmd(work, "init", "-b", "main")
	gitCmd(work, "config", "user.email", "editor@example.com")
	gitCmd(work, "config", "user.name", "Editor")
	gitCmd(work, "config", "commit.gpgsign", "false")
	gitCmd(work, "remote", "add", "origin", remote)
	return work, remote
}

func TestRunner_IsRepo(t *testing.T) {
	requireGit(t)
	ctx := context.Background()

	ok, err := New(t.TempDir()).IsRepo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	work, _ := initRepo(t)
	ok, err = New(work).IsRepo(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunner_MissingBinary(t *testing.T) {
	_, err := New(t.TempDir(), WithBinary("git-does-not-exist")).IsRepo(context.Background())
	require.Error(t, err)
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, -1, cmdErr.ExitCode)
}

func TestRunner_PublishCycle(t *testing.T) {
	work, _ := initRepo(t)
	runner := New(work)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Join(work, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(work, "data", "article.json"), []byte("[]\n"), 0644))

	require.NoError(t, runner.StageAll(ctx))
	changed, err := runner.HasStagedChanges(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	out, err := runner.Commit(ctx, "Add articles")
	require.NoError(t, err)
	assert.Contains(t, out, "Add articles")

	_, err = runner.Push(ctx, "origin", "main")
	require.NoError(t, err)

	require.NoError(t, runner.StageAll(ctx))
	changed, err = runner.HasStagedChanges(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRunner_PushFailureCarriesDiagnostic(t *testing.T) {
	work, _ := initRepo(t)
	runner := New(work)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(work, "README.md"), []byte("hi\n"), 0644))
	require.NoError(t, runner.StageAll(ctx))
	_, err := runner.Commit(ctx, "init")
	require.NoError(t, err)

	_, err = runner.Push(ctx, "nowhere", "main")
	require.Error(t, err)
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.NotEmpty(t, cmdErr.Output)
	assert.Equal(t, cmdErr.Output, err.Error())
}

func TestCommandError_EmptyOutput(t *testing.T) {
	err := &CommandError{Args: []string{"commit", "-m", "x"}, ExitCode: 1}
	assert.Equal(t, "git commit -m x failed", err.Error())
}
