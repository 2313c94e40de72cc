package gitutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))
	_, err = wt.Add("main.go")
	require.NoError(t, err)

	sig := &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()}
	_, err = wt.Commit("initial", &git.CommitOptions{Author: sig})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.go"), []byte("package main\n"), 0o644))
	return dir
}

func TestListFiles_IncludesTrackedAndUntracked(t *testing.T) {
	t.Parallel()
	dir := initRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	files, err := repo.ListFiles()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range files {
		names[filepath.Base(f)] = true
	}
	assert.True(t, names["main.go"])
	assert.True(t, names["untracked.go"])
}

func TestHistory_ReturnsCommitsForFile(t *testing.T) {
	t.Parallel()
	dir := initRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	entries, err := repo.History("main.go", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "initial", entries[0].Message)
}

func TestBlame_ReturnsLineAuthorship(t *testing.T) {
	t.Parallel()
	dir := initRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	lines, err := repo.Blame("main.go")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "test", lines[0].Author)
}

func TestOpen_NonRepoReturnsError(t *testing.T) {
	t.Parallel()
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}
