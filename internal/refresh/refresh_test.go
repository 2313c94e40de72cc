package refresh

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocket-tycoon/rocketindex/internal/diskindex"
)

func newTestEngine(t *testing.T, root string) *Engine {
	t.Helper()
	disk, err := diskindex.InMemory()
	require.NoError(t, err)
	t.Cleanup(func() { disk.Close() })
	return New(disk, root, 64)
}

func TestFullBuild_IndexesSupportedFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	goFile := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(goFile, []byte("package main\n\nfunc Run() {}\n"), 0o644))
	txtFile := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtFile, []byte("not code"), 0o644))

	e := newTestEngine(t, dir)
	summary, err := e.FullBuild(context.Background(), []string{goFile, txtFile})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesIndexed)
	assert.Empty(t, summary.Errored)
	assert.Greater(t, e.Live.SymbolCount(), 0)

	files, err := e.Disk.ListFiles()
	require.NoError(t, err)
	assert.Contains(t, files, goFile)
}

func TestRefreshFile_ReplacesPreviousData(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	goFile := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(goFile, []byte("package main\n\nfunc Old() {}\n"), 0o644))

	e := newTestEngine(t, dir)
	_, err := e.FullBuild(context.Background(), []string{goFile})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goFile, []byte("package main\n\nfunc New() {}\n"), 0o644))
	_, err = e.RefreshFile(goFile)
	require.NoError(t, err)

	symbols := e.Live.SymbolsInFile(goFile)
	var names []string
	for _, s := range symbols {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "New")
	assert.NotContains(t, names, "Old")
}

func TestRemoveFile_ClearsBothIndexes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	goFile := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(goFile, []byte("package main\n\nfunc Run() {}\n"), 0o644))

	e := newTestEngine(t, dir)
	_, err := e.FullBuild(context.Background(), []string{goFile})
	require.NoError(t, err)
	require.True(t, e.Live.ContainsFile(goFile))

	require.NoError(t, e.RemoveFile(goFile))
	assert.False(t, e.Live.ContainsFile(goFile))

	symbols, err := e.Disk.SymbolsInFile(goFile)
	require.NoError(t, err)
	assert.Empty(t, symbols)
}
