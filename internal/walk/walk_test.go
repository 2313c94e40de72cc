package walk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocket-tycoon/rocketindex/internal/config"
)

func TestDiscover_NonGitDirFallsBackToPlainWalk(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor", "dep.go"), []byte("package vendor\n"), 0o644))

	files, err := Discover(dir, &config.Config{})
	require.NoError(t, err)

	assert.Contains(t, files, filepath.Join(dir, "main.go"))
	for _, f := range files {
		assert.NotContains(t, f, string(filepath.Separator)+"vendor"+string(filepath.Separator))
	}
}

func TestDiscover_RespectsConfiguredExcludes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "generated"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "generated", "skip.go"), []byte("package generated\n"), 0o644))

	cfg := &config.Config{Exclude: []string{"generated/**"}}
	files, err := Discover(dir, cfg)
	require.NoError(t, err)

	assert.Contains(t, files, filepath.Join(dir, "keep.go"))
	assert.NotContains(t, files, filepath.Join(dir, "generated", "skip.go"))
}

func TestIsExcluded_MatchesBareBasenamePatterns(t *testing.T) {
	t.Parallel()
	assert.True(t, isExcluded("/repo", "/repo/sub/.git", []string{".git"}))
	assert.False(t, isExcluded("/repo", "/repo/sub/main.go", []string{".git"}))
}

func TestIsExcluded_MatchesDoubleStarAgainstRelativePath(t *testing.T) {
	t.Parallel()
	assert.True(t, isExcluded("/repo", "/repo/node_modules/pkg/index.js", []string{"**/node_modules/**"}))
	assert.False(t, isExcluded("/repo", "/repo/src/index.js", []string{"**/node_modules/**"}))
}
