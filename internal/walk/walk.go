// Package walk discovers the files a build or refresh pass should index:
// git-tracked and untracked files when the workspace is a git repository,
// a plain filesystem walk otherwise, filtered by the project config's
// exclusion globs.
package walk

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rocket-tycoon/rocketindex/internal/config"
	"github.com/rocket-tycoon/rocketindex/internal/gitutil"
)

// Discover lists every file under root that isn't excluded by cfg,
// preferring go-git's tracked+untracked listing and falling back to a
// plain filesystem walk (skipping the default ignored directories) when
// root isn't a git repository.
func Discover(root string, cfg *config.Config) ([]string, error) {
	var files []string
	if repo, err := gitutil.Open(root); err == nil {
		files, err = repo.ListFiles()
		if err != nil {
			return nil, err
		}
	} else {
		files, err = gitutil.WalkFiles(root, func(name string) bool {
			switch name {
			case "node_modules", "vendor", "__pycache__", "target", "bin", "obj":
				return true
			}
			return false
		})
		if err != nil {
			return nil, err
		}
	}

	excludes := cfg.AllExcludes()
	kept := files[:0]
	for _, f := range files {
		if !isExcluded(root, f, excludes) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// isExcluded reports whether path (absolute or root-relative) matches any
// of the doublestar glob patterns in excludes, tried against both the
// root-relative path and the bare filename.
func isExcluded(root, path string, excludes []string) bool {
	rel := path
	if filepath.IsAbs(path) {
		if r, err := filepath.Rel(root, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)

	for _, pattern := range excludes {
		if matched, err := doublestar.PathMatch(pattern, rel); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
				return true
			}
		}
	}
	return false
}
