package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rocket-tycoon/rocketindex/internal/config"
	"github.com/rocket-tycoon/rocketindex/internal/diskindex"
	"github.com/rocket-tycoon/rocketindex/internal/errs"
)

// resolveRoot returns the absolute workspace root: --root if given,
// otherwise the current directory.
func resolveRoot() (string, error) {
	root := flagRoot
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: not a directory: %s", errs.Io, abs)
	}
	return abs, nil
}

// dbPath is the on-disk index location under a workspace root.
func dbPath(root string) string {
	return filepath.Join(root, ".rocketindex", "index.db")
}

// openExistingIndex opens root's disk index, failing with IndexNotFound
// (mapped to a CLI "run index first" message) if it hasn't been built yet.
func openExistingIndex(root string) (*diskindex.Index, error) {
	path := dbPath(root)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s (run 'rocketindex index' first)", errs.IndexNotFound, path)
	}
	return diskindex.Open(path)
}

// loadConfig loads root's project config, falling back to defaults with a
// stderr warning rather than failing the command outright.
func loadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "warning: load config: %v\n", err)
		}
		return &config.Config{MaxDepth: config.DefaultMaxDepth}
	}
	return cfg
}

// emit renders v as JSON or, in text mode, via textFn.
func emit(v any, textFn func()) error {
	if flagFormat == "text" {
		if textFn != nil {
			textFn()
		}
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
