package main

import (
	"fmt"
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/diskindex"
	"github.com/rocket-tycoon/rocketindex/internal/liveindex"
)

// loadLive rebuilds a live index projection from an already-populated disk
// index, the way a freshly-started LSP session would, but reading the
// already-extracted rows back out instead of re-parsing source. The CLI is
// stateless between invocations, so resolution commands (def/refs/spider/
// callers) need this to get the live index's opens-aware, overload-aware
// query surface the disk index alone doesn't offer as cheaply.
func loadLive(disk *diskindex.Index, root string) (*liveindex.Index, error) {
	live := liveindex.NewWithRoot(root)

	if stored, err := disk.GetMetadata("workspace_root"); err == nil && stored != "" {
		live.SetWorkspaceRoot(stored)
	}

	files, err := disk.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	for _, file := range files {
		symbols, err := disk.SymbolsInFile(file)
		if err != nil {
			return nil, fmt.Errorf("symbols in %s: %w", file, err)
		}
		for _, sym := range symbols {
			live.AddSymbol(sym)
		}

		refs, err := disk.ReferencesInFile(file)
		if err != nil {
			return nil, fmt.Errorf("references in %s: %w", file, err)
		}
		for _, ref := range refs {
			live.AddReference(file, ref)
		}

		opens, err := disk.OpensForFile(file)
		if err != nil {
			return nil, fmt.Errorf("opens in %s: %w", file, err)
		}
		for _, open := range opens {
			live.AddOpen(file, open)
		}
	}

	if order, err := disk.GetMetadata("file_order"); err == nil && order != "" {
		live.SetFileOrder(strings.Split(order, "\n"))
	}

	return live, nil
}
