package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rocket-tycoon/rocketindex/internal/diskindex"
	"github.com/rocket-tycoon/rocketindex/internal/refresh"
	"github.com/rocket-tycoon/rocketindex/internal/walk"
)

var flagExtractTypes bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Full build of the disk and live indexes",
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagExtractTypes, "extract-types", false, "also run the external type extractor and merge its output")
}

func runIndex(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg := loadConfig(root)

	path := dbPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	disk, err := diskindex.Create(path)
	if err != nil {
		return fmt.Errorf("creating disk index: %w", err)
	}
	defer disk.Close()

	paths, err := walk.Discover(root, cfg)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	engine := refresh.New(disk, root, cfg.MaxDepth)
	summary, err := engine.FullBuild(context.Background(), paths)
	if err != nil {
		return fmt.Errorf("full build: %w", err)
	}
	if err := engine.PersistWorkspaceRoot(root); err != nil {
		return fmt.Errorf("persist workspace root: %w", err)
	}
	if err := disk.SetMetadata("extractor_command", strings.Join(cfg.ExtractorCommand, " ")); err != nil {
		return fmt.Errorf("persist extractor command: %w", err)
	}

	if flagExtractTypes {
		if n, err := runExtractTypesInto(engine, root, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "warning: extract-types: %v\n", err)
		} else if !flagQuiet {
			fmt.Fprintf(os.Stderr, "Merged types for %d symbols\n", n)
		}
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "Indexed %d files (%d errored)\n", summary.FilesIndexed, len(summary.Errored))
	}
	for _, e := range summary.Errored {
		fmt.Fprintf(os.Stderr, "  %s: %v\n", e.Path, e.Err)
	}

	return emit(summary, func() {
		fmt.Printf("Indexed %d files, %d errors, %d warnings\n", summary.FilesIndexed, len(summary.Errored), len(summary.Warnings))
	})
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Incremental refresh of files changed since the last build",
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg := loadConfig(root)

	disk, err := openExistingIndex(root)
	if err != nil {
		return err
	}
	defer disk.Close()

	paths, err := walk.Discover(root, cfg)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	changes, err := disk.FindStaleFiles(paths)
	if err != nil {
		return fmt.Errorf("finding stale files: %w", err)
	}

	engine := refresh.New(disk, root, cfg.MaxDepth)
	updated, removed, failed := 0, 0, 0
	for _, c := range changes {
		if c.Reason == "deleted" {
			if err := engine.RemoveFile(c.Path); err != nil {
				fmt.Fprintf(os.Stderr, "  remove %s: %v\n", c.Path, err)
				failed++
				continue
			}
			removed++
			continue
		}
		if _, err := engine.RefreshFile(c.Path); err != nil {
			fmt.Fprintf(os.Stderr, "  refresh %s: %v\n", c.Path, err)
			failed++
			continue
		}
		updated++
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "Updated %d, removed %d, failed %d\n", updated, removed, failed)
	}

	return emit(map[string]int{"updated": updated, "removed": removed, "failed": failed}, func() {
		fmt.Printf("Updated %d, removed %d, failed %d\n", updated, removed, failed)
	})
}
