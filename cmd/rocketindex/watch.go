package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/rocket-tycoon/rocketindex/internal/refresh"
	"github.com/rocket-tycoon/rocketindex/internal/walk"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the workspace and incrementally refresh the index on change",
	RunE:  runWatch,
}

// runWatch drives the same incremental refresh the `update` command runs
// once, but continuously, reacting to fsnotify events instead of an
// mtime diff against the last build.
func runWatch(cmd *cobra.Command, args []string) error {
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

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	paths, err := walk.Discover(root, cfg)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	watchedDirs := map[string]bool{}
	for _, p := range paths {
		dir := filepath.Dir(p)
		if watchedDirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			fmt.Fprintf(os.Stderr, "warning: watch %s: %v\n", dir, err)
			continue
		}
		watchedDirs[dir] = true
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "Watching %d directories under %s\n", len(watchedDirs), root)
	}

	engine := refresh.New(disk, root, cfg.MaxDepth)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if err := handleWatchEvent(engine, event); err != nil {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", event.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func handleWatchEvent(engine *refresh.Engine, event fsnotify.Event) error {
	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "- %s\n", event.Name)
		}
		return engine.RemoveFile(event.Name)
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "~ %s\n", event.Name)
		}
		_, err := engine.RefreshFile(event.Name)
		return err
	default:
		return nil
	}
}
