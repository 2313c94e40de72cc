// Package refresh brings the disk and live indexes to a state that
// matches the workspace file tree, either by reindexing everything from
// scratch or by applying a single file's change incrementally. It runs a
// three-phase pipeline: parse files in parallel, then commit symbols,
// references and opens into both indexes serially.
package refresh

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/rocket-tycoon/rocketindex/internal/diskindex"
	"github.com/rocket-tycoon/rocketindex/internal/extract"
	"github.com/rocket-tycoon/rocketindex/internal/liveindex"
	"github.com/rocket-tycoon/rocketindex/internal/schema"
	"github.com/rocket-tycoon/rocketindex/internal/typecache"
)

// FileResult records the outcome of extracting a single file.
type FileResult struct {
	Path    string
	Result  schema.ParseResult
	Err     error
	Mtime   int64
	Skipped bool // language unsupported or excluded by config
}

// Summary is returned by a full build, recording what happened per file.
type Summary struct {
	FilesIndexed int
	Errored      []FileResult
	Warnings     []schema.ParseWarning
}

// Engine owns the disk index, the live index, and the recursion depth
// budget handed to the dispatcher.
type Engine struct {
	Disk     *diskindex.Index
	Live     *liveindex.Index
	MaxDepth int
}

// New wires an engine over an already-open disk index and a fresh live
// index rooted at workspaceRoot.
func New(disk *diskindex.Index, workspaceRoot string, maxDepth int) *Engine {
	return &Engine{
		Disk:     disk,
		Live:     liveindex.NewWithRoot(workspaceRoot),
		MaxDepth: maxDepth,
	}
}

// FullBuild discovers nothing itself — paths is supplied by the caller's
// file walker (respecting project exclusions) — and reindexes every given
// file from scratch: parse in parallel, then bulk-insert into a freshly
// recreated disk database using the atomic per-file update contract.
func (e *Engine) FullBuild(ctx context.Context, paths []string) (Summary, error) {
	results := e.parseParallel(ctx, paths)

	var summary Summary
	for _, r := range results {
		if r.Skipped {
			continue
		}
		if r.Err != nil {
			summary.Errored = append(summary.Errored, r)
			continue
		}

		if err := e.Disk.UpdateFileData(r.Path, r.Result.Symbols, r.Result.References, r.Result.Opens); err != nil {
			r.Err = fmt.Errorf("write %s to disk index: %w", r.Path, err)
			summary.Errored = append(summary.Errored, r)
			continue
		}
		if err := e.Disk.SetFileMtime(r.Path, r.Mtime); err != nil {
			return summary, fmt.Errorf("record mtime for %s: %w", r.Path, err)
		}

		e.Live.ClearFile(r.Path)
		for _, sym := range r.Result.Symbols {
			e.Live.AddSymbol(sym)
		}
		for _, ref := range r.Result.References {
			e.Live.AddReference(r.Path, ref)
		}
		for _, open := range r.Result.Opens {
			e.Live.AddOpen(r.Path, open.Path)
		}

		summary.Warnings = append(summary.Warnings, r.Result.Warnings...)
		summary.FilesIndexed++
	}

	return summary, nil
}

// parseParallel runs the dispatcher over paths using a worker per CPU.
// Each worker only touches its own FileResult slot; there is no shared
// mutable state to guard during extraction itself.
func (e *Engine) parseParallel(ctx context.Context, paths []string) []FileResult {
	results := make([]FileResult, len(paths))

	numWorkers := runtime.NumCPU()
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	indices := make(chan int, len(paths))
	for i := range paths {
		indices <- i
	}
	close(indices)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				select {
				case <-ctx.Done():
					results[i] = FileResult{Path: paths[i], Err: ctx.Err()}
					continue
				default:
				}
				results[i] = e.parseFile(paths[i])
			}
		}()
	}
	wg.Wait()
	return results
}

func (e *Engine) parseFile(path string) FileResult {
	if _, ok := extract.LanguageForFile(path); !ok {
		return FileResult{Path: path, Skipped: true}
	}

	info, err := os.Stat(path)
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("stat %s: %w", path, err)}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
	}

	result := extract.Extract(path, source, e.MaxDepth)
	return FileResult{
		Path:   path,
		Result: result,
		Mtime:  info.ModTime().Unix(),
	}
}

// RefreshFile applies an incremental update for a single changed file: the
// save/watch-triggered flow. It re-parses the file, replaces its rows in
// both indexes atomically, and records the new mtime.
func (e *Engine) RefreshFile(path string) (schema.ParseResult, error) {
	r := e.parseFile(path)
	if r.Skipped {
		return schema.ParseResult{}, nil
	}
	if r.Err != nil {
		return schema.ParseResult{}, r.Err
	}

	e.Live.ClearFile(path)
	for _, sym := range r.Result.Symbols {
		e.Live.AddSymbol(sym)
	}
	for _, ref := range r.Result.References {
		e.Live.AddReference(path, ref)
	}
	for _, open := range r.Result.Opens {
		e.Live.AddOpen(path, open.Path)
	}

	if err := e.Disk.UpdateFileData(path, r.Result.Symbols, r.Result.References, r.Result.Opens); err != nil {
		return schema.ParseResult{}, fmt.Errorf("update disk index for %s: %w", path, err)
	}
	if err := e.Disk.SetFileMtime(path, r.Mtime); err != nil {
		return schema.ParseResult{}, fmt.Errorf("record mtime for %s: %w", path, err)
	}

	return r.Result, nil
}

// RemoveFile applies the deletion branch of the incremental flow: drop the
// file from both indexes and its mtime row.
func (e *Engine) RemoveFile(path string) error {
	e.Live.ClearFile(path)
	if err := e.Disk.ClearFile(path); err != nil {
		return fmt.Errorf("clear disk index for %s: %w", path, err)
	}
	return nil
}

// PersistWorkspaceRoot records the workspace root in disk-index metadata,
// so a later process reopening the index (e.g. the LSP server) can
// recover it without being told again.
func (e *Engine) PersistWorkspaceRoot(root string) error {
	return e.Disk.SetMetadata("workspace_root", root)
}

// MergeTypeCache applies cache's type signatures to the disk index's
// symbols.type_signature column and attaches cache to the live index for
// type-aware hover/completion. It reports how many symbols were updated.
func (e *Engine) MergeTypeCache(cache *typecache.Cache) (int, error) {
	updated := 0
	for qualified, typ := range cache.AllTypes() {
		n, err := e.Disk.UpdateSymbolType(qualified, typ)
		if err != nil {
			return updated, fmt.Errorf("merge type for %s: %w", qualified, err)
		}
		updated += int(n)
	}
	e.Live.SetTypeCache(cache)
	return updated, nil
}

// PersistCompilationOrder stores an ordered file list (F#'s .fsproj
// compile order) in metadata, newline-joined.
func (e *Engine) PersistCompilationOrder(files []string) error {
	joined := ""
	for i, f := range files {
		if i > 0 {
			joined += "\n"
		}
		joined += f
	}
	return e.Disk.SetMetadata("file_order", joined)
}
