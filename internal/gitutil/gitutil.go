// Package gitutil discovers source files the way a git checkout sees
// them — tracked, untracked-but-not-ignored — and answers blame/history
// questions about a single file. It falls back to a plain filesystem walk
// when the workspace isn't a git repository at all.
package gitutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository wraps a go-git repository rooted at a workspace.
type Repository struct {
	repo *git.Repository
	root string
}

// Open opens the git repository at root. Returns an error if root isn't a
// git working tree; callers should fall back to WalkFiles in that case.
func Open(root string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository at %s: %w", root, err)
	}
	return &Repository{repo: repo, root: root}, nil
}

// ListFiles returns every tracked and untracked-but-not-ignored file under
// the repository, as absolute paths. Mirrors `git ls-files --cached
// --others --exclude-standard` without shelling out.
func (r *Repository) ListFiles() ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}

	head, err := r.repo.Head()
	var tracked map[string]struct{}
	if err == nil {
		commit, err := r.repo.CommitObject(head.Hash())
		if err != nil {
			return nil, fmt.Errorf("resolve head commit: %w", err)
		}
		tree, err := commit.Tree()
		if err != nil {
			return nil, fmt.Errorf("read head tree: %w", err)
		}
		tracked = make(map[string]struct{})
		walker := object.NewTreeWalker(tree, true, nil)
		defer walker.Close()
		for {
			name, entry, err := walker.Next()
			if err != nil {
				break
			}
			if !entry.Mode.IsFile() {
				continue
			}
			tracked[name] = struct{}{}
		}
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("worktree status: %w", err)
	}

	var files []string
	for path := range tracked {
		files = append(files, filepath.Join(r.root, path))
	}
	for path, s := range status {
		if _, already := tracked[path]; already {
			continue
		}
		if s.Worktree == git.Untracked {
			files = append(files, filepath.Join(r.root, path))
		}
	}
	return files, nil
}

// BlameLine is one line of blame output.
type BlameLine struct {
	Line   int
	Author string
	Commit string
	Text   string
}

// Blame returns per-line authorship for path (relative to the repository
// root) at HEAD.
func (r *Repository) Blame(path string) ([]BlameLine, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve head: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("resolve head commit: %w", err)
	}

	result, err := git.Blame(commit, path)
	if err != nil {
		return nil, fmt.Errorf("blame %s: %w", path, err)
	}

	lines := make([]BlameLine, len(result.Lines))
	for i, l := range result.Lines {
		lines[i] = BlameLine{
			Line:   i + 1,
			Author: l.Author,
			Commit: l.Hash.String(),
			Text:   l.Text,
		}
	}
	return lines, nil
}

// HistoryEntry is one commit that touched a file.
type HistoryEntry struct {
	Hash    string
	Author  string
	Date    string
	Message string
}

// History returns the commits that touched path, most recent first,
// capped at limit (0 means unbounded).
func (r *Repository) History(path string, limit int) ([]HistoryEntry, error) {
	iter, err := r.repo.Log(&git.LogOptions{FileName: &path})
	if err != nil {
		return nil, fmt.Errorf("log %s: %w", path, err)
	}
	defer iter.Close()

	var entries []HistoryEntry
	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(entries) >= limit {
			return errStop
		}
		entries = append(entries, HistoryEntry{
			Hash:    c.Hash.String(),
			Author:  c.Author.Name,
			Date:    c.Author.When.Format("2006-01-02T15:04:05Z07:00"),
			Message: strings.TrimSpace(c.Message),
		})
		return nil
	})
	if err != nil && err != errStop {
		return nil, fmt.Errorf("walk log of %s: %w", path, err)
	}
	return entries, nil
}

var errStop = fmt.Errorf("history: limit reached")

// WalkFiles discovers source-eligible files by walking the filesystem,
// skipping hidden directories. Used when the workspace isn't a git
// repository.
func WalkFiles(root string, skipDir func(name string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || skipDir(d.Name())) {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}
