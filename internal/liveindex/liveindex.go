// Package liveindex is the in-memory, query-optimized projection of the
// symbol schema: everything the disk index holds, plus lookups that only
// make sense held entirely in memory (per-file symbol and reference
// lists, file-order visibility, type-cache joins). It is rebuilt from a
// full parse or kept in step with incremental updates by the refresh
// engine; it is never itself the system of record — the disk index is.
package liveindex

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
	"github.com/rocket-tycoon/rocketindex/internal/typecache"
)

// Index holds every symbol, reference and open statement currently known,
// keyed for the lookups the resolver and LSP backend need. All stored file
// paths are relative to workspaceRoot; callers pass either form in and get
// relative paths back out, converting to absolute only at API boundaries
// via MakeLocationAbsolute.
type Index struct {
	workspaceRoot string

	// qualified name -> definitions, in insertion order. Multiple entries
	// support overloading (same file, repeat declarations) and shadowing
	// (same qualified name redeclared from a different file).
	definitions map[string][]schema.Symbol

	fileSymbols    map[string][]string
	fileReferences map[string][]schema.Reference
	fileOpens      map[string][]string
	moduleFiles    map[string][]string

	// fileOrder holds the compilation order of a project, most relevant to
	// F# (.fsproj), which is the only extractor in this set whose language
	// is compiled strictly top-to-bottom. Empty means no order is known:
	// every file can reference every other.
	fileOrder []string

	typeCache *typecache.Cache
}

// New creates an empty index with no workspace root set.
func New() *Index {
	return &Index{
		definitions:    make(map[string][]schema.Symbol),
		fileSymbols:    make(map[string][]string),
		fileReferences: make(map[string][]schema.Reference),
		fileOpens:      make(map[string][]string),
		moduleFiles:    make(map[string][]string),
	}
}

// NewWithRoot creates an empty index rooted at root.
func NewWithRoot(root string) *Index {
	idx := New()
	idx.workspaceRoot = root
	return idx
}

// SetWorkspaceRoot sets the workspace root, e.g. after deserializing an
// index built elsewhere.
func (idx *Index) SetWorkspaceRoot(root string) { idx.workspaceRoot = root }

// WorkspaceRoot returns the workspace root, or "" if unset.
func (idx *Index) WorkspaceRoot() string { return idx.workspaceRoot }

func (idx *Index) toRelative(path string) string {
	if idx.workspaceRoot == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(idx.workspaceRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func (idx *Index) toAbsolute(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if idx.workspaceRoot == "" {
		return path
	}
	return filepath.Join(idx.workspaceRoot, path)
}

// MakeLocationAbsolute converts a stored location's file path to absolute,
// for use with the file system or in LSP responses.
func (idx *Index) MakeLocationAbsolute(loc schema.Location) schema.Location {
	loc.File = idx.toAbsolute(loc.File)
	return loc
}

// AddSymbol records a definition. The symbol's location is rewritten to a
// workspace-relative path before storage. No deduplication is performed:
// repeated qualified names accumulate, supporting overloading and
// shadowing across files.
func (idx *Index) AddSymbol(sym schema.Symbol) {
	relFile := idx.toRelative(sym.Location.File)
	sym.Location.File = relFile

	idx.definitions[sym.Qualified] = append(idx.definitions[sym.Qualified], sym)
	idx.fileSymbols[relFile] = append(idx.fileSymbols[relFile], sym.Qualified)

	if module, _, ok := cutLastDot(sym.Qualified); ok {
		idx.moduleFiles[module] = append(idx.moduleFiles[module], relFile)
	}
}

// AddReference records a reference found in file.
func (idx *Index) AddReference(file string, ref schema.Reference) {
	relFile := idx.toRelative(file)
	ref.Location.File = idx.toRelative(ref.Location.File)
	idx.fileReferences[relFile] = append(idx.fileReferences[relFile], ref)
}

// AddOpen records an open/import/use statement for file.
func (idx *Index) AddOpen(file, module string) {
	relFile := idx.toRelative(file)
	idx.fileOpens[relFile] = append(idx.fileOpens[relFile], module)
}

// Get returns the most recently added symbol for qualified, or nil.
// Overloads and shadows resolve to the last writer.
func (idx *Index) Get(qualified string) *schema.Symbol {
	syms := idx.definitions[qualified]
	if len(syms) == 0 {
		return nil
	}
	last := syms[len(syms)-1]
	return &last
}

// GetAll returns every symbol recorded for qualified, in insertion order.
func (idx *Index) GetAll(qualified string) []schema.Symbol {
	return idx.definitions[qualified]
}

// GetAbsolute is Get with the location resolved to an absolute path.
func (idx *Index) GetAbsolute(qualified string) *schema.Symbol {
	sym := idx.Get(qualified)
	if sym == nil {
		return nil
	}
	resolved := *sym
	resolved.Location.File = idx.toAbsolute(resolved.Location.File)
	return &resolved
}

// SymbolsInFile returns every symbol defined in file, in the order their
// qualified names were recorded.
func (idx *Index) SymbolsInFile(file string) []schema.Symbol {
	relFile := idx.toRelative(file)
	names := idx.fileSymbols[relFile]
	if len(names) == 0 {
		return nil
	}
	symbols := make([]schema.Symbol, 0, len(names))
	for _, name := range names {
		symbols = append(symbols, idx.definitions[name]...)
	}
	return symbols
}

// ReferencesInFile returns every reference recorded in file.
func (idx *Index) ReferencesInFile(file string) []schema.Reference {
	return idx.fileReferences[idx.toRelative(file)]
}

// OpensForFile returns the module paths opened by file.
func (idx *Index) OpensForFile(file string) []string {
	return idx.fileOpens[idx.toRelative(file)]
}

// FindReferences returns every reference across the codebase that could
// plausibly name the given qualified symbol: its short name, its full
// qualified name, or — for receiver-dot/scope call syntax such as Go's
// `obj.Method()` or Rust/C's `Type::method()` — any reference whose
// trailing `.name` or `::name` component matches the symbol's short name.
func (idx *Index) FindReferences(qualified string) []schema.Reference {
	symbols := idx.definitions[qualified]
	if len(symbols) == 0 {
		return nil
	}
	shortName := symbols[0].Name
	dotSuffix := "." + shortName
	scopeSuffix := "::" + shortName

	var results []schema.Reference
	for _, refs := range idx.fileReferences {
		for _, ref := range refs {
			if ref.Name == shortName ||
				ref.Name == qualified ||
				strings.HasSuffix(ref.Name, dotSuffix) ||
				strings.HasSuffix(ref.Name, scopeSuffix) {
				results = append(results, ref)
			}
		}
	}
	return results
}

// Search matches pattern against every symbol, case-insensitively. A
// pattern containing `*` is treated as a simple glob (prefix, suffix, or
// both) against the short name only; otherwise it matches by prefix on the
// short name or substring on the qualified name.
func (idx *Index) Search(pattern string) []schema.Symbol {
	lower := strings.ToLower(pattern)
	isGlob := strings.Contains(pattern, "*")

	var results []schema.Symbol
	for _, syms := range idx.definitions {
		for _, sym := range syms {
			if matchesSearch(sym, pattern, lower, isGlob) {
				results = append(results, sym)
			}
		}
	}
	return results
}

func matchesSearch(sym schema.Symbol, pattern, lower string, isGlob bool) bool {
	name := strings.ToLower(sym.Name)
	if !isGlob {
		return strings.HasPrefix(name, lower) || strings.Contains(strings.ToLower(sym.Qualified), lower)
	}

	stripped := strings.ReplaceAll(lower, "*", "")
	switch {
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*"):
		return strings.Contains(name, stripped)
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(name, stripped)
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(name, stripped)
	default:
		return strings.Contains(name, stripped)
	}
}

// AllQualifiedNames returns every distinct qualified name in the index.
func (idx *Index) AllQualifiedNames() []string {
	names := make([]string, 0, len(idx.definitions))
	for name := range idx.definitions {
		names = append(names, name)
	}
	return names
}

// AllNamesForFuzzy returns every distinct short and qualified name, for
// fuzzy-suggestion candidate generation.
func (idx *Index) AllNamesForFuzzy() []string {
	seen := make(map[string]struct{})
	for _, syms := range idx.definitions {
		for _, sym := range syms {
			seen[sym.Name] = struct{}{}
			seen[sym.Qualified] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names
}

// ClearFile removes every row recorded for file — symbols, references and
// opens — ahead of re-indexing it. Qualified names whose definition list
// becomes empty are dropped entirely; qualified names still defined
// elsewhere keep their remaining entries.
func (idx *Index) ClearFile(file string) {
	relFile := idx.toRelative(file)

	if names, ok := idx.fileSymbols[relFile]; ok {
		for _, qualified := range names {
			remaining := idx.definitions[qualified][:0]
			for _, sym := range idx.definitions[qualified] {
				if sym.Location.File != relFile {
					remaining = append(remaining, sym)
				}
			}
			if len(remaining) == 0 {
				delete(idx.definitions, qualified)
			} else {
				idx.definitions[qualified] = remaining
			}
		}
		delete(idx.fileSymbols, relFile)
	}

	delete(idx.fileReferences, relFile)
	delete(idx.fileOpens, relFile)

	for module, files := range idx.moduleFiles {
		kept := files[:0]
		for _, f := range files {
			if f != relFile {
				kept = append(kept, f)
			}
		}
		if len(kept) == 0 {
			delete(idx.moduleFiles, module)
		} else {
			idx.moduleFiles[module] = kept
		}
	}
}

// SymbolsInModule returns every symbol whose qualified name starts with
// module's dotted prefix, or exactly equals module.
func (idx *Index) SymbolsInModule(module string) []schema.Symbol {
	prefix := module + "."
	var results []schema.Symbol
	for qualified, syms := range idx.definitions {
		if qualified == module || strings.HasPrefix(qualified, prefix) {
			results = append(results, syms...)
		}
	}
	return results
}

// SymbolCount returns the total number of indexed symbol definitions,
// counting each overload separately.
func (idx *Index) SymbolCount() int {
	total := 0
	for _, syms := range idx.definitions {
		total += len(syms)
	}
	return total
}

// FileCount returns the number of distinct indexed files.
func (idx *Index) FileCount() int { return len(idx.fileSymbols) }

// Files returns every indexed file, relative to the workspace root.
func (idx *Index) Files() []string {
	files := make([]string, 0, len(idx.fileSymbols))
	for f := range idx.fileSymbols {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// ContainsFile reports whether file has any indexed symbols.
func (idx *Index) ContainsFile(file string) bool {
	_, ok := idx.fileSymbols[idx.toRelative(file)]
	return ok
}

func cutLastDot(s string) (before, after string, found bool) {
	i := strings.LastIndexByte(s, '.')
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
