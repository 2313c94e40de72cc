// Package resolve turns a bare or partially-qualified name into a symbol,
// and builds on that single operation to walk the call graph forward
// (spider), backward (reverse spider / callers), and to suggest near
// matches when resolution fails outright (fuzzy). All of it is read-only
// over the live index; nothing here mutates it.
package resolve

import (
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/diskindex"
	"github.com/rocket-tycoon/rocketindex/internal/fuzzy"
	"github.com/rocket-tycoon/rocketindex/internal/liveindex"
	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

// Resolver answers name-resolution and traversal queries against a live
// index, optionally consulting the disk index for cross-file reference
// lookups that the live index alone can't serve efficiently once data
// volume grows.
type Resolver struct {
	Live *liveindex.Index
	Disk *diskindex.Index
}

// New creates a resolver over the given live and disk indexes. Disk may be
// nil; reverse-spider traversal then falls back to the live index's own
// (less scalable) FindReferences.
func New(live *liveindex.Index, disk *diskindex.Index) *Resolver {
	return &Resolver{Live: live, Disk: disk}
}

// Resolve looks up query as seen from file f. It first tries query as
// already a qualified name; failing that, it splits query at the first
// separator, looks the head up against f's open statements, and descends
// from there. A bare name with no separator is tried under each of f's
// opens and then against the short names of symbols declared in f itself.
// Candidates reached through a qualified name or an open are filtered by
// compilation-order visibility when one is set.
func (r *Resolver) Resolve(query, f string) *schema.Symbol {
	if sym := r.Live.Get(query); sym != nil {
		if r.visible(f, sym) {
			return sym
		}
	}

	head, tail, ok := splitFirstSeparator(query)
	if !ok {
		tail = query
	}

	for _, open := range r.Live.OpensForFile(f) {
		candidate := open
		if head != "" {
			candidate = open + "." + head
		}
		qualified := candidate + "." + tail
		if sym := r.Live.Get(qualified); sym != nil && r.visible(f, sym) {
			return sym
		}
	}

	if !ok {
		for _, sym := range r.Live.SymbolsInFile(f) {
			if sym.Name == query {
				s := sym
				return &s
			}
		}
	}
	return nil
}

func (r *Resolver) visible(from string, sym *schema.Symbol) bool {
	return r.Live.CanReference(from, sym.Location.File)
}

// splitFirstSeparator splits query at its first '.' or '::', the two
// qualifier separators this symbol set's languages use.
func splitFirstSeparator(query string) (head, tail string, ok bool) {
	if i := strings.Index(query, "::"); i >= 0 {
		return query[:i], query[i+2:], true
	}
	if i := strings.IndexByte(query, '.'); i >= 0 {
		return query[:i], query[i+1:], true
	}
	return "", "", false
}

// Suggest returns the N closest names (by Levenshtein distance, default
// bound 3) to query when resolution misses outright.
func (r *Resolver) Suggest(query string, maxDistance, maxResults int) []fuzzy.Suggestion {
	if maxDistance <= 0 {
		maxDistance = 3
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return fuzzy.Find(query, r.Live.AllNamesForFuzzy(), maxDistance, maxResults)
}
