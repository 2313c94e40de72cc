package resolve

import (
	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

// SpiderNode is one discovered node in a spider traversal: the symbol
// itself and the depth at which it was first reached.
type SpiderNode struct {
	Symbol schema.Symbol
	Depth  int
}

// SpiderResult is the outcome of a forward or reverse spider walk.
type SpiderResult struct {
	Nodes      []SpiderNode
	Unresolved []string // reference names that could not be resolved to a symbol
}

// Spider performs a forward breadth-first traversal from entry, depth d:
// at each node it collects every reference whose source location falls
// inside that symbol's span, resolves each to a qualified name, and
// enqueues newly-discovered symbols at depth+1. References that don't
// resolve to a known symbol are recorded in Unresolved rather than halting
// the walk.
func (r *Resolver) Spider(entry string, depth int) SpiderResult {
	start := r.Live.Get(entry)
	if start == nil {
		return SpiderResult{}
	}
	return r.walk(*start, depth, r.calleesOf)
}

// Callers is reverse spider at depth 1: symbols that directly reference
// entry.
func (r *Resolver) Callers(entry string) SpiderResult {
	return r.ReverseSpider(entry, 1)
}

// ReverseSpider performs a backward breadth-first traversal from entry:
// at each node it finds every reference to that symbol across the
// codebase (via the disk index when available, the live index otherwise),
// then resolves each callsite back to its enclosing symbol by interval
// search within that reference's file.
func (r *Resolver) ReverseSpider(entry string, depth int) SpiderResult {
	start := r.Live.Get(entry)
	if start == nil {
		return SpiderResult{}
	}
	return r.walk(*start, depth, r.callersOf)
}

// walk is the shared breadth-first engine for both traversal directions;
// edges fn differs only in which direction it looks.
func (r *Resolver) walk(start schema.Symbol, depth int, edges func(schema.Symbol) ([]schema.Symbol, []string)) SpiderResult {
	visited := map[string]bool{start.Qualified: true}
	result := SpiderResult{Nodes: []SpiderNode{{Symbol: start, Depth: 0}}}

	frontier := []schema.Symbol{start}
	for d := 1; d <= depth && len(frontier) > 0; d++ {
		var next []schema.Symbol
		for _, sym := range frontier {
			neighbors, unresolved := edges(sym)
			result.Unresolved = append(result.Unresolved, unresolved...)
			for _, n := range neighbors {
				if visited[n.Qualified] {
					continue
				}
				visited[n.Qualified] = true
				result.Nodes = append(result.Nodes, SpiderNode{Symbol: n, Depth: d})
				next = append(next, n)
			}
		}
		frontier = next
	}

	return result
}

// calleesOf collects references located inside sym's own source range and
// resolves each to a symbol.
func (r *Resolver) calleesOf(sym schema.Symbol) ([]schema.Symbol, []string) {
	var callees []schema.Symbol
	var unresolved []string

	for _, ref := range r.Live.ReferencesInFile(sym.Location.File) {
		if !withinSpan(sym.Location, ref.Location.Line) {
			continue
		}
		if resolved := r.Resolve(ref.Name, sym.Location.File); resolved != nil {
			callees = append(callees, *resolved)
		} else {
			unresolved = append(unresolved, ref.Name)
		}
	}
	return callees, unresolved
}

// callersOf finds every reference to sym across the codebase, then
// resolves each callsite back to the symbol whose span encloses it.
func (r *Resolver) callersOf(sym schema.Symbol) ([]schema.Symbol, []string) {
	refs := r.findReferencesTo(sym.Qualified)

	var callers []schema.Symbol
	var unresolved []string
	for _, ref := range refs {
		if enclosing := r.enclosingSymbol(ref.Location.File, ref.Location.Line); enclosing != nil {
			callers = append(callers, *enclosing)
		} else {
			unresolved = append(unresolved, ref.Name)
		}
	}
	return callers, unresolved
}

// findReferencesTo prefers the disk index's indexed lookup when available
// (it scales to far more references than an in-memory linear scan would
// comfortably handle), falling back to the live index.
func (r *Resolver) findReferencesTo(qualified string) []schema.Reference {
	if r.Disk != nil {
		if refs, err := r.Disk.FindReferences(qualified); err == nil {
			return refs
		}
	}
	return r.Live.FindReferences(qualified)
}

// enclosingSymbol finds the narrowest symbol in file whose span contains
// line, by scanning the file's own symbol list — each file typically holds
// few enough symbols that this is cheaper than an interval tree.
func (r *Resolver) enclosingSymbol(file string, line int) *schema.Symbol {
	var best *schema.Symbol
	bestLines := -1

	for _, sym := range r.Live.SymbolsInFile(file) {
		if !withinSpan(sym.Location, line) {
			continue
		}
		lines, _ := sym.Location.Span()
		if best == nil || lines < bestLines {
			s := sym
			best = &s
			bestLines = lines
		}
	}
	return best
}

func withinSpan(loc schema.Location, line int) bool {
	return line >= loc.Line && line <= loc.EndLine
}
