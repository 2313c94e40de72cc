package extract

import (
	"fmt"
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

// DefaultMaxDepth is the recursion budget an extractor falls back to when
// none is supplied.
const DefaultMaxDepth = 500

// helperMaxDepth bounds the small recursive helpers (doc-comment walking,
// signature text assembly) independently of the main descent budget, so a
// pathologically nested comment or expression can't blow the stack even
// when the caller raised the main walk's limit.
const helperMaxDepth = 200

// toLocation converts a node's 0-indexed tree-sitter (row, col) span to a
// 1-indexed schema.Location.
func toLocation(file string, n Node) schema.Location {
	sr, sc := n.StartPoint()
	er, ec := n.EndPoint()
	return schema.Location{
		File:      file,
		Line:      sr + 1,
		Column:    sc + 1,
		EndLine:   er + 1,
		EndColumn: ec + 1,
	}
}

// parseSource parses source with the pooled parser for language and returns
// the root node wrapped for extractor consumption. Returns (nil, false) if
// no grammar is registered or the parser fails outright.
func parseSource(language string, source []byte) (Node, bool) {
	parser := pools.get(language)
	if parser == nil {
		return nil, false
	}
	defer pools.put(language, parser)

	tree, err := parser.ParseCtx(nil, nil, source)
	if err != nil || tree == nil {
		return nil, false
	}
	root := tree.RootNode()
	if root == nil {
		return nil, false
	}
	return wrap(root, source, nil), true
}

// collectSyntaxErrors walks the tree collecting diagnostics: the
// root-level ERROR node is descended into (its children may still be
// valid); non-root ERROR nodes stop descent for symbol extraction but
// contribute a message derived from parent context. MISSING nodes produce
// "Expected <kind>". Only this diagnostic walk descends into a root ERROR
// node: the per-language symbol walks stop at every ERROR node, the root
// one included.
func collectSyntaxErrors(file string, root Node, errs *[]schema.SyntaxError) {
	var walk func(n Node, isRoot bool, depth int)
	walk = func(n Node, isRoot bool, depth int) {
		if depth > helperMaxDepth {
			return
		}
		if n.IsMissing() {
			*errs = append(*errs, schema.SyntaxError{
				Message:  fmt.Sprintf("Expected %s", n.Kind()),
				Location: toLocation(file, n),
			})
			return
		}
		if n.IsError() && !isRoot {
			excerpt := excerptText(n)
			parentCtx := "expression"
			if p := n.Parent(); p != nil {
				parentCtx = p.Kind()
			}
			*errs = append(*errs, schema.SyntaxError{
				Message:  fmt.Sprintf("Syntax error in %s near '%s'", parentCtx, excerpt),
				Location: toLocation(file, n),
			})
			return
		}
		for _, c := range n.Children() {
			walk(c, false, depth+1)
		}
	}
	walk(root, true, 0)
}

func excerptText(n Node) string {
	t := strings.TrimSpace(string(n.Text()))
	if len(t) > 40 {
		t = t[:40]
	}
	return t
}

// gatherDocComment walks sibling nodes backwards through comment-only
// siblings immediately preceding n, joining their text. commentKinds names
// the node kinds that count as comments for this language.
func gatherDocComment(n Node, commentKinds map[string]bool, strip func(string) string) string {
	var lines []string
	depth := 0
	cur := n.PrevSibling()
	for cur != nil && depth < helperMaxDepth {
		depth++
		if !commentKinds[cur.Kind()] {
			break
		}
		lines = append([]string{strip(string(cur.Text()))}, lines...)
		cur = cur.PrevSibling()
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractorFunc is the contract of a single per-language extractor.
type extractorFunc func(file string, source []byte, maxDepth int) schema.ParseResult

// registry maps canonical language name to its extractor implementation.
// Populated by each language file's init().
var registry = map[string]extractorFunc{}

func register(language string, fn extractorFunc) {
	registry[language] = fn
}
