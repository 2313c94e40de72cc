package extract

import (
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func init() {
	register("fsharp", extractFSharp)
}

// extractFSharp is written against the generic Node interface like every
// other extractor in this package, but no grammar ships for it in
// grammar.go: this pack's retrieval set has no go-tree-sitter binding for
// tree-sitter-fsharp. parseSource returns (nil, false) until a caller
// supplies one via RegisterGrammar, at which point this extractor runs
// unmodified — grammars are a pluggable parameter of the dispatcher, not a
// property of the extractor's logic.
func extractFSharp(file string, source []byte, maxDepth int) schema.ParseResult {
	root, ok := parseSource("fsharp", source)
	if !ok {
		return schema.ParseResult{}
	}
	var result schema.ParseResult
	collectSyntaxErrors(file, root, &result.Errors)

	f := &fsExtractor{file: file, result: &result, maxDepth: maxDepth}
	f.walk(root, "", 0)
	return result
}

type fsExtractor struct {
	file     string
	result   *schema.ParseResult
	maxDepth int
}

var fsCommentKinds = map[string]bool{"comment": true, "line_comment": true, "block_comment": true}

func fsStripComment(s string) string {
	s = strings.TrimPrefix(s, "///")
	s = strings.TrimPrefix(s, "//")
	s = strings.TrimPrefix(s, "(*")
	s = strings.TrimSuffix(s, "*)")
	return strings.TrimSpace(s)
}

// fsVisibility maps F#'s explicit access modifiers; declarations default
// to Public, matching the language's default accessibility.
func fsVisibility(n Node) schema.Visibility {
	for _, c := range n.NamedChildren() {
		switch c.Kind() {
		case "access_modifier":
			switch string(c.Text()) {
			case "private":
				return schema.Private
			case "internal":
				return schema.Internal
			}
		}
	}
	return schema.Public
}

func (f *fsExtractor) walk(n Node, prefix string, depth int) {
	if depth > f.maxDepth {
		f.result.Warnings = append(f.result.Warnings, schema.ParseWarning{Message: "max recursion depth exceeded"})
		return
	}
	if n.IsError() {
		return
	}

	switch n.Kind() {
	case "open_statement", "import_decl":
		f.extractOpen(n)
	case "namespace", "module_defn":
		f.extractModule(n, prefix)
		return
	case "function_or_value_defn", "value_declaration_left":
		f.extractBinding(n, prefix)
	case "type_definition":
		f.extractType(n, prefix)
	case "application_expression":
		f.extractCallRef(n)
	}

	for _, c := range n.NamedChildren() {
		f.walk(c, prefix, depth+1)
	}
}

func (f *fsExtractor) extractOpen(n Node) {
	line, _ := n.StartPoint()
	for _, c := range n.NamedChildren() {
		if c.Kind() == "long_identifier" || c.Kind() == "identifier" {
			f.result.Opens = append(f.result.Opens, schema.Open{Path: string(c.Text()), Line: line + 1})
			return
		}
	}
}

func (f *fsExtractor) extractModule(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	qualified := prefix
	if nameNode != nil {
		qualified = qualify(string(nameNode.Text()), prefix)
	}
	for _, c := range n.NamedChildren() {
		if c == nameNode {
			continue
		}
		f.walk(c, qualified, 1)
	}
}

func (f *fsExtractor) extractBinding(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		for _, c := range n.NamedChildren() {
			if c.Kind() == "identifier_pattern" || c.Kind() == "identifier" {
				nameNode = c
				break
			}
		}
	}
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	f.result.Symbols = append(f.result.Symbols, schema.Symbol{
		Name:       name,
		Qualified:  qualify(name, prefix),
		Kind:       schema.KindFunction,
		Location:   toLocation(f.file, n),
		Visibility: fsVisibility(n),
		Language:   "fsharp",
		Parent:     prefix,
		Doc:        gatherDocComment(n, fsCommentKinds, fsStripComment),
	})
}

func (f *fsExtractor) extractType(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	kind := schema.KindType
	isRecord := findChildKind(n, "record_fields") != nil
	isUnion := findChildKind(n, "union_type_cases") != nil
	switch {
	case isRecord:
		kind = schema.KindRecord
	case isUnion:
		kind = schema.KindUnion
	}
	f.result.Symbols = append(f.result.Symbols, schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       kind,
		Location:   toLocation(f.file, n),
		Visibility: fsVisibility(n),
		Language:   "fsharp",
		Parent:     prefix,
		Doc:        gatherDocComment(n, fsCommentKinds, fsStripComment),
	})

	if fields := findChildKind(n, "record_fields"); fields != nil {
		for _, field := range fields.NamedChildren() {
			fn := field.FieldByName("name")
			if fn == nil {
				continue
			}
			fname := string(fn.Text())
			f.result.Symbols = append(f.result.Symbols, schema.Symbol{
				Name:       fname,
				Qualified:  qualify(fname, qualified),
				Kind:       schema.KindMember,
				Location:   toLocation(f.file, field),
				Visibility: schema.Public,
				Language:   "fsharp",
				Parent:     qualified,
			})
		}
	}
	if cases := findChildKind(n, "union_type_cases"); cases != nil {
		for _, c := range cases.NamedChildren() {
			cn := c.FieldByName("name")
			if cn == nil {
				continue
			}
			cname := string(cn.Text())
			f.result.Symbols = append(f.result.Symbols, schema.Symbol{
				Name:       cname,
				Qualified:  qualify(cname, qualified),
				Kind:       schema.KindMember,
				Location:   toLocation(f.file, c),
				Visibility: schema.Public,
				Language:   "fsharp",
				Parent:     qualified,
			})
		}
	}
}

func (f *fsExtractor) extractCallRef(n Node) {
	children := n.NamedChildren()
	if len(children) == 0 {
		return
	}
	target := children[0]
	full := string(target.Text())
	f.result.References = append(f.result.References, schema.Reference{Name: full, Location: toLocation(f.file, target)})
	if target.Kind() == "long_identifier_or_op" || target.Kind() == "long_identifier" {
		parts := strings.Split(full, ".")
		tail := parts[len(parts)-1]
		if tail != full {
			f.result.References = append(f.result.References, schema.Reference{Name: tail, Location: toLocation(f.file, target)})
		}
	}
}
