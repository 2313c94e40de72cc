package extract

import (
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func init() {
	register("csharp", extractCSharp)
}

func extractCSharp(file string, source []byte, maxDepth int) schema.ParseResult {
	root, ok := parseSource("csharp", source)
	if !ok {
		return schema.ParseResult{}
	}
	var result schema.ParseResult
	collectSyntaxErrors(file, root, &result.Errors)

	cs := &csExtractor{file: file, result: &result, maxDepth: maxDepth}
	cs.walk(root, "", 0)
	return result
}

type csExtractor struct {
	file     string
	result   *schema.ParseResult
	maxDepth int
}

var csCommentKinds = map[string]bool{"comment": true}

func csStripComment(s string) string {
	s = strings.TrimPrefix(s, "///")
	s = strings.TrimPrefix(s, "//")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	return strings.TrimSpace(s)
}

// csVisibility maps the explicit C# access modifiers; absence of any
// modifier defaults to `internal` for top-level types, `private` for
// members — this extractor treats the unmarked case as Internal uniformly,
// the more common case in the member-heavy symbol set it emits.
func csVisibility(n Node) schema.Visibility {
	for _, c := range n.NamedChildren() {
		if c.Kind() != "modifier" {
			continue
		}
		switch string(c.Text()) {
		case "public":
			return schema.Public
		case "private":
			return schema.Private
		case "internal", "protected", "protected internal", "private protected":
			return schema.Internal
		}
	}
	return schema.Internal
}

func (cs *csExtractor) walk(n Node, prefix string, depth int) {
	if depth > cs.maxDepth {
		cs.result.Warnings = append(cs.result.Warnings, schema.ParseWarning{Message: "max recursion depth exceeded"})
		return
	}
	if n.IsError() {
		return
	}

	switch n.Kind() {
	case "using_directive":
		cs.extractUsing(n)
	case "namespace_declaration", "file_scoped_namespace_declaration":
		cs.extractNamespace(n, prefix)
		return
	case "class_declaration":
		cs.extractType(n, prefix, schema.KindClass)
		return
	case "interface_declaration":
		cs.extractType(n, prefix, schema.KindInterface)
		return
	case "struct_declaration":
		cs.extractType(n, prefix, schema.KindRecord)
		return
	case "enum_declaration":
		cs.extractEnum(n, prefix)
		return
	case "method_declaration", "constructor_declaration":
		cs.extractMethod(n, prefix)
		return
	case "property_declaration", "field_declaration":
		cs.extractField(n, prefix)
	case "invocation_expression":
		cs.extractCallRef(n)
	}

	for _, c := range n.NamedChildren() {
		cs.walk(c, prefix, depth+1)
	}
}

func (cs *csExtractor) extractUsing(n Node) {
	line, _ := n.StartPoint()
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	cs.result.Opens = append(cs.result.Opens, schema.Open{Path: string(nameNode.Text()), Line: line + 1})
}

func (cs *csExtractor) extractNamespace(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	qualified := prefix
	if nameNode != nil {
		qualified = qualify(string(nameNode.Text()), prefix)
	}
	body := n.FieldByName("body")
	if body != nil {
		for _, c := range body.NamedChildren() {
			cs.walk(c, qualified, 1)
		}
		return
	}
	for _, c := range n.NamedChildren() {
		if c == nameNode {
			continue
		}
		cs.walk(c, qualified, 1)
	}
}

func (cs *csExtractor) extractType(n Node, prefix string, kind schema.SymbolKind) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	var mixins, implements []string
	if base := n.FieldByName("bases"); base != nil {
		for i, t := range base.NamedChildren() {
			txt := string(t.Text())
			if kind == schema.KindInterface || i > 0 {
				implements = append(implements, txt)
			} else {
				mixins = append(mixins, txt)
			}
		}
	}
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       kind,
		Location:   toLocation(cs.file, n),
		Visibility: csVisibility(n),
		Language:   "csharp",
		Parent:     prefix,
		Mixins:     mixins,
		Implements: implements,
		Doc:        gatherDocComment(n, csCommentKinds, csStripComment),
	}
	cs.result.Symbols = append(cs.result.Symbols, sym)

	if body := n.FieldByName("body"); body != nil {
		for _, c := range body.NamedChildren() {
			cs.walk(c, qualified, 1)
		}
	}
}

func (cs *csExtractor) extractEnum(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	cs.result.Symbols = append(cs.result.Symbols, schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       schema.KindUnion,
		Location:   toLocation(cs.file, n),
		Visibility: csVisibility(n),
		Language:   "csharp",
		Parent:     prefix,
		Doc:        gatherDocComment(n, csCommentKinds, csStripComment),
	})
	body := n.FieldByName("body")
	if body == nil {
		return
	}
	for _, member := range body.NamedChildren() {
		if member.Kind() != "enum_member_declaration" {
			continue
		}
		mn := member.FieldByName("name")
		if mn == nil {
			continue
		}
		mname := string(mn.Text())
		cs.result.Symbols = append(cs.result.Symbols, schema.Symbol{
			Name:       mname,
			Qualified:  qualify(mname, qualified),
			Kind:       schema.KindValue,
			Location:   toLocation(cs.file, member),
			Visibility: schema.Public,
			Language:   "csharp",
			Parent:     qualified,
		})
	}
}

func (cs *csExtractor) extractMethod(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualify(name, prefix),
		Kind:       schema.KindFunction,
		Location:   toLocation(cs.file, n),
		Visibility: csVisibility(n),
		Language:   "csharp",
		Parent:     prefix,
		Doc:        gatherDocComment(n, csCommentKinds, csStripComment),
		Signature:  csSignature(n),
	}
	cs.result.Symbols = append(cs.result.Symbols, sym)

	if body := n.FieldByName("body"); body != nil {
		for _, c := range body.NamedChildren() {
			cs.walk(c, prefix, 1)
		}
	}
}

func csSignature(n Node) string {
	body := n.FieldByName("body")
	full := n.Text()
	if body == nil {
		return strings.TrimSpace(string(full))
	}
	idx := len(full) - len(body.Text())
	if idx < 0 || idx > len(full) {
		return strings.TrimSpace(string(full))
	}
	return strings.TrimSpace(string(full[:idx]))
}

func (cs *csExtractor) extractField(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		for _, c := range n.NamedChildren() {
			if c.Kind() == "variable_declaration" {
				for _, d := range c.NamedChildren() {
					if d.Kind() == "variable_declarator" {
						if dn := d.FieldByName("name"); dn != nil {
							cs.emitField(dn, n, prefix)
						}
					}
				}
			}
		}
		return
	}
	cs.emitField(nameNode, n, prefix)
}

func (cs *csExtractor) emitField(nameNode, declNode Node, prefix string) {
	name := string(nameNode.Text())
	cs.result.Symbols = append(cs.result.Symbols, schema.Symbol{
		Name:       name,
		Qualified:  qualify(name, prefix),
		Kind:       schema.KindMember,
		Location:   toLocation(cs.file, declNode),
		Visibility: csVisibility(declNode),
		Language:   "csharp",
		Parent:     prefix,
	})
}

func (cs *csExtractor) extractCallRef(n Node) {
	fn := n.FieldByName("function")
	if fn == nil {
		return
	}
	full := string(fn.Text())
	cs.result.References = append(cs.result.References, schema.Reference{Name: full, Location: toLocation(cs.file, fn)})
	if fn.Kind() == "member_access_expression" {
		if name := fn.FieldByName("name"); name != nil {
			tail := string(name.Text())
			if tail != full {
				cs.result.References = append(cs.result.References, schema.Reference{Name: tail, Location: toLocation(cs.file, name)})
			}
		}
	}
}
