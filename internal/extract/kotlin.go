package extract

import (
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func init() {
	register("kotlin", extractKotlin)
}

func extractKotlin(file string, source []byte, maxDepth int) schema.ParseResult {
	root, ok := parseSource("kotlin", source)
	if !ok {
		return schema.ParseResult{}
	}
	var result schema.ParseResult
	collectSyntaxErrors(file, root, &result.Errors)

	k := &ktExtractor{file: file, result: &result, maxDepth: maxDepth}
	k.walk(root, "", 0)
	return result
}

type ktExtractor struct {
	file     string
	result   *schema.ParseResult
	maxDepth int
}

var ktCommentKinds = map[string]bool{"comment": true, "multiline_comment": true, "line_comment": true}

func ktStripComment(s string) string {
	s = strings.TrimPrefix(s, "///")
	s = strings.TrimPrefix(s, "//")
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	s = strings.TrimPrefix(strings.TrimSpace(s), "*")
	return strings.TrimSpace(s)
}

// ktVisibility maps Kotlin's default-public visibility rules: `private` and
// `internal` modifiers are explicit; unmarked declarations are Public.
func ktVisibility(n Node) schema.Visibility {
	mods := findChildKind(n, "modifiers")
	if mods == nil {
		return schema.Public
	}
	for _, c := range mods.NamedChildren() {
		switch string(c.Text()) {
		case "private":
			return schema.Private
		case "internal":
			return schema.Internal
		case "protected":
			return schema.Internal
		}
	}
	return schema.Public
}

func (k *ktExtractor) walk(n Node, prefix string, depth int) {
	if depth > k.maxDepth {
		k.result.Warnings = append(k.result.Warnings, schema.ParseWarning{Message: "max recursion depth exceeded"})
		return
	}
	if n.IsError() {
		return
	}

	switch n.Kind() {
	case "import_header":
		k.extractImport(n)
	case "package_header":
		if id := findChildKind(n, "identifier"); id != nil {
			k.result.ModulePath = string(id.Text())
		}
	case "class_declaration", "object_declaration":
		k.extractClass(n, prefix)
		return
	case "function_declaration":
		k.extractFunc(n, prefix)
		return
	case "property_declaration":
		k.extractProperty(n, prefix)
	case "call_expression":
		k.extractCallRef(n)
	}

	for _, c := range n.NamedChildren() {
		k.walk(c, prefix, depth+1)
	}
}

func (k *ktExtractor) extractImport(n Node) {
	line, _ := n.StartPoint()
	id := findChildKind(n, "identifier")
	if id == nil {
		return
	}
	k.result.Opens = append(k.result.Opens, schema.Open{Path: string(id.Text()), Line: line + 1})
}

func (k *ktExtractor) extractClass(n Node, prefix string) {
	nameNode := findChildKind(n, "type_identifier")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	isInterface := false
	for _, c := range n.NamedChildren() {
		if c.Kind() == "interface" {
			isInterface = true
		}
	}
	kind := schema.KindClass
	if isInterface {
		kind = schema.KindInterface
	}
	var mixins []string
	if delegation := findChildKind(n, "delegation_specifiers"); delegation != nil {
		for _, d := range delegation.NamedChildren() {
			mixins = append(mixins, strings.TrimSpace(string(d.Text())))
		}
	}
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       kind,
		Location:   toLocation(k.file, n),
		Visibility: ktVisibility(n),
		Language:   "kotlin",
		Parent:     prefix,
		Mixins:     mixins,
		Doc:        gatherDocComment(n, ktCommentKinds, ktStripComment),
	}
	k.result.Symbols = append(k.result.Symbols, sym)

	body := findChildKind(n, "class_body")
	if body == nil {
		return
	}
	for _, c := range body.NamedChildren() {
		k.walk(c, qualified, 1)
	}
}

func (k *ktExtractor) extractFunc(n Node, prefix string) {
	nameNode := findChildKind(n, "simple_identifier")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualify(name, prefix),
		Kind:       schema.KindFunction,
		Location:   toLocation(k.file, n),
		Visibility: ktVisibility(n),
		Language:   "kotlin",
		Parent:     prefix,
		Doc:        gatherDocComment(n, ktCommentKinds, ktStripComment),
		Signature:  ktSignature(n),
	}
	k.result.Symbols = append(k.result.Symbols, sym)

	if body := findChildKind(n, "function_body"); body != nil {
		for _, c := range body.NamedChildren() {
			k.walk(c, prefix, 1)
		}
	}
}

func ktSignature(n Node) string {
	body := findChildKind(n, "function_body")
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

func (k *ktExtractor) extractProperty(n Node, prefix string) {
	decl := findChildKind(n, "variable_declaration")
	if decl == nil {
		return
	}
	nameNode := findChildKind(decl, "simple_identifier")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	k.result.Symbols = append(k.result.Symbols, schema.Symbol{
		Name:       name,
		Qualified:  qualify(name, prefix),
		Kind:       schema.KindMember,
		Location:   toLocation(k.file, n),
		Visibility: ktVisibility(n),
		Language:   "kotlin",
		Parent:     prefix,
		Doc:        gatherDocComment(n, ktCommentKinds, ktStripComment),
	})
}

func (k *ktExtractor) extractCallRef(n Node) {
	fn := n.NamedChildren()
	if len(fn) == 0 {
		return
	}
	target := fn[0]
	full := string(target.Text())
	k.result.References = append(k.result.References, schema.Reference{Name: full, Location: toLocation(k.file, target)})
	if target.Kind() == "navigation_expression" {
		children := target.NamedChildren()
		if len(children) > 0 {
			tail := children[len(children)-1]
			tailName := string(tail.Text())
			if tailName != full {
				k.result.References = append(k.result.References, schema.Reference{Name: tailName, Location: toLocation(k.file, tail)})
			}
		}
	}
}
