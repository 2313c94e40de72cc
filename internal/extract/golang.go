package extract

import (
	"strings"
	"unicode"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func init() {
	register("go", extractGo)
}

var goCommentKinds = map[string]bool{"comment": true}

func goStripComment(s string) string {
	s = strings.TrimPrefix(s, "//")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	return strings.TrimSpace(s)
}

func extractGo(file string, source []byte, maxDepth int) schema.ParseResult {
	root, ok := parseSource("go", source)
	if !ok {
		return schema.ParseResult{}
	}
	var result schema.ParseResult
	collectSyntaxErrors(file, root, &result.Errors)

	g := &goExtractor{file: file, source: source, result: &result, maxDepth: maxDepth}
	g.walk(root, "", 0)
	return result
}

type goExtractor struct {
	file     string
	source   []byte
	result   *schema.ParseResult
	maxDepth int
}

func goVisibility(name string) schema.Visibility {
	if name == "" {
		return schema.Private
	}
	r := []rune(name)[0]
	if unicode.IsUpper(r) {
		return schema.Public
	}
	return schema.Private
}

func qualify(name, prefix string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func (g *goExtractor) walk(n Node, modulePrefix string, depth int) {
	if depth > g.maxDepth {
		g.result.Warnings = append(g.result.Warnings, schema.ParseWarning{
			Message: "max recursion depth exceeded",
		})
		return
	}
	if n.IsError() {
		return
	}

	switch n.Kind() {
	case "package_clause":
		if id := n.FieldByName("name"); id != nil {
			g.result.ModulePath = string(id.Text())
		}
	case "import_declaration":
		g.extractImports(n)
	case "function_declaration":
		g.extractFunc(n, modulePrefix, false)
	case "method_declaration":
		g.extractFunc(n, modulePrefix, true)
	case "type_declaration":
		g.extractTypeDecl(n, modulePrefix)
	case "const_declaration", "var_declaration":
		g.extractValueDecl(n, modulePrefix)
	case "call_expression", "selector_expression":
		g.extractReference(n)
	}

	for _, c := range n.NamedChildren() {
		g.walk(c, modulePrefix, depth+1)
	}
}

func (g *goExtractor) extractImports(n Node) {
	for _, spec := range n.NamedChildren() {
		g.extractImportSpec(spec)
	}
}

func (g *goExtractor) extractImportSpec(spec Node) {
	if spec.Kind() == "import_spec_list" {
		for _, c := range spec.NamedChildren() {
			g.extractImportSpec(c)
		}
		return
	}
	if spec.Kind() != "import_spec" {
		return
	}
	pathNode := spec.FieldByName("path")
	if pathNode == nil {
		return
	}
	line, _ := pathNode.StartPoint()
	path := strings.Trim(string(pathNode.Text()), "\"`")
	g.result.Opens = append(g.result.Opens, schema.Open{Path: path, Line: line + 1})
}

func (g *goExtractor) extractFunc(n Node, prefix string, isMethod bool) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	parent := ""
	if isMethod {
		if recv := n.FieldByName("receiver"); recv != nil {
			parent = goReceiverType(recv)
		}
	}
	qualified := qualify(name, prefix)
	if parent != "" {
		qualified = qualify(name, parent)
	}
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       schema.KindFunction,
		Location:   toLocation(g.file, n),
		Visibility: goVisibility(name),
		Language:   "go",
		Parent:     parent,
		Doc:        gatherDocComment(n, goCommentKinds, goStripComment),
		Signature:  goSignature(n),
	}
	g.result.Symbols = append(g.result.Symbols, sym)
}

func goReceiverType(recv Node) string {
	for _, param := range recv.NamedChildren() {
		if t := param.FieldByName("type"); t != nil {
			txt := string(t.Text())
			txt = strings.TrimPrefix(txt, "*")
			return txt
		}
	}
	return ""
}

func goSignature(n Node) string {
	bodyNode := n.FieldByName("body")
	text := string(n.Text())
	if bodyNode == nil {
		return strings.TrimSpace(text)
	}
	sr, _ := n.StartPoint()
	br, _ := bodyNode.StartPoint()
	_ = sr
	_ = br
	// Slice text up to the body's start relative to the node's own text.
	full := n.Text()
	bodyStartByte := len(full) - len(bodyNode.Text())
	if bodyStartByte < 0 || bodyStartByte > len(full) {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(string(full[:bodyStartByte]))
}

func (g *goExtractor) extractTypeDecl(n Node, prefix string) {
	for _, spec := range n.NamedChildren() {
		if spec.Kind() != "type_spec" {
			continue
		}
		nameNode := spec.FieldByName("name")
		if nameNode == nil {
			continue
		}
		name := string(nameNode.Text())
		qualified := qualify(name, prefix)
		typeNode := spec.FieldByName("type")
		kind := schema.KindType
		var mixins, implements []string
		if typeNode != nil {
			switch typeNode.Kind() {
			case "struct_type":
				kind = schema.KindClass
				mixins = goStructMixins(typeNode)
				g.extractStructFields(typeNode, qualified)
			case "interface_type":
				kind = schema.KindInterface
				implements = goInterfaceEmbeds(typeNode)
				g.extractInterfaceMethods(typeNode, qualified)
			}
		}
		sym := schema.Symbol{
			Name:       name,
			Qualified:  qualified,
			Kind:       kind,
			Location:   toLocation(g.file, spec),
			Visibility: goVisibility(name),
			Language:   "go",
			Parent:     prefix,
			Mixins:     mixins,
			Implements: implements,
			Doc:        gatherDocComment(n, goCommentKinds, goStripComment),
		}
		g.result.Symbols = append(g.result.Symbols, sym)
	}
}

func goStructMixins(structType Node) []string {
	var mixins []string
	body := findChildKind(structType, "field_declaration_list")
	if body == nil {
		return nil
	}
	for _, field := range body.NamedChildren() {
		if field.Kind() != "field_declaration" {
			continue
		}
		if field.FieldByName("name") != nil {
			continue // has an explicit name: not embedded
		}
		if t := field.FieldByName("type"); t != nil {
			txt := strings.TrimPrefix(string(t.Text()), "*")
			mixins = append(mixins, txt)
		}
	}
	return mixins
}

func goInterfaceEmbeds(ifaceType Node) []string {
	var embeds []string
	for _, c := range ifaceType.NamedChildren() {
		if c.Kind() == "type_identifier" || c.Kind() == "qualified_type" {
			embeds = append(embeds, string(c.Text()))
		}
	}
	return embeds
}

func (g *goExtractor) extractStructFields(structType Node, parent string) {
	body := findChildKind(structType, "field_declaration_list")
	if body == nil {
		return
	}
	for _, field := range body.NamedChildren() {
		if field.Kind() != "field_declaration" {
			continue
		}
		nameNode := field.FieldByName("name")
		var name string
		if nameNode != nil {
			name = string(nameNode.Text())
		} else if t := field.FieldByName("type"); t != nil {
			// Embedded field: name = pointed-to type's short name.
			txt := strings.TrimPrefix(string(t.Text()), "*")
			parts := strings.Split(txt, ".")
			name = parts[len(parts)-1]
		}
		if name == "" {
			continue
		}
		sym := schema.Symbol{
			Name:       name,
			Qualified:  qualify(name, parent),
			Kind:       schema.KindMember,
			Location:   toLocation(g.file, field),
			Visibility: goVisibility(name),
			Language:   "go",
			Parent:     parent,
		}
		g.result.Symbols = append(g.result.Symbols, sym)
	}
}

func (g *goExtractor) extractInterfaceMethods(ifaceType Node, parent string) {
	for _, c := range ifaceType.NamedChildren() {
		if c.Kind() != "method_spec" {
			continue
		}
		nameNode := c.FieldByName("name")
		if nameNode == nil {
			continue
		}
		name := string(nameNode.Text())
		sym := schema.Symbol{
			Name:       name,
			Qualified:  qualify(name, parent),
			Kind:       schema.KindFunction,
			Location:   toLocation(g.file, c),
			Visibility: goVisibility(name),
			Language:   "go",
			Parent:     parent,
		}
		g.result.Symbols = append(g.result.Symbols, sym)
	}
}

func (g *goExtractor) extractValueDecl(n Node, prefix string) {
	for _, spec := range n.NamedChildren() {
		if spec.Kind() != "const_spec" && spec.Kind() != "var_spec" {
			continue
		}
		for _, nameNode := range spec.NamedChildren() {
			if nameNode.Kind() != "identifier" {
				continue
			}
			name := string(nameNode.Text())
			sym := schema.Symbol{
				Name:       name,
				Qualified:  qualify(name, prefix),
				Kind:       schema.KindValue,
				Location:   toLocation(g.file, nameNode),
				Visibility: goVisibility(name),
				Language:   "go",
				Parent:     prefix,
			}
			g.result.Symbols = append(g.result.Symbols, sym)
		}
	}
}

func (g *goExtractor) extractReference(n Node) {
	switch n.Kind() {
	case "call_expression":
		fn := n.FieldByName("function")
		if fn == nil {
			return
		}
		g.emitRefFromExpr(fn)
	case "selector_expression":
		if p := n.Parent(); p != nil && p.Kind() == "call_expression" {
			return // handled via call_expression's function field
		}
		g.emitRefFromExpr(n)
	}
}

// emitRefFromExpr emits both the full dotted reference and the tail name
// for qualified call targets.
func (g *goExtractor) emitRefFromExpr(n Node) {
	full := string(n.Text())
	loc := toLocation(g.file, n)
	g.result.References = append(g.result.References, schema.Reference{Name: full, Location: loc})
	if n.Kind() == "selector_expression" {
		if field := n.FieldByName("field"); field != nil {
			tail := string(field.Text())
			if tail != full {
				g.result.References = append(g.result.References, schema.Reference{
					Name:     tail,
					Location: toLocation(g.file, field),
				})
			}
		}
	}
}

func findChildKind(n Node, kind string) Node {
	for _, c := range n.NamedChildren() {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}
