package extract

import (
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func init() {
	register("c", extractC)
}

func extractC(file string, source []byte, maxDepth int) schema.ParseResult {
	root, ok := parseSource("c", source)
	if !ok {
		return schema.ParseResult{}
	}
	var result schema.ParseResult
	collectSyntaxErrors(file, root, &result.Errors)

	c := &cExtractor{file: file, result: &result, maxDepth: maxDepth}
	c.walk(root, "", 0)
	return result
}

type cExtractor struct {
	file     string
	result   *schema.ParseResult
	maxDepth int
}

var cCommentKinds = map[string]bool{"comment": true}

func cStripComment(s string) string {
	s = strings.TrimPrefix(s, "//")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	return strings.TrimSpace(s)
}

// cVisibility: C has no module-private keyword; `static` at file scope is
// the conventional marker for internal linkage.
func cVisibility(n Node) schema.Visibility {
	for _, c := range n.NamedChildren() {
		if c.Kind() == "storage_class_specifier" && string(c.Text()) == "static" {
			return schema.Internal
		}
	}
	return schema.Public
}

func (c *cExtractor) walk(n Node, prefix string, depth int) {
	if depth > c.maxDepth {
		c.result.Warnings = append(c.result.Warnings, schema.ParseWarning{Message: "max recursion depth exceeded"})
		return
	}
	if n.IsError() {
		return
	}

	switch n.Kind() {
	case "preproc_include":
		c.extractInclude(n)
	case "function_definition":
		c.extractFunc(n, prefix)
		return
	case "struct_specifier":
		c.extractStruct(n, prefix)
	case "enum_specifier":
		c.extractEnum(n, prefix)
	case "type_definition":
		c.extractTypedef(n, prefix)
	case "call_expression":
		c.extractCallRef(n)
	}

	for _, child := range n.NamedChildren() {
		c.walk(child, prefix, depth+1)
	}
}

func (c *cExtractor) extractInclude(n Node) {
	line, _ := n.StartPoint()
	path := n.FieldByName("path")
	if path == nil {
		return
	}
	txt := strings.Trim(string(path.Text()), "\"<>")
	c.result.Opens = append(c.result.Opens, schema.Open{Path: txt, Line: line + 1})
}

func (c *cExtractor) extractFunc(n Node, prefix string) {
	declarator := n.FieldByName("declarator")
	name := cFunctionName(declarator)
	if name == "" {
		return
	}
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualify(name, prefix),
		Kind:       schema.KindFunction,
		Location:   toLocation(c.file, n),
		Visibility: cVisibility(n),
		Language:   "c",
		Parent:     prefix,
		Doc:        gatherDocComment(n, cCommentKinds, cStripComment),
		Signature:  cSignature(n),
	}
	c.result.Symbols = append(c.result.Symbols, sym)
}

// cFunctionName descends through pointer_declarator wrappers to the
// function_declarator's declarator field.
func cFunctionName(n Node) string {
	for n != nil {
		switch n.Kind() {
		case "function_declarator":
			if d := n.FieldByName("declarator"); d != nil {
				return cFunctionName(d)
			}
			return ""
		case "pointer_declarator":
			n = n.FieldByName("declarator")
		case "identifier":
			return string(n.Text())
		default:
			return ""
		}
	}
	return ""
}

func cSignature(n Node) string {
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

func (c *cExtractor) extractStruct(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return // anonymous struct, likely nested in a typedef
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       schema.KindRecord,
		Location:   toLocation(c.file, n),
		Visibility: schema.Public,
		Language:   "c",
		Parent:     prefix,
		Doc:        gatherDocComment(n, cCommentKinds, cStripComment),
	}
	c.result.Symbols = append(c.result.Symbols, sym)
	c.extractFields(n, qualified)
}

func (c *cExtractor) extractFields(structNode Node, parent string) {
	body := findChildKind(structNode, "field_declaration_list")
	if body == nil {
		return
	}
	for _, field := range body.NamedChildren() {
		if field.Kind() != "field_declaration" {
			continue
		}
		declarator := field.FieldByName("declarator")
		name := cFieldName(declarator)
		if name == "" {
			continue
		}
		c.result.Symbols = append(c.result.Symbols, schema.Symbol{
			Name:       name,
			Qualified:  qualify(name, parent),
			Kind:       schema.KindMember,
			Location:   toLocation(c.file, field),
			Visibility: schema.Public,
			Language:   "c",
			Parent:     parent,
		})
	}
}

func cFieldName(n Node) string {
	for n != nil {
		switch n.Kind() {
		case "pointer_declarator":
			n = n.FieldByName("declarator")
		case "array_declarator":
			n = n.FieldByName("declarator")
		case "field_identifier", "identifier":
			return string(n.Text())
		default:
			return ""
		}
	}
	return ""
}

func (c *cExtractor) extractEnum(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	qualified := prefix
	if nameNode != nil {
		name := string(nameNode.Text())
		qualified = qualify(name, prefix)
		c.result.Symbols = append(c.result.Symbols, schema.Symbol{
			Name:       name,
			Qualified:  qualified,
			Kind:       schema.KindUnion,
			Location:   toLocation(c.file, n),
			Visibility: schema.Public,
			Language:   "c",
			Parent:     prefix,
			Doc:        gatherDocComment(n, cCommentKinds, cStripComment),
		})
	}
	body := n.FieldByName("body")
	if body == nil {
		return
	}
	for _, enumerator := range body.NamedChildren() {
		if enumerator.Kind() != "enumerator" {
			continue
		}
		en := enumerator.FieldByName("name")
		if en == nil {
			continue
		}
		ename := string(en.Text())
		c.result.Symbols = append(c.result.Symbols, schema.Symbol{
			Name:       ename,
			Qualified:  qualify(ename, qualified),
			Kind:       schema.KindValue,
			Location:   toLocation(c.file, enumerator),
			Visibility: schema.Public,
			Language:   "c",
			Parent:     qualified,
		})
	}
}

func (c *cExtractor) extractTypedef(n Node, prefix string) {
	declarator := n.FieldByName("declarator")
	name := cFieldName(declarator)
	if name == "" {
		return
	}
	c.result.Symbols = append(c.result.Symbols, schema.Symbol{
		Name:       name,
		Qualified:  qualify(name, prefix),
		Kind:       schema.KindType,
		Location:   toLocation(c.file, n),
		Visibility: schema.Public,
		Language:   "c",
		Parent:     prefix,
		Doc:        gatherDocComment(n, cCommentKinds, cStripComment),
	})
	if typeNode := n.FieldByName("type"); typeNode != nil && typeNode.Kind() == "struct_specifier" {
		c.extractFields(typeNode, qualify(name, prefix))
	}
}

func (c *cExtractor) extractCallRef(n Node) {
	fn := n.FieldByName("function")
	if fn == nil {
		return
	}
	full := string(fn.Text())
	c.result.References = append(c.result.References, schema.Reference{Name: full, Location: toLocation(c.file, fn)})
	if fn.Kind() == "field_expression" {
		if field := fn.FieldByName("field"); field != nil {
			tail := string(field.Text())
			if tail != full {
				c.result.References = append(c.result.References, schema.Reference{Name: tail, Location: toLocation(c.file, field)})
			}
		}
	}
}
