package extract

import (
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func init() {
	register("python", extractPython)
}

func extractPython(file string, source []byte, maxDepth int) schema.ParseResult {
	root, ok := parseSource("python", source)
	if !ok {
		return schema.ParseResult{}
	}
	var result schema.ParseResult
	collectSyntaxErrors(file, root, &result.Errors)

	p := &pyExtractor{file: file, result: &result, maxDepth: maxDepth}
	p.walk(root, "", 0)
	return result
}

type pyExtractor struct {
	file     string
	result   *schema.ParseResult
	maxDepth int
}

// pythonVisibility follows the leading-underscore convention with a dunder
// exception: `__init__`-style names remain Public.
func pythonVisibility(name string) schema.Visibility {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return schema.Public
	}
	if strings.HasPrefix(name, "_") {
		return schema.Private
	}
	return schema.Public
}

func (p *pyExtractor) walk(n Node, prefix string, depth int) {
	if depth > p.maxDepth {
		p.result.Warnings = append(p.result.Warnings, schema.ParseWarning{Message: "max recursion depth exceeded"})
		return
	}
	if n.IsError() {
		return
	}

	switch n.Kind() {
	case "import_statement", "import_from_statement":
		p.extractImport(n)
	case "function_definition":
		p.extractFunc(n, prefix)
		return // body handled recursively by extractFunc under the function's qualified name
	case "class_definition":
		p.extractClass(n, prefix)
		return
	case "call":
		p.extractCallRef(n)
	case "attribute":
		if par := n.Parent(); par == nil || par.Kind() != "call" {
			p.extractAttrRef(n)
		}
	}

	for _, c := range n.NamedChildren() {
		p.walk(c, prefix, depth+1)
	}
}

func (p *pyExtractor) extractImport(n Node) {
	line, _ := n.StartPoint()
	switch n.Kind() {
	case "import_statement":
		for _, c := range n.NamedChildren() {
			if c.Kind() == "dotted_name" || c.Kind() == "aliased_import" {
				name := c
				if c.Kind() == "aliased_import" {
					if nm := c.FieldByName("name"); nm != nil {
						name = nm
					}
				}
				p.result.Opens = append(p.result.Opens, schema.Open{Path: string(name.Text()), Line: line + 1})
			}
		}
	case "import_from_statement":
		module := n.FieldByName("module_name")
		base := ""
		if module != nil {
			base = string(module.Text())
		}
		found := false
		for _, c := range n.NamedChildren() {
			if c.Kind() == "dotted_name" && c != module {
				found = true
				p.result.Opens = append(p.result.Opens, schema.Open{Path: base + "." + string(c.Text()), Line: line + 1})
			}
			if c.Kind() == "aliased_import" {
				found = true
				if nm := c.FieldByName("name"); nm != nil {
					p.result.Opens = append(p.result.Opens, schema.Open{Path: base + "." + string(nm.Text()), Line: line + 1})
				}
			}
		}
		if !found && base != "" {
			p.result.Opens = append(p.result.Opens, schema.Open{Path: base, Line: line + 1})
		}
	}
}

func (p *pyExtractor) extractFunc(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	kind := schema.KindFunction
	if prefix != "" {
		kind = schema.KindFunction
	}
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       kind,
		Location:   toLocation(p.file, n),
		Visibility: pythonVisibility(name),
		Language:   "python",
		Parent:     prefix,
		Doc:        pyDocstring(n),
		Attributes: pyDecorators(n),
		Signature:  pySignature(n),
	}
	p.result.Symbols = append(p.result.Symbols, sym)

	if body := n.FieldByName("body"); body != nil {
		for _, c := range body.NamedChildren() {
			p.walk(c, qualified, 1)
		}
	}
}

func pySignature(n Node) string {
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

func pyDecorators(n Node) []string {
	p := n.Parent()
	if p == nil || p.Kind() != "decorated_definition" {
		return nil
	}
	var decs []string
	for _, c := range p.NamedChildren() {
		if c.Kind() == "decorator" {
			txt := strings.TrimSpace(string(c.Text()))
			decs = append(decs, strings.TrimPrefix(txt, "@"))
		}
	}
	return decs
}

func pyDocstring(n Node) string {
	body := n.FieldByName("body")
	if body == nil {
		return ""
	}
	for _, c := range body.NamedChildren() {
		if c.Kind() == "expression_statement" {
			for _, s := range c.NamedChildren() {
				if s.Kind() == "string" {
					return strings.Trim(strings.TrimSpace(string(s.Text())), "\"'")
				}
			}
		}
		break
	}
	return ""
}

func (p *pyExtractor) extractClass(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	var mixins []string
	if args := n.FieldByName("superclasses"); args != nil {
		for _, c := range args.NamedChildren() {
			mixins = append(mixins, string(c.Text()))
		}
	}
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       schema.KindClass,
		Location:   toLocation(p.file, n),
		Visibility: pythonVisibility(name),
		Language:   "python",
		Parent:     prefix,
		Mixins:     mixins,
		Doc:        pyDocstring(n),
		Attributes: pyDecorators(n),
	}
	p.result.Symbols = append(p.result.Symbols, sym)

	if body := n.FieldByName("body"); body != nil {
		for _, c := range body.NamedChildren() {
			p.walk(c, qualified, 1)
		}
	}
}

func (p *pyExtractor) extractCallRef(n Node) {
	fn := n.FieldByName("function")
	if fn == nil {
		return
	}
	full := string(fn.Text())
	p.result.References = append(p.result.References, schema.Reference{Name: full, Location: toLocation(p.file, fn)})
	if fn.Kind() == "attribute" {
		if attr := fn.FieldByName("attribute"); attr != nil {
			tail := string(attr.Text())
			if tail != full {
				p.result.References = append(p.result.References, schema.Reference{Name: tail, Location: toLocation(p.file, attr)})
			}
		}
	}
}

func (p *pyExtractor) extractAttrRef(n Node) {
	full := string(n.Text())
	p.result.References = append(p.result.References, schema.Reference{Name: full, Location: toLocation(p.file, n)})
}
