package extract

import (
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func init() {
	register("rust", extractRust)
}

func extractRust(file string, source []byte, maxDepth int) schema.ParseResult {
	root, ok := parseSource("rust", source)
	if !ok {
		return schema.ParseResult{}
	}
	var result schema.ParseResult
	collectSyntaxErrors(file, root, &result.Errors)

	r := &rustExtractor{file: file, result: &result, maxDepth: maxDepth}
	r.walk(root, "", 0)
	return result
}

type rustExtractor struct {
	file     string
	result   *schema.ParseResult
	maxDepth int
}

var rustCommentKinds = map[string]bool{"line_comment": true, "block_comment": true}

func rustStripComment(s string) string {
	s = strings.TrimPrefix(s, "///")
	s = strings.TrimPrefix(s, "//!")
	s = strings.TrimPrefix(s, "//")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	return strings.TrimSpace(s)
}

// rustVisibility: `pub` makes a symbol Public; `pub(crate)` is Internal;
// anything else defaults to module-private.
func rustVisibility(n Node) schema.Visibility {
	vis := findChildKind(n, "visibility_modifier")
	if vis == nil {
		return schema.Private
	}
	txt := string(vis.Text())
	if strings.Contains(txt, "crate") || strings.Contains(txt, "super") {
		return schema.Internal
	}
	return schema.Public
}

func (r *rustExtractor) walk(n Node, prefix string, depth int) {
	if depth > r.maxDepth {
		r.result.Warnings = append(r.result.Warnings, schema.ParseWarning{Message: "max recursion depth exceeded"})
		return
	}
	if n.IsError() {
		return
	}

	switch n.Kind() {
	case "use_declaration":
		r.extractUse(n)
	case "mod_item":
		r.extractMod(n, prefix)
		return
	case "function_item":
		r.extractFunc(n, prefix, "")
		return
	case "struct_item":
		r.extractStruct(n, prefix)
	case "enum_item":
		r.extractEnum(n, prefix)
	case "trait_item":
		r.extractTrait(n, prefix)
		return
	case "impl_item":
		r.extractImpl(n, prefix)
		return
	case "call_expression":
		r.extractCallRef(n)
	}

	for _, c := range n.NamedChildren() {
		r.walk(c, prefix, depth+1)
	}
}

func (r *rustExtractor) extractUse(n Node) {
	line, _ := n.StartPoint()
	arg := n.FieldByName("argument")
	if arg == nil {
		return
	}
	r.flattenUseTree(arg, "", line+1)
}

func (r *rustExtractor) flattenUseTree(n Node, base string, line int) {
	switch n.Kind() {
	case "scoped_identifier":
		path := n.FieldByName("path")
		name := n.FieldByName("name")
		if path != nil && name != nil {
			full := string(path.Text()) + "::" + string(name.Text())
			if base != "" {
				full = base + "::" + full
			}
			r.result.Opens = append(r.result.Opens, schema.Open{Path: full, Line: line})
		}
	case "scoped_use_list":
		path := n.FieldByName("path")
		p := base
		if path != nil {
			if p != "" {
				p = p + "::" + string(path.Text())
			} else {
				p = string(path.Text())
			}
		}
		for _, c := range n.NamedChildren() {
			if c.Kind() == "use_list" {
				for _, item := range c.NamedChildren() {
					r.flattenUseTree(item, p, line)
				}
			}
		}
	case "identifier", "self":
		full := string(n.Text())
		if base != "" {
			full = base + "::" + full
		}
		r.result.Opens = append(r.result.Opens, schema.Open{Path: full, Line: line})
	case "use_as_clause":
		if path := n.FieldByName("path"); path != nil {
			r.flattenUseTree(path, base, line)
		}
	default:
		full := string(n.Text())
		if base != "" {
			full = base + "::" + full
		}
		r.result.Opens = append(r.result.Opens, schema.Open{Path: full, Line: line})
	}
}

func (r *rustExtractor) extractMod(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	qualified := qualify(string(nameNode.Text()), prefix)
	body := n.FieldByName("body")
	if body == nil {
		return
	}
	for _, c := range body.NamedChildren() {
		r.walk(c, qualified, 1)
	}
}

func (r *rustExtractor) extractFunc(n Node, prefix, parent string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	p := prefix
	if parent != "" {
		p = parent
	}
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualify(name, p),
		Kind:       schema.KindFunction,
		Location:   toLocation(r.file, n),
		Visibility: rustVisibility(n),
		Language:   "rust",
		Parent:     p,
		Doc:        gatherDocComment(n, rustCommentKinds, rustStripComment),
		Signature:  rustSignature(n),
	}
	r.result.Symbols = append(r.result.Symbols, sym)
}

func rustSignature(n Node) string {
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

func (r *rustExtractor) extractStruct(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       schema.KindRecord,
		Location:   toLocation(r.file, n),
		Visibility: rustVisibility(n),
		Language:   "rust",
		Parent:     prefix,
		Doc:        gatherDocComment(n, rustCommentKinds, rustStripComment),
	}
	r.result.Symbols = append(r.result.Symbols, sym)

	body := n.FieldByName("body")
	if body == nil {
		return
	}
	for _, field := range body.NamedChildren() {
		if field.Kind() != "field_declaration" {
			continue
		}
		fn := field.FieldByName("name")
		if fn == nil {
			continue
		}
		fname := string(fn.Text())
		r.result.Symbols = append(r.result.Symbols, schema.Symbol{
			Name:       fname,
			Qualified:  qualify(fname, qualified),
			Kind:       schema.KindMember,
			Location:   toLocation(r.file, field),
			Visibility: rustVisibility(field),
			Language:   "rust",
			Parent:     qualified,
		})
	}
}

func (r *rustExtractor) extractEnum(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       schema.KindUnion,
		Location:   toLocation(r.file, n),
		Visibility: rustVisibility(n),
		Language:   "rust",
		Parent:     prefix,
		Doc:        gatherDocComment(n, rustCommentKinds, rustStripComment),
	}
	r.result.Symbols = append(r.result.Symbols, sym)

	body := n.FieldByName("body")
	if body == nil {
		return
	}
	for _, variant := range body.NamedChildren() {
		if variant.Kind() != "enum_variant" {
			continue
		}
		vn := variant.FieldByName("name")
		if vn == nil {
			continue
		}
		vname := string(vn.Text())
		r.result.Symbols = append(r.result.Symbols, schema.Symbol{
			Name:       vname,
			Qualified:  qualify(vname, qualified),
			Kind:       schema.KindMember,
			Location:   toLocation(r.file, variant),
			Visibility: schema.Public,
			Language:   "rust",
			Parent:     qualified,
		})
	}
}

func (r *rustExtractor) extractTrait(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       schema.KindInterface,
		Location:   toLocation(r.file, n),
		Visibility: rustVisibility(n),
		Language:   "rust",
		Parent:     prefix,
		Doc:        gatherDocComment(n, rustCommentKinds, rustStripComment),
	}
	r.result.Symbols = append(r.result.Symbols, sym)

	body := n.FieldByName("body")
	if body == nil {
		return
	}
	for _, c := range body.NamedChildren() {
		if c.Kind() == "function_signature_item" || c.Kind() == "function_item" {
			r.extractFunc(c, prefix, qualified)
		}
	}
}

// extractImpl attributes each method to the implementing type, and records
// the trait name as a reference at the impl site when the impl is a trait
// impl (`impl Trait for Type`); the type's own symbol gets no Implements
// entry from it.
func (r *rustExtractor) extractImpl(n Node, prefix string) {
	typeNode := n.FieldByName("type")
	if typeNode == nil {
		for _, c := range n.NamedChildren() {
			r.walk(c, prefix, 1)
		}
		return
	}
	typeName := string(typeNode.Text())
	qualified := qualify(typeName, prefix)

	if traitNode := n.FieldByName("trait"); traitNode != nil {
		trait := string(traitNode.Text())
		r.result.References = append(r.result.References, schema.Reference{
			Name:     trait,
			Location: toLocation(r.file, traitNode),
		})
	}

	body := n.FieldByName("body")
	if body == nil {
		return
	}
	for _, c := range body.NamedChildren() {
		if c.Kind() == "function_item" {
			r.extractFunc(c, prefix, qualified)
		} else {
			r.walk(c, qualified, 1)
		}
	}
}

func (r *rustExtractor) extractCallRef(n Node) {
	fn := n.FieldByName("function")
	if fn == nil {
		return
	}
	full := string(fn.Text())
	r.result.References = append(r.result.References, schema.Reference{Name: full, Location: toLocation(r.file, fn)})
	switch fn.Kind() {
	case "field_expression":
		if field := fn.FieldByName("field"); field != nil {
			tail := string(field.Text())
			if tail != full {
				r.result.References = append(r.result.References, schema.Reference{Name: tail, Location: toLocation(r.file, field)})
			}
		}
	case "scoped_identifier":
		if name := fn.FieldByName("name"); name != nil {
			tail := string(name.Text())
			if tail != full {
				r.result.References = append(r.result.References, schema.Reference{Name: tail, Location: toLocation(r.file, name)})
			}
		}
	}
}
