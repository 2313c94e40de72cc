package extract

import (
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func init() {
	register("javascript", extractJavaScript)
}

func extractJavaScript(file string, source []byte, maxDepth int) schema.ParseResult {
	return extractJSFamily("javascript", "js", file, source, maxDepth)
}

// extractJSFamily is shared by javascript.go and typescript.go: the two
// grammars diverge mostly in type-only constructs, which jsExtractor simply
// ignores unless dialect == "ts".
func extractJSFamily(language, dialect string, file string, source []byte, maxDepth int) schema.ParseResult {
	root, ok := parseSource(language, source)
	if !ok {
		return schema.ParseResult{}
	}
	var result schema.ParseResult
	collectSyntaxErrors(file, root, &result.Errors)

	j := &jsExtractor{file: file, language: language, dialect: dialect, result: &result, maxDepth: maxDepth}
	j.walk(root, "", 0)
	return result
}

type jsExtractor struct {
	file     string
	language string
	dialect  string
	result   *schema.ParseResult
	maxDepth int
}

// jsVisibility: no first-class visibility keyword in plain JS; a leading
// "#" (private class field/method) or "_" convention marks Private.
func jsVisibility(name string) schema.Visibility {
	if strings.HasPrefix(name, "#") || strings.HasPrefix(name, "_") {
		return schema.Private
	}
	return schema.Public
}

func (j *jsExtractor) walk(n Node, prefix string, depth int) {
	if depth > j.maxDepth {
		j.result.Warnings = append(j.result.Warnings, schema.ParseWarning{Message: "max recursion depth exceeded"})
		return
	}
	if n.IsError() {
		return
	}

	switch n.Kind() {
	case "import_statement":
		j.extractImport(n)
	case "function_declaration", "generator_function_declaration":
		j.extractFunc(n, prefix)
		return
	case "class_declaration":
		j.extractClass(n, prefix)
		return
	case "method_definition":
		j.extractMethod(n, prefix)
		return
	case "lexical_declaration", "variable_declaration":
		j.extractVarDecl(n, prefix)
	case "call_expression":
		j.extractCallRef(n)
	case "interface_declaration":
		if j.dialect == "ts" {
			j.extractInterface(n, prefix)
			return
		}
	case "type_alias_declaration":
		if j.dialect == "ts" {
			j.extractTypeAlias(n, prefix)
		}
	}

	for _, c := range n.NamedChildren() {
		j.walk(c, prefix, depth+1)
	}
}

func (j *jsExtractor) extractImport(n Node) {
	line, _ := n.StartPoint()
	src := n.FieldByName("source")
	if src == nil {
		return
	}
	path := strings.Trim(string(src.Text()), "\"'`")
	j.result.Opens = append(j.result.Opens, schema.Open{Path: path, Line: line + 1})
}

func (j *jsExtractor) extractFunc(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       schema.KindFunction,
		Location:   toLocation(j.file, n),
		Visibility: jsVisibility(name),
		Language:   j.language,
		Parent:     prefix,
		Doc:        gatherDocComment(n, jsCommentKinds, jsStripComment),
		Signature:  jsSignature(n),
	}
	j.result.Symbols = append(j.result.Symbols, sym)

	if body := n.FieldByName("body"); body != nil {
		for _, c := range body.NamedChildren() {
			j.walk(c, qualified, 1)
		}
	}
}

var jsCommentKinds = map[string]bool{"comment": true}

func jsStripComment(s string) string {
	s = strings.TrimPrefix(s, "//")
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	s = strings.TrimPrefix(strings.TrimSpace(s), "*")
	return strings.TrimSpace(s)
}

func jsSignature(n Node) string {
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

func (j *jsExtractor) extractClass(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	var mixins, implements []string
	if heritage := n.FieldByName("superclass"); heritage != nil {
		mixins = append(mixins, strings.TrimSpace(string(heritage.Text())))
	}
	for _, c := range n.NamedChildren() {
		if c.Kind() == "class_heritage" {
			for _, h := range c.NamedChildren() {
				if h.Kind() == "implements_clause" {
					for _, t := range h.NamedChildren() {
						implements = append(implements, string(t.Text()))
					}
				}
			}
		}
	}
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       schema.KindClass,
		Location:   toLocation(j.file, n),
		Visibility: jsVisibility(name),
		Language:   j.language,
		Parent:     prefix,
		Mixins:     mixins,
		Implements: implements,
		Doc:        gatherDocComment(n, jsCommentKinds, jsStripComment),
	}
	j.result.Symbols = append(j.result.Symbols, sym)

	if body := n.FieldByName("body"); body != nil {
		for _, c := range body.NamedChildren() {
			j.walk(c, qualified, 1)
		}
	}
}

func (j *jsExtractor) extractMethod(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualify(name, prefix),
		Kind:       schema.KindFunction,
		Location:   toLocation(j.file, n),
		Visibility: jsVisibility(name),
		Language:   j.language,
		Parent:     prefix,
		Doc:        gatherDocComment(n, jsCommentKinds, jsStripComment),
		Signature:  jsSignature(n),
	}
	j.result.Symbols = append(j.result.Symbols, sym)

	if body := n.FieldByName("body"); body != nil {
		for _, c := range body.NamedChildren() {
			j.walk(c, prefix, 1)
		}
	}
}

func (j *jsExtractor) extractVarDecl(n Node, prefix string) {
	for _, declarator := range n.NamedChildren() {
		if declarator.Kind() != "variable_declarator" {
			continue
		}
		nameNode := declarator.FieldByName("name")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			continue
		}
		name := string(nameNode.Text())
		sym := schema.Symbol{
			Name:       name,
			Qualified:  qualify(name, prefix),
			Kind:       schema.KindValue,
			Location:   toLocation(j.file, declarator),
			Visibility: jsVisibility(name),
			Language:   j.language,
			Parent:     prefix,
		}
		j.result.Symbols = append(j.result.Symbols, sym)
	}
}

func (j *jsExtractor) extractCallRef(n Node) {
	fn := n.FieldByName("function")
	if fn == nil {
		return
	}
	full := string(fn.Text())
	j.result.References = append(j.result.References, schema.Reference{Name: full, Location: toLocation(j.file, fn)})
	if fn.Kind() == "member_expression" {
		if prop := fn.FieldByName("property"); prop != nil {
			tail := string(prop.Text())
			if tail != full {
				j.result.References = append(j.result.References, schema.Reference{Name: tail, Location: toLocation(j.file, prop)})
			}
		}
	}
}

func (j *jsExtractor) extractInterface(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	qualified := qualify(name, prefix)
	var implements []string
	for _, c := range n.NamedChildren() {
		if c.Kind() == "extends_type_clause" {
			for _, t := range c.NamedChildren() {
				implements = append(implements, string(t.Text()))
			}
		}
	}
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualified,
		Kind:       schema.KindInterface,
		Location:   toLocation(j.file, n),
		Visibility: jsVisibility(name),
		Language:   j.language,
		Parent:     prefix,
		Implements: implements,
		Doc:        gatherDocComment(n, jsCommentKinds, jsStripComment),
	}
	j.result.Symbols = append(j.result.Symbols, sym)
}

func (j *jsExtractor) extractTypeAlias(n Node, prefix string) {
	nameNode := n.FieldByName("name")
	if nameNode == nil {
		return
	}
	name := string(nameNode.Text())
	sym := schema.Symbol{
		Name:       name,
		Qualified:  qualify(name, prefix),
		Kind:       schema.KindType,
		Location:   toLocation(j.file, n),
		Visibility: jsVisibility(name),
		Language:   j.language,
		Parent:     prefix,
		Doc:        gatherDocComment(n, jsCommentKinds, jsStripComment),
	}
	j.result.Symbols = append(j.result.Symbols, sym)
}
