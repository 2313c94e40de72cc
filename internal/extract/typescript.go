package extract

import "github.com/rocket-tycoon/rocketindex/internal/schema"

func init() {
	register("typescript", extractTypeScript)
}

// extractTypeScript reuses the JS family walker: the TypeScript grammar is a
// strict superset for the constructs this extractor cares about, with the
// addition of interface_declaration and type_alias_declaration handled via
// the "ts" dialect flag.
func extractTypeScript(file string, source []byte, maxDepth int) schema.ParseResult {
	return extractJSFamily("typescript", "ts", file, source, maxDepth)
}
