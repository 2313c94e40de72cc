// Package extract implements the per-language extractors and the
// dispatcher that is the sole public entry point of the extraction layer.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

// extToLanguage maps a file extension to its canonical language name. This
// table, together with registry in common.go, defines the closed set of
// supported languages: a tagged dispatch table rather than dynamic
// per-file lookup, since the set is small and closed.
var extToLanguage = map[string]string{
	".go":  "go",
	".py":  "python",
	".js":  "javascript",
	".jsx": "javascript",
	".mjs": "javascript",
	".cjs": "javascript",
	".ts":  "typescript",
	".tsx": "typescript",
	".rs":  "rust",
	".c":   "c",
	".h":   "c",
	".cs":  "csharp",
	".kt":  "kotlin",
	".kts": "kotlin",
	".fs":  "fsharp",
	".fsi": "fsharp",
	".fsx": "fsharp",
}

// LanguageForFile returns the canonical language name for path's extension.
func LanguageForFile(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// Extract is the extraction layer's single public entry point: it selects
// an extractor by file extension and invokes it. Unknown extensions, and
// languages whose extractor has no grammar registered (see RegisterGrammar),
// return an empty ParseResult rather than an error — extractor failure is a
// per-file concern the refresh engine records, never a panic.
func Extract(file string, source []byte, maxDepth int) schema.ParseResult {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	lang, ok := LanguageForFile(file)
	if !ok {
		return schema.ParseResult{}
	}
	fn, ok := registry[lang]
	if !ok {
		return schema.ParseResult{}
	}
	return fn(file, source, maxDepth)
}

// SupportedLanguages returns the canonical names of every language with a
// registered extractor, regardless of whether its grammar is wired.
func SupportedLanguages() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
