package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func TestLanguageForFile_MapsKnownExtensions(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"main.go":      "go",
		"app.py":       "python",
		"index.js":     "javascript",
		"component.ts": "typescript",
		"lib.rs":       "rust",
		"util.h":       "c",
		"Program.cs":   "csharp",
		"Main.kt":      "kotlin",
		"Module.fs":    "fsharp",
	}
	for file, want := range cases {
		got, ok := LanguageForFile(file)
		assert.True(t, ok, file)
		assert.Equal(t, want, got, file)
	}
}

func TestLanguageForFile_UnknownExtensionIsUnsupported(t *testing.T) {
	t.Parallel()
	_, ok := LanguageForFile("README.md")
	assert.False(t, ok)
}

func TestExtract_UnknownExtensionReturnsEmptyResult(t *testing.T) {
	t.Parallel()
	result := Extract("notes.txt", []byte("hello"), 0)
	assert.Empty(t, result.Symbols)
	assert.Empty(t, result.References)
}

func TestExtract_UnregisteredGrammarReturnsEmptyResult(t *testing.T) {
	t.Parallel()
	// fsharp has a registered extractor but no bundled tree-sitter grammar
	// in this pack (see grammar.go); parseSource must fail closed.
	result := Extract("module.fs", []byte("let x = 1"), 0)
	assert.Empty(t, result.Symbols)
}

func TestExtractGo_FindsTopLevelFunction(t *testing.T) {
	t.Parallel()
	src := []byte(`package main

func Greet(name string) string {
	return "hello " + name
}
`)
	result := extractGo("greeter.go", src, DefaultMaxDepth)
	assert.Empty(t, result.Errors)

	var found bool
	for _, sym := range result.Symbols {
		if sym.Name == "Greet" {
			found = true
			assert.Equal(t, "function", sym.Kind.String())
			assert.Equal(t, 3, sym.Location.Line)
		}
	}
	assert.True(t, found, "expected to find symbol Greet in %+v", result.Symbols)
}

func TestExtractGo_RecordsSyntaxErrorsWithoutPanicking(t *testing.T) {
	t.Parallel()
	src := []byte(`package main

func broken( {
`)
	var result schema.ParseResult
	assert.NotPanics(t, func() {
		result = extractGo("broken.go", src, DefaultMaxDepth)
	})
	assert.NotEmpty(t, result.Errors)
}
