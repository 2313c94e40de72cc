package extract

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// grammars maps a canonical language name to its tree-sitter grammar. F#
// has no entry: no go-tree-sitter binding for tree-sitter-fsharp is
// vendored here. Grammars are a pluggable parameter of the dispatcher, not
// a property of the extractor logic; RegisterGrammar lets a caller supply
// one without touching this file.
var (
	grammarsMu sync.RWMutex
	grammars   = map[string]*sitter.Language{
		"go":         golang.GetLanguage(),
		"python":     python.GetLanguage(),
		"javascript": javascript.GetLanguage(),
		"typescript": ts.GetLanguage(),
		"rust":       rust.GetLanguage(),
		"c":          c.GetLanguage(),
		"csharp":     csharp.GetLanguage(),
		"kotlin":     kotlin.GetLanguage(),
	}
)

// RegisterGrammar installs (or replaces) the tree-sitter grammar used for a
// language. Safe to call concurrently; typically used once at startup to
// plug in a grammar this build doesn't bundle (e.g. F#).
func RegisterGrammar(language string, lang *sitter.Language) {
	grammarsMu.Lock()
	defer grammarsMu.Unlock()
	grammars[language] = lang
}

func grammarFor(language string) *sitter.Language {
	grammarsMu.RLock()
	defer grammarsMu.RUnlock()
	return grammars[language]
}

// GrammarRegistered reports whether a usable grammar is wired for language.
func GrammarRegistered(language string) bool {
	return grammarFor(language) != nil
}

// parserPool hands out one *sitter.Parser per (goroutine, language) via a
// sync.Pool: tree-sitter parsers are expensive to construct, so each
// worker reuses its own rather than building one per file.
type parserPool struct {
	mu    sync.Mutex
	pools map[string]*sync.Pool
}

var pools = &parserPool{pools: make(map[string]*sync.Pool)}

func (p *parserPool) get(language string) *sitter.Parser {
	lang := grammarFor(language)
	if lang == nil {
		return nil
	}
	p.mu.Lock()
	pool, ok := p.pools[language]
	if !ok {
		pool = &sync.Pool{New: func() any {
			parser := sitter.NewParser()
			parser.SetLanguage(lang)
			return parser
		}}
		p.pools[language] = pool
	}
	p.mu.Unlock()
	return pool.Get().(*sitter.Parser)
}

func (p *parserPool) put(language string, parser *sitter.Parser) {
	p.mu.Lock()
	pool := p.pools[language]
	p.mu.Unlock()
	if pool != nil {
		pool.Put(parser)
	}
}
