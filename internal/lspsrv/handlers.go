package lspsrv

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/rocket-tycoon/rocketindex/internal/liveindex"
	"github.com/rocket-tycoon/rocketindex/internal/resolve"
	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func (s *Server) indexSnapshot() (*liveindex.Index, *resolve.Resolver) {
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()
	return s.live, s.solver
}

func (s *Server) resolveAtCursor(params protocol.TextDocumentPositionParams) (*schema.Symbol, string) {
	path := uriToPath(params.TextDocument.URI)
	text, ok := s.documentText(path)
	if !ok {
		return nil, ""
	}
	word := identifierAt(text, int(params.Position.Line), int(params.Position.Character))
	if word == "" {
		return nil, ""
	}

	_, solver := s.indexSnapshot()
	if solver == nil {
		return nil, word
	}
	return solver.Resolve(word, path), word
}

func (s *Server) handleDefinition(_ context.Context, req *jsonrpc2.Request) (any, error) {
	var params protocol.DefinitionParams
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}

	sym, _ := s.resolveAtCursor(params.TextDocumentPositionParams)
	if sym == nil {
		return nil, nil
	}

	live, _ := s.indexSnapshot()
	loc := live.MakeLocationAbsolute(sym.Location)
	return toLocation(loc), nil
}

func (s *Server) handleHover(_ context.Context, req *jsonrpc2.Request) (any, error) {
	var params protocol.HoverParams
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}

	sym, _ := s.resolveAtCursor(params.TextDocumentPositionParams)
	if sym == nil {
		return nil, nil
	}

	live, _ := s.indexSnapshot()
	loc := live.MakeLocationAbsolute(sym.Location)

	signature := sym.Signature
	if signature == "" {
		if typ, ok := live.GetSymbolType(sym.Qualified); ok {
			signature = typ
		}
	}

	value := fmt.Sprintf("**%s** `%s`\n\n%s\n\n_%s:%d_", sym.Kind.String(), sym.Name, signature, loc.File, loc.Line)
	return protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: value},
		Range:    ptrRange(toRange(sym.Location)),
	}, nil
}

func ptrRange(r protocol.Range) *protocol.Range { return &r }

func (s *Server) handleReferences(_ context.Context, req *jsonrpc2.Request) (any, error) {
	var params protocol.ReferenceParams
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}

	sym, _ := s.resolveAtCursor(params.TextDocumentPositionParams)
	if sym == nil {
		return nil, nil
	}

	live, _ := s.indexSnapshot()
	refs := live.FindReferences(sym.Qualified)

	locations := make([]protocol.Location, 0, len(refs))
	for _, ref := range refs {
		locations = append(locations, toLocation(live.MakeLocationAbsolute(ref.Location)))
	}
	return locations, nil
}

func (s *Server) handleWorkspaceSymbol(_ context.Context, req *jsonrpc2.Request) (any, error) {
	var params protocol.WorkspaceSymbolParams
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}

	live, _ := s.indexSnapshot()
	if live == nil {
		return nil, nil
	}

	matches := live.Search(params.Query)
	sort.Slice(matches, func(i, j int) bool { return matches[i].Qualified < matches[j].Qualified })
	if len(matches) > 50 {
		matches = matches[:50]
	}

	symbols := make([]protocol.SymbolInformation, 0, len(matches))
	for _, sym := range matches {
		symbols = append(symbols, protocol.SymbolInformation{
			Name:          sym.Name,
			Kind:          toSymbolKind(sym.Kind),
			Location:      toLocation(live.MakeLocationAbsolute(sym.Location)),
			ContainerName: containerName(sym.Qualified),
		})
	}
	return symbols, nil
}

func containerName(qualified string) string {
	i := strings.LastIndexByte(qualified, '.')
	if i < 0 {
		return ""
	}
	return qualified[:i]
}

func toSymbolKind(k schema.SymbolKind) protocol.SymbolKind {
	switch k {
	case schema.KindModule:
		return protocol.SymbolKindModule
	case schema.KindFunction:
		return protocol.SymbolKindFunction
	case schema.KindValue:
		return protocol.SymbolKindVariable
	case schema.KindType:
		return protocol.SymbolKindTypeParameter
	case schema.KindRecord:
		return protocol.SymbolKindStruct
	case schema.KindUnion:
		return protocol.SymbolKindEnum
	case schema.KindInterface:
		return protocol.SymbolKindInterface
	case schema.KindClass:
		return protocol.SymbolKindClass
	case schema.KindMember:
		return protocol.SymbolKindField
	default:
		return protocol.SymbolKindVariable
	}
}
