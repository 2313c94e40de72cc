package lspsrv

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/rocket-tycoon/rocketindex/internal/liveindex"
	"github.com/rocket-tycoon/rocketindex/internal/resolve"
	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func newRequest(t *testing.T, method string, params any) *jsonrpc2.Request {
	t.Helper()
	b, err := json.Marshal(params)
	require.NoError(t, err)
	raw := json.RawMessage(b)
	return &jsonrpc2.Request{Method: method, Params: &raw}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	live := liveindex.New()
	live.SetWorkspaceRoot("/workspace")
	live.AddSymbol(schema.Symbol{
		Name:      "Greet",
		Qualified: "greeter.Greet",
		Kind:      schema.KindFunction,
		Signature: "func(name string) string",
		Location:  schema.Location{File: "greeter.go", Line: 3, Column: 6, EndLine: 5, EndColumn: 1},
	})
	live.AddReference("main.go", schema.Reference{
		Name:     "greeter.Greet",
		Location: schema.Location{File: "main.go", Line: 10, Column: 2, EndLine: 10, EndColumn: 14},
	})

	s := New()
	s.live = live
	s.solver = resolve.New(live, nil)
	s.docs["/workspace/main.go"] = &Document{Text: "package main\n\nfunc main() {\n\tgreeter.Greet(\"x\")\n}\n", Version: 1}
	return s
}

func TestHandleDefinition_ResolvesSymbolUnderCursor(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	params := protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI("/workspace/main.go")},
			Position:     protocol.Position{Line: 3, Character: 10},
		},
	}
	result, err := s.handleDefinition(context.Background(), newRequest(t, "textDocument/definition", params))
	require.NoError(t, err)
	require.NotNil(t, result)

	loc, ok := result.(protocol.Location)
	require.True(t, ok)
	assert.Equal(t, pathToURI("/workspace/greeter.go"), loc.URI)
	assert.EqualValues(t, 2, loc.Range.Start.Line)
}

func TestHandleDefinition_NoIdentifierReturnsNil(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	params := protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI("/workspace/main.go")},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	}
	result, err := s.handleDefinition(context.Background(), newRequest(t, "textDocument/definition", params))
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestHandleHover_IncludesSignatureAndLocation(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	params := protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI("/workspace/main.go")},
			Position:     protocol.Position{Line: 3, Character: 10},
		},
	}
	result, err := s.handleHover(context.Background(), newRequest(t, "textDocument/hover", params))
	require.NoError(t, err)
	hover, ok := result.(protocol.Hover)
	require.True(t, ok)
	assert.Contains(t, hover.Contents.Value, "func(name string) string")
	assert.Contains(t, hover.Contents.Value, "greeter.go:3")
}

func TestHandleReferences_FindsAllSites(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	params := protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI("/workspace/main.go")},
			Position:     protocol.Position{Line: 3, Character: 10},
		},
	}
	result, err := s.handleReferences(context.Background(), newRequest(t, "textDocument/references", params))
	require.NoError(t, err)
	locations, ok := result.([]protocol.Location)
	require.True(t, ok)
	require.Len(t, locations, 1)
	assert.Equal(t, pathToURI("/workspace/main.go"), locations[0].URI)
}

func TestHandleWorkspaceSymbol_MatchesByGlob(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	params := protocol.WorkspaceSymbolParams{Query: "Greet"}
	result, err := s.handleWorkspaceSymbol(context.Background(), newRequest(t, "workspace/symbol", params))
	require.NoError(t, err)
	symbols, ok := result.([]protocol.SymbolInformation)
	require.True(t, ok)
	require.Len(t, symbols, 1)
	assert.Equal(t, "Greet", symbols[0].Name)
	assert.Equal(t, "greeter", symbols[0].ContainerName)
}

func TestHandleRename_ReplacesDefinitionAndReferences(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	params := protocol.RenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI("/workspace/main.go")},
			Position:     protocol.Position{Line: 3, Character: 10},
		},
		NewName: "Salute",
	}
	result, err := s.handleRename(context.Background(), newRequest(t, "textDocument/rename", params))
	require.NoError(t, err)
	edit, ok := result.(*protocol.WorkspaceEdit)
	require.True(t, ok)
	require.NotNil(t, edit)

	defEdits := edit.Changes[pathToURI("/workspace/greeter.go")]
	require.Len(t, defEdits, 1)
	assert.Equal(t, "Salute", defEdits[0].NewText)

	refEdits := edit.Changes[pathToURI("/workspace/main.go")]
	require.Len(t, refEdits, 1)
	assert.Equal(t, "greeter.Salute", refEdits[0].NewText)
}

func TestHandleRename_NoSymbolReturnsNil(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	params := protocol.RenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI("/workspace/main.go")},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
		NewName: "Salute",
	}
	result, err := s.handleRename(context.Background(), newRequest(t, "textDocument/rename", params))
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestIdentifierAt_WidensOverIdentifierRunes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "greeter.Greet", identifierAt("\tgreeter.Greet(\"x\")\n", 0, 10))
	assert.Equal(t, "", identifierAt("\tgreeter.Greet(\"x\")\n", 0, 0))
}

func TestExpressionBeforeDot_StopsAtPunctuation(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "user", expressionBeforeDot("let x = user.Name", 0, 13))
}

func TestInnermostType_StripsWrappingForms(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "User", innermostType("User list"))
	assert.Equal(t, "User", innermostType("string -> User"))
	assert.Equal(t, "User", innermostType("Option<User>"))
}

func TestURIConversion_RoundTrips(t *testing.T) {
	t.Parallel()
	path := "/workspace/main.go"
	assert.Equal(t, path, uriToPath(pathToURI(path)))
}
