package lspsrv

import (
	"context"
	"strings"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

// handleRename identifies the symbol under the cursor, collects its
// definition plus every reference, and computes a per-site text edit: a
// reference matching the short name is replaced whole, one ending in
// ".name" has only its tail replaced, and anything else has the matched
// substring replaced in place.
func (s *Server) handleRename(_ context.Context, req *jsonrpc2.Request) (any, error) {
	var params protocol.RenameParams
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}

	sym, _ := s.resolveAtCursor(params.TextDocumentPositionParams)
	if sym == nil {
		return nil, nil
	}

	live, _ := s.indexSnapshot()
	changes := make(map[protocol.DocumentURI][]protocol.TextEdit)

	defLoc := live.MakeLocationAbsolute(sym.Location)
	defURI := pathToURI(defLoc.File)
	changes[defURI] = append(changes[defURI], protocol.TextEdit{
		Range:   nameRange(sym.Location, sym.Name),
		NewText: params.NewName,
	})

	for _, ref := range live.FindReferences(sym.Qualified) {
		loc := live.MakeLocationAbsolute(ref.Location)
		uri := pathToURI(loc.File)

		newText := params.NewName
		switch {
		case ref.Name == sym.Name:
			// whole-name reference: replace entirely
		case strings.HasSuffix(ref.Name, "."+sym.Name):
			prefix := strings.TrimSuffix(ref.Name, sym.Name)
			newText = prefix + params.NewName
		default:
			newText = strings.Replace(ref.Name, sym.Name, params.NewName, 1)
		}

		changes[uri] = append(changes[uri], protocol.TextEdit{
			Range:   toRange(ref.Location),
			NewText: newText,
		})
	}

	return &protocol.WorkspaceEdit{Changes: changes}, nil
}

// nameRange narrows a definition's full span down to just its name token,
// assuming (as every extractor in this set does) that the name starts at
// the location's own (line, column).
func nameRange(loc schema.Location, name string) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(loc.Line - 1), Character: uint32(loc.Column - 1)},
		End:   protocol.Position{Line: uint32(loc.Line - 1), Character: uint32(loc.Column - 1 + len(name))},
	}
}
