package lspsrv

import (
	"go.lsp.dev/protocol"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

// toRange converts a 1-indexed schema.Location into a 0-indexed LSP range.
func toRange(loc schema.Location) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(loc.Line - 1), Character: uint32(loc.Column - 1)},
		End:   protocol.Position{Line: uint32(loc.EndLine - 1), Character: uint32(loc.EndColumn - 1)},
	}
}

// toLocation converts a location whose File is already absolute (callers
// pass it through MakeLocationAbsolute first) to an LSP location.
func toLocation(loc schema.Location) protocol.Location {
	return protocol.Location{
		URI:   pathToURI(loc.File),
		Range: toRange(loc),
	}
}
