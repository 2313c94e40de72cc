package lspsrv

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/rocket-tycoon/rocketindex/internal/extract"
)

// publishDiagnostics re-parses the open document's current text (not what
// is on disk — diagnostics republish on every change, not only save) and
// converts every syntax error the extractor reported into an LSP
// diagnostic.
func (s *Server) publishDiagnostics(ctx context.Context, path string) {
	text, ok := s.documentText(path)
	if !ok {
		return
	}

	s.indexMu.RLock()
	maxDepth := s.maxDepth
	s.indexMu.RUnlock()

	result := extract.Extract(path, []byte(text), maxDepth)

	diagnostics := make([]protocol.Diagnostic, 0, len(result.Errors))
	for _, e := range result.Errors {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toRange(e.Location),
			Severity: protocol.DiagnosticSeverityError,
			Source:   "rocketindex",
			Message:  e.Message,
		})
	}

	_ = s.conn.Notify(ctx, "textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: diagnostics,
	})
}
