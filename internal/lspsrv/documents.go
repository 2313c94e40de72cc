package lspsrv

import (
	"context"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"
)

func (s *Server) handleDidOpen(ctx context.Context, req *jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := unmarshalParams(req, &params); err != nil {
		return err
	}

	path := uriToPath(params.TextDocument.URI)
	s.mu.Lock()
	s.docs[path] = &Document{Text: params.TextDocument.Text, Version: params.TextDocument.Version}
	s.mu.Unlock()

	s.publishDiagnostics(ctx, path)
	return nil
}

func (s *Server) handleDidChange(ctx context.Context, req *jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := unmarshalParams(req, &params); err != nil {
		return err
	}

	path := uriToPath(params.TextDocument.URI)
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// TextDocumentSyncKindFull: the server only ever requests whole-document
	// sync, so the last change event carries the entire new text.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text

	s.mu.Lock()
	s.docs[path] = &Document{Text: text, Version: params.TextDocument.Version}
	s.mu.Unlock()

	s.publishDiagnostics(ctx, path)
	return nil
}

func (s *Server) handleDidSave(ctx context.Context, req *jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := unmarshalParams(req, &params); err != nil {
		return err
	}

	path := uriToPath(params.TextDocument.URI)

	s.indexMu.RLock()
	engine := s.engine
	s.indexMu.RUnlock()
	if engine == nil {
		return nil
	}

	if _, err := engine.RefreshFile(path); err != nil {
		s.logError(ctx, "reindex "+path+": "+err.Error())
	}
	s.publishDiagnostics(ctx, path)
	return nil
}

func (s *Server) handleDidClose(ctx context.Context, req *jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := unmarshalParams(req, &params); err != nil {
		return err
	}

	path := uriToPath(params.TextDocument.URI)
	s.mu.Lock()
	delete(s.docs, path)
	s.mu.Unlock()

	return s.conn.Notify(ctx, "textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
}

func (s *Server) documentText(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[path]
	if !ok {
		return "", false
	}
	return doc.Text, true
}
