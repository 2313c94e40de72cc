package lspsrv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sourcegraph/jsonrpc2"
)

// handle dispatches a single JSON-RPC request to its typed handler. Using
// jsonrpc2.HandlerWithError lets each method return (result, error)
// directly instead of calling conn.Reply itself.
func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(ctx, req)
	case "initialized":
		return nil, s.handleInitialized(ctx)
	case "shutdown":
		return nil, nil
	case "exit":
		return nil, conn.Close()
	case "textDocument/definition":
		return s.handleDefinition(ctx, req)
	case "textDocument/hover":
		return s.handleHover(ctx, req)
	case "textDocument/references":
		return s.handleReferences(ctx, req)
	case "workspace/symbol":
		return s.handleWorkspaceSymbol(ctx, req)
	case "textDocument/completion":
		return s.handleCompletion(ctx, req)
	case "textDocument/codeAction":
		return s.handleCodeAction(ctx, req)
	case "textDocument/rename":
		return s.handleRename(ctx, req)
	case "textDocument/didOpen":
		return nil, s.handleDidOpen(ctx, req)
	case "textDocument/didChange":
		return nil, s.handleDidChange(ctx, req)
	case "textDocument/didSave":
		return nil, s.handleDidSave(ctx, req)
	case "textDocument/didClose":
		return nil, s.handleDidClose(ctx, req)
	default:
		if req.Notif {
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: fmt.Sprintf("method not supported: %s", req.Method)}
	}
}

func unmarshalParams(req *jsonrpc2.Request, v any) error {
	if req.Params == nil {
		return fmt.Errorf("missing params for %s", req.Method)
	}
	return json.Unmarshal(*req.Params, v)
}
