// Package lspsrv implements the language server backend: a stdio
// JSON-RPC server over the live index, built on go.lsp.dev/protocol's
// request/response shapes and a sourcegraph/jsonrpc2 transport loop.
package lspsrv

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/rocket-tycoon/rocketindex/internal/config"
	"github.com/rocket-tycoon/rocketindex/internal/diskindex"
	"github.com/rocket-tycoon/rocketindex/internal/liveindex"
	"github.com/rocket-tycoon/rocketindex/internal/refresh"
	"github.com/rocket-tycoon/rocketindex/internal/resolve"
)

// Document is an open file's current text and version, updated on every
// change notification (not only save).
type Document struct {
	Text    string
	Version int32
}

// Server holds state under two independent locks: the live index, the
// open-document store, the workspace root, and the recursion-depth config
// loaded on `initialized`.
type Server struct {
	mu   sync.RWMutex
	docs map[string]*Document

	indexMu sync.RWMutex
	live    *liveindex.Index
	disk    *diskindex.Index
	engine  *refresh.Engine
	solver  *resolve.Resolver

	root     string
	maxDepth int

	conn *jsonrpc2.Conn
}

// New creates a server with no workspace root set; initialize() sets it.
func New() *Server {
	return &Server{
		docs:     make(map[string]*Document),
		maxDepth: config.DefaultMaxDepth,
	}
}

// stdrwc adapts stdin/stdout to a single io.ReadWriteCloser for the
// jsonrpc2 stream, the way every stdio LSP server in this corpus is wired.
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdrwc) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

// Run starts the server on stdio and blocks until the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	var rwc io.ReadWriteCloser = stdrwc{}
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handle))
	s.conn = conn
	<-conn.DisconnectNotify()
	return nil
}

// capabilities advertises the operations implemented in handlers.go.
func serverCapabilities() protocol.ServerCapabilities {
	return protocol.ServerCapabilities{
		TextDocumentSync: protocol.TextDocumentSyncOptions{
			OpenClose: true,
			Change:    protocol.TextDocumentSyncKindFull,
			Save:      &protocol.SaveOptions{IncludeText: false},
		},
		DefinitionProvider:      true,
		HoverProvider:           true,
		ReferencesProvider:      true,
		WorkspaceSymbolProvider: true,
		CompletionProvider:      &protocol.CompletionOptions{TriggerCharacters: []string{"."}},
		CodeActionProvider:      true,
		RenameProvider:          true,
	}
}
