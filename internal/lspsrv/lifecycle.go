package lspsrv

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/rocket-tycoon/rocketindex/internal/config"
	"github.com/rocket-tycoon/rocketindex/internal/diskindex"
	"github.com/rocket-tycoon/rocketindex/internal/liveindex"
	"github.com/rocket-tycoon/rocketindex/internal/refresh"
	"github.com/rocket-tycoon/rocketindex/internal/resolve"
	"github.com/rocket-tycoon/rocketindex/internal/walk"
)

func (s *Server) handleInitialize(_ context.Context, req *jsonrpc2.Request) (any, error) {
	var params protocol.InitializeParams
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}

	root := uriToPath(params.RootURI)
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}

	s.mu.Lock()
	s.root = root
	s.mu.Unlock()

	return protocol.InitializeResult{
		Capabilities: serverCapabilities(),
	}, nil
}

// handleInitialized loads or rebuilds the index per the refresh engine's
// full-build flow, reporting any errors via the client log rather than
// failing initialization outright — a project with a few broken files
// should still get a working server for everything else.
func (s *Server) handleInitialized(ctx context.Context) error {
	s.mu.RLock()
	root := s.root
	s.mu.RUnlock()
	if root == "" {
		return nil
	}

	cfg, err := config.Load(root)
	if err != nil {
		s.logError(ctx, fmt.Sprintf("load config: %v", err))
		cfg = &config.Config{MaxDepth: config.DefaultMaxDepth}
	}

	dbPath := filepath.Join(root, ".rocketindex", diskindex.DefaultDBName)
	disk, err := diskindex.OpenOrCreate(dbPath)
	if err != nil {
		s.logError(ctx, fmt.Sprintf("open disk index: %v", err))
		return nil
	}

	engine := refresh.New(disk, root, cfg.MaxDepth)

	paths, err := walk.Discover(root, cfg)
	if err != nil {
		s.logError(ctx, fmt.Sprintf("discover files: %v", err))
	}

	summary, err := engine.FullBuild(ctx, paths)
	if err != nil {
		s.logError(ctx, fmt.Sprintf("full build: %v", err))
	}
	for _, e := range summary.Errored {
		s.logError(ctx, fmt.Sprintf("index %s: %v", e.Path, e.Err))
	}

	if path := cfg.ResolveTypeCachePath(root); path != "" {
		s.loadTypeCache(ctx, engine.Live, path)
	}

	s.indexMu.Lock()
	s.live = engine.Live
	s.disk = disk
	s.engine = engine
	s.solver = resolve.New(engine.Live, disk)
	s.maxDepth = cfg.MaxDepth
	s.indexMu.Unlock()

	return nil
}

func (s *Server) loadTypeCache(ctx context.Context, live *liveindex.Index, path string) {
	cache, err := loadCache(path)
	if err != nil {
		s.logError(ctx, fmt.Sprintf("load type cache %s: %v", path, err))
		return
	}
	live.SetTypeCache(cache)
}

func (s *Server) logError(ctx context.Context, message string) {
	if s.conn == nil {
		return
	}
	_ = s.conn.Notify(ctx, "window/logMessage", protocol.LogMessageParams{
		Type:    protocol.MessageTypeError,
		Message: message,
	})
}
