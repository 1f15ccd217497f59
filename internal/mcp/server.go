package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/cursor-search-mcp/internal/auth"
	"github.com/dshills/cursor-search-mcp/internal/client"
	"github.com/dshills/cursor-search-mcp/internal/config"
	"github.com/dshills/cursor-search-mcp/internal/cursordb"
	"github.com/dshills/cursor-search-mcp/internal/gitinfo"
	"github.com/dshills/cursor-search-mcp/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "cursor-search-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"

	instructions = "Semantic codebase search powered by Cursor's vector database. " +
		"Use codebase_search for finding code by meaning."
)

// Searcher is the part of the search client the server uses.
type Searcher interface {
	Search(ctx context.Context, q client.Query) (*types.SearchResult, error)
	EnsureIndexCreated(ctx context.Context) (bool, error)
	Close() error
}

// Dependencies lets tests replace the I/O performed by the server. Nil
// fields use the real implementations.
type Dependencies struct {
	ResolveRepo     func(ctx context.Context, o gitinfo.Overrides) (*gitinfo.RepoInfo, error)
	LoadCredentials func(ctx context.Context) (auth.Credentials, error)
	LoadRepoKeys    func(ctx context.Context, workspace string) (*cursordb.RepoKeys, error)
	NewClient       func(opts client.Options) (Searcher, error)
}

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp    *server.MCPServer
	cfg    config.Config
	logger zerolog.Logger
	deps   Dependencies

	mu     sync.Mutex
	repo   *gitinfo.RepoInfo
	client Searcher

	indexLock IndexLock
}

// NewServer creates a new MCP server instance
func NewServer(cfg config.Config, logger zerolog.Logger, deps Dependencies) (*Server, error) {
	if deps.LoadCredentials == nil || deps.LoadRepoKeys == nil {
		store, err := cursordb.NewStore(cfg.CursorDir)
		if err != nil {
			return nil, fmt.Errorf("failed to locate Cursor data: %w", err)
		}
		if deps.LoadCredentials == nil {
			deps.LoadCredentials = func(ctx context.Context) (auth.Credentials, error) {
				return auth.Load(ctx, store)
			}
		}
		if deps.LoadRepoKeys == nil {
			deps.LoadRepoKeys = store.RepoKeys
		}
	}
	if deps.ResolveRepo == nil {
		deps.ResolveRepo = gitinfo.Resolve
	}
	if deps.NewClient == nil {
		deps.NewClient = func(opts client.Options) (Searcher, error) {
			return client.New(opts)
		}
	}

	s := &Server{
		mcp: server.NewMCPServer(
			ServerName,
			ServerVersion,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithInstructions(instructions),
		),
		cfg:    cfg,
		logger: logger.With().Str("component", "mcp").Logger(),
		deps:   deps,
	}

	s.registerTools()
	return s, nil
}

// Serve runs the MCP protocol over in/out until ctx is cancelled or in is closed
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// registerTools registers all MCP tools and resources
func (s *Server) registerTools() {
	s.mcp.AddTool(codebaseSearchTool(), s.handleCodebaseSearch)
	s.mcp.AddTool(ensureIndexedTool(), s.handleEnsureIndexed)
	s.mcp.AddTool(refreshRepoTool(), s.handleRefreshRepo)
	s.mcp.AddResource(statusResource(), s.handleStatus)
}

// repoInfo returns the cached repository identity, detecting it on first use
// or when refresh is set.
func (s *Server) repoInfo(ctx context.Context, refresh bool) (*gitinfo.RepoInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo != nil && !refresh {
		return s.repo, nil
	}
	info, err := s.deps.ResolveRepo(ctx, s.cfg.Repo)
	if err != nil {
		return nil, err
	}
	s.repo = info
	s.dropClientLocked()
	s.logger.Info().
		Str("repo", info.Owner+"/"+info.Name).
		Str("workspace", info.WorkspacePath).
		Msg("repository resolved")
	return info, nil
}

// Close releases the current search client.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropClientLocked()
	return nil
}

func (s *Server) dropClientLocked() {
	if s.client != nil {
		_ = s.client.Close()
		s.client = nil
	}
}

// searchClient returns the client for the current repository, building it
// on first use. Credentials and repo keys are loaded concurrently. Missing
// repo keys are not an error. A client built for an identity that was
// refreshed meanwhile is closed and rebuilt.
func (s *Server) searchClient(ctx context.Context) (Searcher, *gitinfo.RepoInfo, error) {
	repo, err := s.repoInfo(ctx, false)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	if s.client != nil {
		c := s.client
		s.mu.Unlock()
		return c, repo, nil
	}
	s.mu.Unlock()

	var (
		creds auth.Credentials
		keys  *cursordb.RepoKeys
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.deps.LoadCredentials(gctx)
		if err != nil {
			return err
		}
		creds = c
		return nil
	})
	g.Go(func() error {
		k, err := s.deps.LoadRepoKeys(gctx, repo.WorkspacePath)
		switch {
		case err == nil:
			keys = k
		case errors.Is(err, cursordb.ErrNotFound), errors.Is(err, cursordb.ErrDatabaseNotFound):
			s.logger.Debug().Str("workspace", repo.WorkspacePath).Msg("no repo keys for workspace")
		default:
			s.logger.Warn().Err(err).Msg("failed to read repo keys")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	c, err := s.deps.NewClient(client.Options{
		BaseURL:       s.cfg.BaseURL,
		Credentials:   creds,
		ClientVersion: s.cfg.ClientVersion,
		MachineID:     s.cfg.MachineID,
		Repo:          *repo,
		Keys:          keys,
		PathKey:       s.cfg.PathEncryptionKey,
		IsLocal:       s.cfg.LocalRepo,
		Timeout:       s.cfg.Timeout,
		CacheSize:     s.cfg.CacheSize,
		CacheTTL:      s.cfg.CacheTTL,
		Logger:        s.logger,
	})
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	if s.repo != repo {
		// refresh_repo_info ran while the client was being built.
		s.mu.Unlock()
		_ = c.Close()
		s.logger.Debug().Msg("repository changed during client setup, rebuilding")
		return s.searchClient(ctx)
	}
	defer s.mu.Unlock()
	if s.client != nil {
		_ = c.Close()
		return s.client, repo, nil
	}
	s.client = c
	return c, repo, nil
}
