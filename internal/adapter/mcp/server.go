// Package mcp exposes trip planning over the Model Context Protocol so AI
// assistants can call the planner as tools and read candidate pools as
// resources.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/service"
)

// Planner runs one full trip orchestration.
type Planner interface {
	PlanTrip(ctx context.Context, req trip.Request) (*trip.Plan, error)
}

// Comparer scores two destinations against each other.
type Comparer interface {
	Compare(ctx context.Context, a, b string) (*service.ComparisonReport, error)
}

// PoolReader fetches candidate pools per destination.
type PoolReader interface {
	Pools(ctx context.Context, destination string) (trip.Pools, error)
}

// ServerConfig holds the MCP server settings.
type ServerConfig struct {
	Addr    string
	Name    string
	Version string
}

// ServerDeps are the collaborators the tools and resources call into. Any
// nil dependency turns its tools into explicit "not configured" errors.
type ServerDeps struct {
	Planner    Planner
	Comparer   Comparer
	PoolReader PoolReader
}

// Server wraps the MCP protocol server and its HTTP transport.
type Server struct {
	cfg        ServerConfig
	deps       ServerDeps
	mcpServer  *mcpserver.MCPServer
	httpServer *mcpserver.StreamableHTTPServer
}

// NewServer creates the MCP server and registers all tools and resources.
func NewServer(cfg ServerConfig, deps ServerDeps) *Server {
	s := &Server{
		cfg:  cfg,
		deps: deps,
		mcpServer: mcpserver.NewMCPServer(cfg.Name, cfg.Version,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	s.httpServer = mcpserver.NewStreamableHTTPServer(s.mcpServer)
	return s
}

// MCPServer exposes the underlying protocol server, used by tests and for
// mounting on an existing mux.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// Start serves the MCP transport in the background.
func (s *Server) Start() error {
	go func() {
		if err := s.httpServer.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mcp server failed", "error", err)
		}
	}()
	slog.Info("mcp server started", "addr", s.cfg.Addr)
	return nil
}

// Stop shuts the transport down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
