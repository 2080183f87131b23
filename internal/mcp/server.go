// Package mcp exposes the catalog to MCP clients over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/learnhub/internal/catalog"
	"github.com/ziadkadry99/learnhub/internal/fetcher"
	"github.com/ziadkadry99/learnhub/internal/render"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the study catalog as tools.
type Server struct {
	reg      *catalog.Registry
	fetcher  fetcher.Fetcher
	renderer *render.Renderer
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server reading documents through f.
func NewServer(reg *catalog.Registry, f fetcher.Fetcher) *Server {
	s := &Server{
		reg:      reg,
		fetcher:  f,
		renderer: render.New(),
	}

	s.mcp = server.NewMCPServer(
		"learnhub",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listSubjectsTool, s.handleListSubjects)
	s.mcp.AddTool(getDocumentTool, s.handleGetDocument)
	s.mcp.AddTool(getOutlineTool, s.handleGetOutline)
	s.mcp.AddTool(searchCatalogTool, s.handleSearchCatalog)
}

// Serve starts the MCP server on stdio. Stdout carries protocol messages, so
// all logging must go to stderr or a file.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
