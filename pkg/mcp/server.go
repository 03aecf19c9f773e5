// Package mcp exposes the monitor's control surface as MCP tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urmzd/wardwatch/pkg/api/types"
)

// Backend is the REST control surface, normally a *client.Client.
type Backend interface {
	Health(ctx context.Context) (*types.HealthResponse, error)
	Status(ctx context.Context) (*types.StatusResponse, error)
	SendCommand(ctx context.Context, text string) (*types.CommandResponse, error)
	ToggleCommissioning(ctx context.Context) (*types.CommandResponse, error)
	ListBeacons(ctx context.Context) (*types.ListBeaconsResponse, error)
	SaveBeacon(ctx context.Context, key string, req types.BeaconRequest) (*types.Beacon, error)
	DeleteBeacon(ctx context.Context, key string) error
}

// Server wraps the MCP server with the monitor tools
type Server struct {
	mcpServer *server.MCPServer
	backend   Backend
}

// NewServer creates a new MCP server bridging to backend
func NewServer(backend Backend) *Server {
	s := &Server{backend: backend}

	s.mcpServer = server.NewMCPServer(
		"wardwatch",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
