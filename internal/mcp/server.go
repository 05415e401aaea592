// Package mcp exposes the running bar daemon as MCP tools over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilebar/internal/ipc"
)

const (
	ServerName    = "tilebar"
	ServerVersion = "0.1.0"
)

// Daemon is the IPC surface the tools call; *ipc.Client satisfies it.
type Daemon interface {
	Redraw() error
	Reload() error
	GetStatus() (*ipc.StatusData, error)
	GetDisplays() (*ipc.DisplaysData, error)
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server for a tilebar daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates an MCP server that forwards to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "bar_status",
		Description: "Report the running tilebar daemon: one entry per bar with its window id, display, width, the pixel bounds of the left, center and right sections, and how many frames it has drawn.",
	}, s.handleBarStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "redraw_bars",
		Description: "Ask every bar to re-render its components and repaint now instead of waiting for the next refresh tick.",
	}, s.handleRedrawBars)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Re-read the tilebar config file and swap in the new components and bar settings. Fails without changing anything if the config is invalid.",
	}, s.handleReloadConfig)
}
