package server

import "github.com/localrivet/gomcp/server"

// HRToolServer defines the interface for the MCP server that handles
// HR tool calls from MCP clients.
type HRToolServer interface {
	// Initialize initializes the server with dependencies and configurations.
	Initialize() error

	// RegisterTools adds the HR tools and resources to an existing MCP server.
	RegisterTools(srv server.Server) server.Server

	// Start starts the MCP server on the specified transport.
	Start() error

	// Stop gracefully shuts down the MCP server.
	Stop() error
}

var _ HRToolServer = (*MCPHRToolServer)(nil)
