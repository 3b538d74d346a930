// Package tools provides interfaces and implementations for MCP tools
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/theapemachine/neo4j-vector-memory/core/middleware"
)

// Tool defines the interface for all tools in the system
type Tool interface {
	// Handle returns the underlying MCP tool
	Handle() mcp.Tool

	// Handler processes tool requests and returns responses
	Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

	// Name returns the name of the tool
	Name() string
}

// Registry manages tool registration with an MCP server
type Registry struct {
	server      *server.MCPServer
	tools       map[string]Tool
	middlewares []middleware.Middleware
}

// NewRegistry creates a new tool registry. Every registered handler is
// wrapped in the given middlewares, the first one outermost.
func NewRegistry(mcpServer *server.MCPServer, middlewares ...middleware.Middleware) *Registry {
	return &Registry{
		server:      mcpServer,
		tools:       make(map[string]Tool),
		middlewares: middlewares,
	}
}

// Register registers a tool with the server
func (r *Registry) Register(tool Tool) {
	r.tools[tool.Name()] = tool
	r.server.AddTool(tool.Handle(), r.Wrap(tool))
}

// Wrap returns the tool's handler with the registry middlewares applied
func (r *Registry) Wrap(tool Tool) middleware.Handler {
	return middleware.Chain(tool.Handler, r.middlewares...)
}

// Tools returns the registered tools by name
func (r *Registry) Tools() map[string]Tool {
	return r.tools
}
