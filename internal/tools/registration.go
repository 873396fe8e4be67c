// Package tools provides shared types and helpers for registering MCP tools
// on an MCP server instance.
package tools

import (
	"github.com/jamesprial/marketplace-mcp/internal/safety"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Registration pairs an MCP tool definition with its handler function.
type Registration struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// Filter returns the registrations whose tool names are permitted by filter.
// A nil filter keeps every registration.
func Filter(registrations []Registration, filter *safety.Filter) []Registration {
	out := make([]Registration, 0, len(registrations))
	for _, r := range registrations {
		if filter.IsAllowed(r.Tool.Name) {
			out = append(out, r)
		}
	}
	return out
}

// RegisterAll adds every Registration permitted by filter to the given MCP
// server and returns the names of the registered tools.
func RegisterAll(s *server.MCPServer, registrations []Registration, filter *safety.Filter) []string {
	allowed := Filter(registrations, filter)
	names := make([]string, 0, len(allowed))
	for _, r := range allowed {
		s.AddTool(r.Tool, r.Handler)
		names = append(names, r.Tool.Name)
	}
	return names
}
