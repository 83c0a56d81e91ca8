// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/riskgate/riskgate/internal/contract"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Riskgate MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Riskgate Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg}

	s.AddTool(mcp.NewTool("get_risk_report",
		mcp.WithDescription("Read the saved risk analysis state and return the ranked areas with their scores and metrics."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the server's configured repository).")),
		mcp.WithString("state_file", mcp.Description("Repo-relative path of the state document.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked areas returned.")),
	), h.handleGetRiskReport)

	s.AddTool(mcp.NewTool("get_blast_radius",
		mcp.WithDescription("Return the areas that historically change together with a given area, ordered by correlation strength."),
		mcp.WithString("path", mcp.Description("The area path to query."), mcp.Required()),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("state_file", mcp.Description("Repo-relative path of the state document.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of correlated areas returned.")),
	), h.handleGetBlastRadius)

	return s
}

// StartMCPServer starts the Riskgate MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
