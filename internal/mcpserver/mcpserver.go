// Package mcpserver exposes the detector as an MCP server over stdio, so
// an LLM agent can submit files and ask for plagiarism clusters without
// shelling out to the CLI.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers the platok detection tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with the detection tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "platok",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds the detection tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_submission",
		Description: describeAddSubmission(),
	}, handleAddSubmission)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detect_plagiarism",
		Description: describeDetectPlagiarism(),
	}, handleDetectPlagiarism)
}
