// Package tools exposes the workflow codec as MCP tools and loads workflow
// documents from JSON or YAML files.
package tools

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps an MCP server with the workflow tool handlers.
type Server struct {
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// New creates a Server with every workflow tool registered.
func New(version string, logger *slog.Logger) *Server {
	s := &Server{logger: logger.With("system", "tools")}

	mcpSrv := server.NewMCPServer(
		"orgflow",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Convert organizational workflow trees to and from React Flow graphs. Use workflow.encode to lay out a tree, workflow.decode to rebuild a tree from an edited graph, workflow.patch to carry annotations onto an edited tree, and workflow.validate to check or repair a tree."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve runs the stdio transport until ctx is cancelled or in closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("serving workflow tools over stdio")
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, in, out)
}

// HTTPHandler serves the same tools over the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

// MCPServer returns the underlying MCPServer.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: encodeTool(), Handler: s.handleEncode},
		{Tool: decodeTool(), Handler: s.handleDecode},
		{Tool: patchTool(), Handler: s.handlePatch},
		{Tool: validateTool(), Handler: s.handleValidate},
	}
}

func encodeTool() mcp.Tool {
	return mcp.NewTool("workflow.encode",
		mcp.WithDescription("Lay out a workflow tree as a React Flow graph"),
		mcp.WithObject("tree", mcp.Required(), mcp.Description("Workflow tree with name, actors and steps")),
	)
}

func decodeTool() mcp.Tool {
	return mcp.NewTool("workflow.decode",
		mcp.WithDescription("Rebuild a workflow tree from a React Flow graph"),
		mcp.WithObject("graph", mcp.Required(), mcp.Description("Graph with nodes and edges")),
	)
}

func patchTool() mcp.Tool {
	return mcp.NewTool("workflow.patch",
		mcp.WithDescription("Carry inputs, outputs, connections and extra fields from the original tree onto an edited tree"),
		mcp.WithObject("original", mcp.Required(), mcp.Description("Tree before editing")),
		mcp.WithObject("updated", mcp.Required(), mcp.Description("Tree after editing")),
	)
}

func validateTool() mcp.Tool {
	return mcp.NewTool("workflow.validate",
		mcp.WithDescription("Validate a workflow tree against the schema, optionally repairing it"),
		mcp.WithObject("tree", mcp.Required(), mcp.Description("Workflow tree document")),
		mcp.WithBoolean("repair", mcp.Description("Repair the tree when strict validation fails")),
		mcp.WithString("name", mcp.Description("Fallback name used by repair")),
	)
}
