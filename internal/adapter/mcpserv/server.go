package mcpserv

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pinterest-mcp/internal/adapter/tool"
	"pinterest-mcp/internal/domain"
)

// Server wraps an MCP server exposing the registry's tools over stdio.
// Unknown tool names are rejected by the underlying dispatcher with a
// method-not-found error; registered tools only ever return content blocks.
type Server struct {
	mcp    *server.MCPServer
	logger *slog.Logger
}

// New builds an MCP server and registers every tool in the registry.
func New(name, version string, reg *tool.Registry, logger *slog.Logger) *Server {
	s := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
	)

	for _, t := range reg.All() {
		s.AddTool(toMCPTool(t), handlerFor(t, logger))
		logger.Debug("tool registered", "tool", t.Name())
	}

	return &Server{mcp: s, logger: logger}
}

// Listen serves the MCP protocol on the given streams until ctx is
// canceled or the input reaches EOF.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// ListenStdio serves on the process's stdin/stdout.
func (s *Server) ListenStdio(ctx context.Context) error {
	return s.Listen(ctx, os.Stdin, os.Stdout)
}

// toMCPTool converts a domain tool descriptor, preserving its raw JSON
// input schema.
func toMCPTool(t domain.Tool) mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name(), t.Description(), t.Schema().Parameters)
}

// handlerFor adapts a domain tool to the MCP handler signature. A non-nil
// handler error becomes a protocol-level internal error carrying the
// original message; tool-level failures travel as error content blocks.
func handlerFor(t domain.Tool, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := t.Execute(ctx, rawArguments(req))
		if err != nil {
			logger.Error("tool dispatch failed", "tool", t.Name(), "error", err)
			return nil, err
		}
		return toCallResult(res), nil
	}
}

// rawArguments re-encodes the request arguments so tools receive a single
// canonical json.RawMessage regardless of how the client shaped them.
func rawArguments(req mcp.CallToolRequest) json.RawMessage {
	switch args := req.Params.Arguments.(type) {
	case nil:
		return nil
	case json.RawMessage:
		return args
	case []byte:
		return args
	default:
		data, err := json.Marshal(args)
		if err != nil {
			return nil
		}
		return data
	}
}

// toCallResult maps ordered text blocks onto MCP content blocks.
func toCallResult(res *domain.ToolResult) *mcp.CallToolResult {
	blocks := res.TextBlocks()
	content := make([]mcp.Content, 0, len(blocks))
	for _, b := range blocks {
		content = append(content, mcp.NewTextContent(b))
	}
	return &mcp.CallToolResult{
		Content: content,
		IsError: res.IsError,
	}
}
