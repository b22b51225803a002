package domain

import (
	"context"
	"encoding/json"
)

// ToolSchema describes a tool for the MCP tool-listing protocol.
type ToolSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolResult is the outcome of executing a tool. Blocks, when set, is the
// ordered list of text content blocks for the response; otherwise Content
// is returned as a single block.
type ToolResult struct {
	Content string   `json:"content"`
	Blocks  []string `json:"blocks,omitempty"`
	IsError bool     `json:"is_error"`
}

// TextBlocks returns the ordered text blocks for the protocol response.
func (r *ToolResult) TextBlocks() []string {
	if len(r.Blocks) > 0 {
		return r.Blocks
	}
	return []string{r.Content}
}

// Tool is the interface every tool must implement.
type Tool interface {
	Name() string
	Description() string
	Schema() ToolSchema
	Execute(ctx context.Context, params json.RawMessage) (*ToolResult, error)
}
