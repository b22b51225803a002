package tool

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"pinterest-mcp/internal/domain"
)

// schemaGate rejects payloads that fail the wrapped tool's JSON Schema
// before they reach Execute. The search tool is deliberately not gated:
// its whole contract is accepting payloads a schema would reject.
type schemaGate struct {
	inner  domain.Tool
	schema *jsonschema.Schema
}

// WithSchemaValidation wraps a tool with schema-checked argument handling.
// Tools without a parameter schema are returned unwrapped. Returns an
// error when the tool's schema does not compile.
func WithSchemaValidation(t domain.Tool) (domain.Tool, error) {
	raw := t.Schema().Parameters
	if len(raw) == 0 || string(raw) == "null" {
		return t, nil
	}

	compiled, err := compileSchema(t.Name(), raw)
	if err != nil {
		return nil, err
	}
	return &schemaGate{inner: t, schema: compiled}, nil
}

// compileSchema compiles a raw parameter schema, keyed by tool name so
// compile errors identify the offending tool.
func compileSchema(name string, raw json.RawMessage) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	resource := name + ".schema.json"
	if err := compiler.AddResource(resource, bytes.NewReader(raw)); err != nil {
		return nil, domain.NewDomainError("compile schema", err, name)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, domain.NewDomainError("compile schema", err, name)
	}
	return compiled, nil
}

func (g *schemaGate) Name() string              { return g.inner.Name() }
func (g *schemaGate) Description() string       { return g.inner.Description() }
func (g *schemaGate) Schema() domain.ToolSchema { return g.inner.Schema() }

func (g *schemaGate) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	var v any
	if err := json.Unmarshal(params, &v); err != nil {
		rejection := domain.NewDomainError(g.inner.Name(), domain.ErrInvalidInput, "arguments are not valid JSON")
		return &domain.ToolResult{IsError: true, Content: rejection.Error()}, nil
	}

	if err := g.schema.Validate(v); err != nil {
		rejection := domain.NewDomainError(g.inner.Name(), domain.ErrInvalidInput, err.Error())
		return &domain.ToolResult{IsError: true, Content: rejection.Error()}, nil
	}

	return g.inner.Execute(ctx, params)
}
