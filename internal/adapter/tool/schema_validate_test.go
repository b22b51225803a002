package tool

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"pinterest-mcp/internal/domain"
)

func TestWithSchemaValidationPassesValidParams(t *testing.T) {
	inner := &fakeTool{
		name: "checked",
		params: json.RawMessage(`{
			"type": "object",
			"properties": {"image_url": {"type": "string"}},
			"required": ["image_url"]
		}`),
	}
	wrapped, err := WithSchemaValidation(inner)
	if err != nil {
		t.Fatalf("WithSchemaValidation: %v", err)
	}

	res, err := wrapped.Execute(context.Background(), json.RawMessage(`{"image_url":"https://x/y.jpg"}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.IsError {
		t.Errorf("IsError = true, content: %s", res.Content)
	}
}

func TestWithSchemaValidationRejectsMissingRequired(t *testing.T) {
	inner := &fakeTool{
		name: "checked",
		params: json.RawMessage(`{
			"type": "object",
			"properties": {"image_url": {"type": "string"}},
			"required": ["image_url"]
		}`),
	}
	wrapped, err := WithSchemaValidation(inner)
	if err != nil {
		t.Fatalf("WithSchemaValidation: %v", err)
	}

	res, err := wrapped.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.IsError {
		t.Error("IsError = false, want schema validation failure")
	}
	if !strings.Contains(res.Content, "invalid input") {
		t.Errorf("Content = %q, want invalid input rejection", res.Content)
	}
}

func TestWithSchemaValidationBadSchema(t *testing.T) {
	inner := &fakeTool{
		name:   "broken",
		params: json.RawMessage(`{"type": 42}`),
	}
	if _, err := WithSchemaValidation(inner); err == nil {
		t.Error("WithSchemaValidation accepted a non-compiling schema")
	}
}

func TestWithSchemaValidationRejectsInvalidJSON(t *testing.T) {
	inner := &fakeTool{
		name:   "checked",
		params: json.RawMessage(`{"type": "object"}`),
	}
	wrapped, err := WithSchemaValidation(inner)
	if err != nil {
		t.Fatalf("WithSchemaValidation: %v", err)
	}

	res, err := wrapped.Execute(context.Background(), json.RawMessage(`{broken`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.IsError {
		t.Error("IsError = false, want invalid JSON error")
	}
}

func TestWithSchemaValidationNoSchemaPassthrough(t *testing.T) {
	inner := &fakeTool{name: "bare"}
	wrapped, err := WithSchemaValidation(inner)
	if err != nil {
		t.Fatalf("WithSchemaValidation: %v", err)
	}
	if wrapped != domain.Tool(inner) {
		t.Error("tool without schema should be returned unwrapped")
	}
}
