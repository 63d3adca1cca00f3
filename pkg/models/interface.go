package models

import (
	"context"

	"github.com/scrublab/scrub/pkg/catalog"
)

// Agent is a plain text-generation capability.
type Agent interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ToolCall is a single structured tool invocation produced by a model.
type ToolCall struct {
	Name      string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolCaller produces structured tool invocations for a prompt and a tool
// catalog. Backends with native function calling map onto this directly;
// backends without it are adapted inside their implementation (instructed
// JSON output plus deterministic parsing) so callers see one contract.
// Returning an empty slice means the model declined to pick a tool.
type ToolCaller interface {
	GenerateToolCall(ctx context.Context, prompt string, tools []catalog.ToolSpec) ([]ToolCall, error)
}
