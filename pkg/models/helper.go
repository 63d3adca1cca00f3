package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"

	"github.com/scrublab/scrub/pkg/catalog"
)

// NewProvider returns a concrete text-generation Agent for the named backend.
func NewProvider(ctx context.Context, provider string, model string) (Agent, error) {
	switch provider {
	case "openai":
		return NewOpenAILLM(model), nil
	case "gemini", "google":
		return NewGeminiLLM(ctx, model)
	case "ollama":
		return NewOllamaLLM(model)
	case "anthropic", "claude":
		return NewAnthropicLLM(model), nil
	case "dummy":
		return NewDummyLLM(""), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// NewToolCaller returns the structured tool-invocation capability for the
// named backend. Every provider returned by NewProvider also implements
// ToolCaller, natively or via the instructed-JSON fallback.
func NewToolCaller(ctx context.Context, provider string, model string) (ToolCaller, error) {
	agent, err := NewProvider(ctx, provider, model)
	if err != nil {
		return nil, err
	}
	tc, ok := agent.(ToolCaller)
	if !ok {
		return nil, fmt.Errorf("provider %s does not support tool selection", provider)
	}
	return tc, nil
}

// extractJSON returns the first balanced {...} object embedded in s, or ""
// when none exists. Models that lack native structured output wrap their
// decision in prose; this pulls the decision back out deterministically.
func extractJSON(s string) string {
	start := -1
	depth := 0

	for i, ch := range s {
		switch ch {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// decodeArguments parses a JSON object of tool arguments, repairing common
// model output defects (trailing commas, single quotes, unquoted keys)
// before giving up.
func decodeArguments(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err == nil {
		return args, nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, fmt.Errorf("unparseable tool arguments: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &args); err != nil {
		return nil, fmt.Errorf("unparseable tool arguments after repair: %w", err)
	}
	return args, nil
}

// requiredFields reads the required-property list out of a tool input
// schema, tolerating both in-process ([]string) and wire-decoded ([]any)
// shapes.
func requiredFields(spec catalog.ToolSpec) []string {
	if spec.InputSchema == nil {
		return nil
	}
	if required, ok := spec.InputSchema["required"].([]string); ok {
		return required
	}
	raw, _ := spec.InputSchema["required"].([]any)
	var required []string
	for _, r := range raw {
		if s, ok := r.(string); ok {
			required = append(required, s)
		}
	}
	return required
}

// schemaProperties reads the property map out of a tool input schema.
func schemaProperties(spec catalog.ToolSpec) map[string]any {
	if spec.InputSchema == nil {
		return nil
	}
	properties, _ := spec.InputSchema["properties"].(map[string]any)
	return properties
}
