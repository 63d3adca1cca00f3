package models

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"

	"github.com/scrublab/scrub/pkg/catalog"
)

// OllamaLLM talks to a local Ollama daemon. Ollama's generate endpoint has no
// structured tool-call output, so GenerateToolCall instructs the model to
// emit a single JSON object and parses it deterministically. That adaptation
// lives here, not in callers.
type OllamaLLM struct {
	Client *ollama.Client
	Model  string
}

func NewOllamaLLM(model string) (*OllamaLLM, error) {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = "http://localhost:11434"
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", host, err)
	}

	httpClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	return &OllamaLLM{Client: ollama.NewClient(u, httpClient), Model: model}, nil
}

func (o *OllamaLLM) Generate(ctx context.Context, prompt string) (string, error) {
	var text strings.Builder

	req := &ollama.GenerateRequest{
		Model:  o.Model,
		Prompt: prompt,
	}

	if err := o.Client.Generate(ctx, req, func(gr ollama.GenerateResponse) error {
		if gr.Response != "" {
			text.WriteString(gr.Response)
		}
		return nil
	}); err != nil {
		return "", err
	}

	return text.String(), nil
}

const toolCallFormatInstruction = `Respond with ONLY a single JSON object. NO markdown code blocks. NO explanations.
Format:
{"tool_name": "<exact tool name from the list>", "arguments": {"text": "<the text to process>"}}`

// GenerateToolCall is the fallback path for a backend without native
// structured output: instruct, generate, extract the first balanced JSON
// object, then parse. No object or an empty tool name means the model
// declined, which callers treat as a decision failure.
func (o *OllamaLLM) GenerateToolCall(ctx context.Context, prompt string, tools []catalog.ToolSpec) ([]ToolCall, error) {
	full := prompt + "\n\n" + toolCallFormatInstruction

	raw, err := o.Generate(ctx, full)
	if err != nil {
		return nil, err
	}

	call, ok := parseTextToolCall(raw)
	if !ok {
		return nil, nil
	}
	return []ToolCall{call}, nil
}

// parseTextToolCall recovers one tool invocation from free-form model
// output. It accepts both "tool_name" and the shorter "name" key, and runs
// the JSON through repair when a strict parse fails.
func parseTextToolCall(raw string) (ToolCall, bool) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return ToolCall{}, false
	}

	var parsed struct {
		ToolName  string         `json:"tool_name"`
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		repaired, err := decodeArguments(jsonStr)
		if err != nil {
			return ToolCall{}, false
		}
		parsed.ToolName, _ = repaired["tool_name"].(string)
		if parsed.ToolName == "" {
			parsed.Name, _ = repaired["name"].(string)
		}
		parsed.Arguments, _ = repaired["arguments"].(map[string]any)
	}

	name := strings.TrimSpace(parsed.ToolName)
	if name == "" {
		name = strings.TrimSpace(parsed.Name)
	}
	if name == "" {
		return ToolCall{}, false
	}
	if parsed.Arguments == nil {
		parsed.Arguments = map[string]any{}
	}
	return ToolCall{Name: name, Arguments: parsed.Arguments}, true
}

var (
	_ Agent      = (*OllamaLLM)(nil)
	_ ToolCaller = (*OllamaLLM)(nil)
)
