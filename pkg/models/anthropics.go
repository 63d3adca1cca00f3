package models

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/scrublab/scrub/pkg/catalog"
)

// AnthropicLLM implements the Agent and ToolCaller interfaces using
// Anthropic's Messages API.
type AnthropicLLM struct {
	Client    *anthropic.Client
	Model     string
	MaxTokens int
}

// NewAnthropicLLM constructs a client. It reads ANTHROPIC_API_KEY from the env.
func NewAnthropicLLM(model string) *AnthropicLLM {
	key := os.Getenv("ANTHROPIC_API_KEY")
	cl := anthropic.NewClient(
		anthropicopt.WithAPIKey(key),
	)
	return &AnthropicLLM{
		Client:    &cl,
		Model:     model,
		MaxTokens: 1024,
	}
}

// Generate performs a single-turn completion and returns concatenated text.
func (a *AnthropicLLM) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := a.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.Model),
		MaxTokens: int64(a.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, cb := range msg.Content {
		if tb, ok := cb.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String(), nil
}

// GenerateToolCall uses native tool use. ToolChoiceAny forces the model to
// invoke one of the supplied tools instead of replying in prose.
func (a *AnthropicLLM) GenerateToolCall(ctx context.Context, prompt string, tools []catalog.ToolSpec) ([]ToolCall, error) {
	params := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, spec := range tools {
		tool := anthropic.ToolParam{
			Name:        spec.Name,
			Description: anthropic.String(spec.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schemaProperties(spec),
				Required:   requiredFields(spec),
			},
		}
		params = append(params, anthropic.ToolUnionParam{OfTool: &tool})
	}

	msg, err := a.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.Model),
		MaxTokens: int64(a.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Tools: params,
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfAny: &anthropic.ToolChoiceAnyParam{},
		},
	})
	if err != nil {
		return nil, err
	}

	var calls []ToolCall
	for _, cb := range msg.Content {
		tb, ok := cb.AsAny().(anthropic.ToolUseBlock)
		if !ok {
			continue
		}
		var args map[string]any
		if len(tb.Input) > 0 {
			if err := json.Unmarshal(tb.Input, &args); err != nil {
				return nil, err
			}
		}
		calls = append(calls, ToolCall{Name: tb.Name, Arguments: args})
	}
	return calls, nil
}

var (
	_ Agent      = (*AnthropicLLM)(nil)
	_ ToolCaller = (*AnthropicLLM)(nil)
)
