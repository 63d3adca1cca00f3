package models

import (
	"context"
	"errors"
	"os"

	"github.com/sashabaranov/go-openai"

	"github.com/scrublab/scrub/pkg/catalog"
)

type OpenAILLM struct {
	Client *openai.Client
	Model  string
}

func NewOpenAILLM(model string) *OpenAILLM {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_KEY") // fallback
	}
	return &OpenAILLM{Client: openai.NewClient(apiKey), Model: model}
}

func (o *OpenAILLM) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateToolCall uses the native function-calling API. The request demands
// a tool choice so the model cannot answer in prose.
func (o *OpenAILLM) GenerateToolCall(ctx context.Context, prompt string, tools []catalog.ToolSpec) ([]ToolCall, error) {
	oaTools := make([]openai.Tool, 0, len(tools))
	for _, spec := range tools {
		oaTools = append(oaTools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.InputSchema,
			},
		})
	}

	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		Tools:      oaTools,
		ToolChoice: "required",
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	var calls []ToolCall
	for _, tc := range resp.Choices[0].Message.ToolCalls {
		args, err := decodeArguments(tc.Function.Arguments)
		if err != nil {
			return nil, err
		}
		calls = append(calls, ToolCall{Name: tc.Function.Name, Arguments: args})
	}
	return calls, nil
}

var (
	_ Agent      = (*OpenAILLM)(nil)
	_ ToolCaller = (*OpenAILLM)(nil)
)
