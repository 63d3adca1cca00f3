package models

import (
	"context"
	"errors"
	"fmt"
	"os"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/scrublab/scrub/pkg/catalog"
)

type GeminiLLM struct {
	Client *genai.Client
	Model  string
}

func NewGeminiLLM(ctx context.Context, model string) (*GeminiLLM, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY or GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &GeminiLLM{Client: client, Model: model}, nil
}

func (g *GeminiLLM) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.Client.GenerativeModel(g.Model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return firstPartText(resp)
}

// firstPartText pulls the first content part out of a response. A candidate
// with non-nil content can still carry zero parts, so every level is
// checked before indexing.
func firstPartText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: empty response")
	}
	return fmt.Sprint(resp.Candidates[0].Content.Parts[0]), nil
}

// GenerateToolCall uses native function declarations with function calling
// forced on, so the candidate carries FunctionCall parts rather than text.
func (g *GeminiLLM) GenerateToolCall(ctx context.Context, prompt string, tools []catalog.ToolSpec) ([]ToolCall, error) {
	model := g.Client.GenerativeModel(g.Model)

	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, spec := range tools {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  toGeminiSchema(spec),
		})
	}
	model.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	model.ToolConfig = &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{
			Mode: genai.FunctionCallingAny,
		},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("gemini: empty response")
	}

	var calls []ToolCall
	for _, part := range resp.Candidates[0].Content.Parts {
		fc, ok := part.(genai.FunctionCall)
		if !ok {
			continue
		}
		calls = append(calls, ToolCall{Name: fc.Name, Arguments: fc.Args})
	}
	return calls, nil
}

// toGeminiSchema converts a tool input schema into the genai schema type.
// Only object-of-string schemas occur in the sanitize catalog; anything else
// degrades to a permissive string property.
func toGeminiSchema(spec catalog.ToolSpec) *genai.Schema {
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: map[string]*genai.Schema{},
		Required:   requiredFields(spec),
	}
	for name, raw := range schemaProperties(spec) {
		prop := &genai.Schema{Type: genai.TypeString}
		if m, ok := raw.(map[string]any); ok {
			if desc, ok := m["description"].(string); ok {
				prop.Description = desc
			}
		}
		schema.Properties[name] = prop
	}
	return schema
}

var (
	_ Agent      = (*GeminiLLM)(nil)
	_ ToolCaller = (*GeminiLLM)(nil)
)
