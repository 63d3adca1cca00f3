package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/scrublab/scrub/pkg/catalog"
)

// DummyLLM is a lightweight model implementation useful for local testing
// without API calls.
type DummyLLM struct {
	Prefix string
}

func NewDummyLLM(prefix string) *DummyLLM {
	if strings.TrimSpace(prefix) == "" {
		prefix = "Dummy response:"
	}
	return &DummyLLM{Prefix: prefix}
}

func (d *DummyLLM) Generate(_ context.Context, prompt string) (string, error) {
	lines := strings.Split(prompt, "\n")
	var last string
	for i := len(lines) - 1; i >= 0; i-- {
		candidate := strings.TrimSpace(lines[i])
		if candidate != "" {
			last = candidate
			break
		}
	}
	if last == "" {
		last = "<empty prompt>"
	}
	return fmt.Sprintf("%s %s", d.Prefix, last), nil
}

// GenerateToolCall picks the first tool whose description shares a word with
// the prompt. No match means no selection, mirroring how a real model
// declines an unresolvable intent.
func (d *DummyLLM) GenerateToolCall(_ context.Context, prompt string, tools []catalog.ToolSpec) ([]ToolCall, error) {
	words := strings.Fields(strings.ToLower(prompt))
	for _, spec := range tools {
		desc := strings.ToLower(spec.Description)
		for _, w := range words {
			if len(w) < 4 {
				continue
			}
			if strings.Contains(desc, w) {
				return []ToolCall{{
					Name:      spec.Name,
					Arguments: map[string]any{"text": prompt},
				}}, nil
			}
		}
	}
	return nil, nil
}

var (
	_ Agent      = (*DummyLLM)(nil)
	_ ToolCaller = (*DummyLLM)(nil)
)
