package scrub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/scrublab/scrub/pkg/catalog"
	"github.com/scrublab/scrub/pkg/models"
)

// textPreviewRunes caps how much of the user's text the selection model
// sees. The intent plus a short preview is enough to pick a tool; the full
// text only flows to the tool itself.
const textPreviewRunes = 200

// ErrNoToolSelected is returned when the model declines to pick any tool.
// There is no fallback tool: a run without a selection fails.
var ErrNoToolSelected = errors.New("model did not select a tool")

// Select asks the model to pick one tool for the given intent. When the
// model proposes several calls the first valid one wins. A selection
// naming an unregistered tool or failing its input schema is a decision
// error, not something silently patched up.
func Select(ctx context.Context, caller models.ToolCaller, tools []catalog.ToolSpec, intent, text string) (models.ToolCall, error) {
	if len(tools) == 0 {
		return models.ToolCall{}, errors.New("no tools available for selection")
	}

	prompt := selectionPrompt(tools, intent, text)
	calls, err := caller.GenerateToolCall(ctx, prompt, tools)
	if err != nil {
		return models.ToolCall{}, fmt.Errorf("tool selection: %w", err)
	}
	if len(calls) == 0 {
		return models.ToolCall{}, ErrNoToolSelected
	}

	call := calls[0]
	spec, ok := findSpec(tools, call.Name)
	if !ok {
		return models.ToolCall{}, fmt.Errorf("model selected unregistered tool %q", call.Name)
	}
	if call.Arguments == nil {
		call.Arguments = map[string]any{}
	}
	// The model only sees a preview; the tool gets the full text.
	call.Arguments["text"] = text
	if err := catalog.ValidateArguments(spec, call.Arguments); err != nil {
		return models.ToolCall{}, fmt.Errorf("model selected %s with invalid arguments: %w", call.Name, err)
	}
	call.Name = spec.Name
	return call, nil
}

func selectionPrompt(tools []catalog.ToolSpec, intent, text string) string {
	var sb strings.Builder
	sb.WriteString("You must sanitize a piece of text. Pick exactly one of the following tools, the one that best matches the user's intent.\n\nTools:\n")
	for _, t := range tools {
		fmt.Fprintf(&sb, "- %s: %s\n", t.Name, t.Description)
	}
	fmt.Fprintf(&sb, "\nUser intent: %s\n", intent)
	fmt.Fprintf(&sb, "Text preview: %s\n", previewText(text))
	return sb.String()
}

func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= textPreviewRunes {
		return text
	}
	return string(runes[:textPreviewRunes]) + "…"
}

func findSpec(tools []catalog.ToolSpec, name string) (catalog.ToolSpec, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, t := range tools {
		if strings.ToLower(t.Name) == needle {
			return t, true
		}
	}
	return catalog.ToolSpec{}, false
}
