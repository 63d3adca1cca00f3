package sanitize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/scrublab/scrub/pkg/models"
)

type countingAgent struct {
	calls  int
	reply  string
	err    error
	prompt string
}

func (c *countingAgent) Generate(ctx context.Context, prompt string) (string, error) {
	c.calls++
	c.prompt = prompt
	return c.reply, c.err
}

func TestNewCatalogRegistersAllTools(t *testing.T) {
	cat, err := NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	if cat.Len() != 4 {
		t.Fatalf("expected 4 tools, got %d", cat.Len())
	}
	want := []string{ToolAnonymizePII, ToolRedactFinancial, ToolRedactMedical, ToolGeneralSanitize}
	for i, spec := range cat.Specs() {
		if spec.Name != want[i] {
			t.Fatalf("tool %d: expected %s, got %s", i, want[i], spec.Name)
		}
	}
}

func TestInstructionForFallsBack(t *testing.T) {
	if InstructionFor(ToolAnonymizePII) == genericInstruction {
		t.Fatal("anonymize_pii should have a dedicated instruction")
	}
	if InstructionFor("brand_new_tool") != genericInstruction {
		t.Fatal("unknown tool should fall back to the generic instruction")
	}
	if InstructionFor(ToolGeneralSanitize) != genericInstruction {
		t.Fatal("general_sanitize should use the generic instruction")
	}
}

func TestExecuteMakesExactlyOneCall(t *testing.T) {
	agent := &countingAgent{reply: "[NAME] lives at [ADDRESS]."}
	exec, err := NewExecutor(ExecutorOptions{
		DefaultProvider: "dummy",
		NewProvider: func(ctx context.Context, provider, model string) (models.Agent, error) {
			return agent, nil
		},
	})
	if err != nil {
		t.Fatalf("NewExecutor failed: %v", err)
	}

	out, err := exec.Execute(context.Background(), ToolAnonymizePII, map[string]any{"text": "John lives in Rome."}, "")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "[NAME] lives at [ADDRESS]." {
		t.Fatalf("unexpected output: %q", out)
	}
	if agent.calls != 1 {
		t.Fatalf("expected exactly 1 generation call, got %d", agent.calls)
	}
	if !strings.Contains(agent.prompt, "John lives in Rome.") {
		t.Fatalf("prompt missing input text: %q", agent.prompt)
	}
	if !strings.Contains(agent.prompt, InstructionFor(ToolAnonymizePII)) {
		t.Fatalf("prompt missing tool instruction: %q", agent.prompt)
	}
}

func TestExecuteProviderPassThrough(t *testing.T) {
	var seen string
	exec, err := NewExecutor(ExecutorOptions{
		DefaultProvider: "openai",
		NewProvider: func(ctx context.Context, provider, model string) (models.Agent, error) {
			seen = provider
			return &countingAgent{reply: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("NewExecutor failed: %v", err)
	}

	if _, err := exec.Execute(context.Background(), ToolGeneralSanitize, map[string]any{"text": "x"}, "anthropic"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if seen != "anthropic" {
		t.Fatalf("expected provider anthropic, got %s", seen)
	}

	if _, err := exec.Execute(context.Background(), ToolGeneralSanitize, map[string]any{"text": "x"}, ""); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if seen != "openai" {
		t.Fatalf("expected default provider openai, got %s", seen)
	}
}

func TestExecutePropagatesBackendError(t *testing.T) {
	backendErr := errors.New("backend unavailable")
	exec, err := NewExecutor(ExecutorOptions{
		DefaultProvider: "dummy",
		NewProvider: func(ctx context.Context, provider, model string) (models.Agent, error) {
			return &countingAgent{err: backendErr}, nil
		},
	})
	if err != nil {
		t.Fatalf("NewExecutor failed: %v", err)
	}

	if _, err := exec.Execute(context.Background(), ToolRedactMedical, map[string]any{"text": "x"}, ""); !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestExecuteRejectsEmptyText(t *testing.T) {
	exec, err := NewExecutor(ExecutorOptions{
		DefaultProvider: "dummy",
		NewProvider: func(ctx context.Context, provider, model string) (models.Agent, error) {
			t.Fatal("factory must not be called for empty text")
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("NewExecutor failed: %v", err)
	}
	if _, err := exec.Execute(context.Background(), ToolAnonymizePII, map[string]any{}, ""); err == nil {
		t.Fatal("expected error for missing text argument")
	}
}
