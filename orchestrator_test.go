package scrub

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/scrublab/scrub/pkg/catalog"
	"github.com/scrublab/scrub/pkg/models"
	"github.com/scrublab/scrub/pkg/sanitize"
)

// fakeDispatch is an in-memory dispatch server.
type fakeDispatch struct {
	tools      []catalog.ToolSpec
	reply      string
	connectErr error
	listErr    error
	callErr    error
	calledTool string
	calledProv string
	callCount  int
}

func (f *fakeDispatch) Connect(_ context.Context) error { return f.connectErr }

func (f *fakeDispatch) ListTools(_ context.Context) ([]catalog.ToolSpec, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tools, nil
}

func (f *fakeDispatch) CallTool(_ context.Context, name string, _ map[string]any, provider string) (string, error) {
	f.callCount++
	f.calledTool = name
	f.calledProv = provider
	if f.callErr != nil {
		return "", f.callErr
	}
	return f.reply, nil
}

func stubFactory(caller models.ToolCaller) ToolCallerFactory {
	return func(_ context.Context, _, _ string) (models.ToolCaller, error) {
		return caller, nil
	}
}

func drain(t *testing.T, ch <-chan ProgressEvent) (got []Step, terminal ProgressEvent) {
	t.Helper()
	sawTerminal := false
	for ev := range ch {
		if sawTerminal {
			t.Fatal("event after terminal event")
		}
		if ev.Terminal() {
			terminal = ev
			sawTerminal = true
			continue
		}
		got = append(got, ev.Step)
	}
	if !sawTerminal {
		t.Fatal("stream closed without a terminal event")
	}
	return got, terminal
}

func TestRunEmitsAllStepsInOrder(t *testing.T) {
	dispatch := &fakeDispatch{tools: sanitize.ToolSpecs(), reply: "[NAME], email: [EMAIL]"}
	orch, err := New(Options{
		Provider:      "dummy",
		Model:         "test-model",
		Client:        dispatch,
		NewToolCaller: stubFactory(keywordCaller{}),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, terminal := drain(t, orch.Run(context.Background(), Request{
		Text:   "John Smith, email: john@x.com",
		Intent: "Anonymize PII",
	}))

	if len(got) != len(steps) {
		t.Fatalf("expected %d steps, got %d: %v", len(steps), len(got), got)
	}
	for i, step := range steps {
		if got[i] != step {
			t.Fatalf("step %d: expected %s, got %s", i, step, got[i])
		}
	}
	if terminal.Err != nil {
		t.Fatalf("unexpected error: %v", terminal.Err)
	}
	if terminal.Result.SanitizedText != "[NAME], email: [EMAIL]" {
		t.Fatalf("unexpected result text: %q", terminal.Result.SanitizedText)
	}
	if terminal.Result.ToolUsed != sanitize.ToolAnonymizePII {
		t.Fatalf("expected anonymize_pii, got %s", terminal.Result.ToolUsed)
	}
	if terminal.Result.ModelUsed != "dummy/test-model" {
		t.Fatalf("unexpected model label: %s", terminal.Result.ModelUsed)
	}
}

func TestRunSelectsFinancialTool(t *testing.T) {
	dispatch := &fakeDispatch{tools: sanitize.ToolSpecs(), reply: "[REDACTED-FINANCIAL]"}
	orch, err := New(Options{
		Provider:      "dummy",
		Client:        dispatch,
		NewToolCaller: stubFactory(keywordCaller{}),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, terminal := drain(t, orch.Run(context.Background(), Request{
		Text:   "IBAN: DE89 3704 0044 0532 0130 00",
		Intent: "Redact financial data",
	}))
	if terminal.Err != nil {
		t.Fatalf("unexpected error: %v", terminal.Err)
	}
	if dispatch.calledTool != sanitize.ToolRedactFinancial {
		t.Fatalf("expected redact_financial, got %s", dispatch.calledTool)
	}
}

func TestRunConnectFailureIsStrictPrefix(t *testing.T) {
	dispatch := &fakeDispatch{connectErr: errors.New("refused")}
	orch, err := New(Options{
		Provider:      "dummy",
		Client:        dispatch,
		NewToolCaller: stubFactory(keywordCaller{}),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, terminal := drain(t, orch.Run(context.Background(), Request{Text: "x", Intent: "anonymize"}))
	if len(got) != 1 || got[0] != StepConnectStart {
		t.Fatalf("expected [%s], got %v", StepConnectStart, got)
	}
	if terminal.Err == nil || !strings.Contains(terminal.Err.Error(), "refused") {
		t.Fatalf("expected connect error, got %v", terminal.Err)
	}
	if dispatch.callCount != 0 {
		t.Fatalf("no tool call expected after connect failure, got %d", dispatch.callCount)
	}
}

func TestRunSelectionFailureStopsBeforeExecution(t *testing.T) {
	dispatch := &fakeDispatch{tools: sanitize.ToolSpecs()}
	orch, err := New(Options{
		Provider:      "dummy",
		Client:        dispatch,
		NewToolCaller: stubFactory(&stubCaller{}), // never selects
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, terminal := drain(t, orch.Run(context.Background(), Request{Text: "x", Intent: "gibberish"}))
	want := []Step{StepConnectStart, StepConnectFinish, StepListTools}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("step %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if !errors.Is(terminal.Err, ErrNoToolSelected) {
		t.Fatalf("expected no-selection error, got %v", terminal.Err)
	}
	if dispatch.callCount != 0 {
		t.Fatalf("no tool call expected after selection failure, got %d", dispatch.callCount)
	}
}

func TestRunExecutionFailure(t *testing.T) {
	dispatch := &fakeDispatch{tools: sanitize.ToolSpecs(), callErr: errors.New("backend down")}
	orch, err := New(Options{
		Provider:      "dummy",
		Client:        dispatch,
		NewToolCaller: stubFactory(keywordCaller{}),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, terminal := drain(t, orch.Run(context.Background(), Request{Text: "x", Intent: "anonymize"}))
	if got[len(got)-1] != StepExecStart {
		t.Fatalf("expected run to stop at %s, got %v", StepExecStart, got)
	}
	if terminal.Err == nil || !strings.Contains(terminal.Err.Error(), "backend down") {
		t.Fatalf("expected execution error, got %v", terminal.Err)
	}
}

func TestRunPerRequestProviderOverride(t *testing.T) {
	dispatch := &fakeDispatch{tools: sanitize.ToolSpecs(), reply: "ok"}
	orch, err := New(Options{
		Provider:      "openai",
		Client:        dispatch,
		NewToolCaller: stubFactory(keywordCaller{}),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, terminal := drain(t, orch.Run(context.Background(), Request{
		Text:     "x",
		Intent:   "anonymize",
		Provider: "anthropic",
	}))
	if terminal.Err != nil {
		t.Fatalf("unexpected error: %v", terminal.Err)
	}
	if dispatch.calledProv != "anthropic" {
		t.Fatalf("expected provider override anthropic, got %s", dispatch.calledProv)
	}
	if terminal.Result.ModelUsed != "anthropic" {
		t.Fatalf("expected model label anthropic, got %s", terminal.Result.ModelUsed)
	}
}

func TestRunEmptyText(t *testing.T) {
	orch, err := New(Options{
		Provider:      "dummy",
		Client:        &fakeDispatch{},
		NewToolCaller: stubFactory(keywordCaller{}),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got, terminal := drain(t, orch.Run(context.Background(), Request{Intent: "anonymize"}))
	if len(got) != 0 {
		t.Fatalf("expected no steps, got %v", got)
	}
	if terminal.Err == nil {
		t.Fatal("expected error for empty text")
	}
}
