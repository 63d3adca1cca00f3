package scrub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/scrublab/scrub/pkg/catalog"
	"github.com/scrublab/scrub/pkg/models"
	"github.com/scrublab/scrub/pkg/rpc"
)

// DispatchClient is the slice of the dispatch protocol the orchestrator
// needs. *rpc.Client satisfies it.
type DispatchClient interface {
	Connect(ctx context.Context) error
	ListTools(ctx context.Context) ([]catalog.ToolSpec, error)
	CallTool(ctx context.Context, name string, args map[string]any, provider string) (string, error)
}

// ToolCallerFactory resolves the model used for tool selection.
type ToolCallerFactory func(ctx context.Context, provider, model string) (models.ToolCaller, error)

// Options configure an Orchestrator.
type Options struct {
	// ServerURL locates the dispatch server. Ignored when Client is set.
	ServerURL string
	// Provider is the default model backend for selection and execution.
	Provider string
	// Model is the backend model identifier.
	Model string
	// Client overrides the dispatch transport, mainly for tests.
	Client DispatchClient
	// NewToolCaller overrides the selection-model factory; nil means
	// models.NewToolCaller.
	NewToolCaller ToolCallerFactory
}

// Request is one sanitization job.
type Request struct {
	Text   string
	Intent string
	// Provider optionally overrides the orchestrator's default backend
	// for this request only.
	Provider string
}

// Orchestrator drives a sanitization run end to end and streams progress.
type Orchestrator struct {
	client        DispatchClient
	provider      string
	model         string
	newToolCaller ToolCallerFactory
}

// New builds an Orchestrator from options.
func New(opts Options) (*Orchestrator, error) {
	if strings.TrimSpace(opts.Provider) == "" {
		return nil, errors.New("orchestrator requires a provider")
	}
	client := opts.Client
	if client == nil {
		if strings.TrimSpace(opts.ServerURL) == "" {
			return nil, errors.New("orchestrator requires a server URL or client")
		}
		client = rpc.NewClient(opts.ServerURL)
	}
	factory := opts.NewToolCaller
	if factory == nil {
		factory = models.NewToolCaller
	}
	return &Orchestrator{
		client:        client,
		provider:      opts.Provider,
		model:         opts.Model,
		newToolCaller: factory,
	}, nil
}

// Run executes one sanitization job. The returned channel carries the
// pipeline steps the run reaches, in order, followed by exactly one
// terminal event (result or error), then closes. The caller must drain it.
func (o *Orchestrator) Run(ctx context.Context, req Request) <-chan ProgressEvent {
	events := make(chan ProgressEvent, len(steps)+1)

	go func() {
		defer close(events)
		result, err := o.run(ctx, req, events)
		if err != nil {
			events <- ProgressEvent{Err: err}
			return
		}
		events <- ProgressEvent{Result: result}
	}()

	return events
}

func (o *Orchestrator) run(ctx context.Context, req Request, events chan<- ProgressEvent) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("request text is empty")
	}

	provider := req.Provider
	if strings.TrimSpace(provider) == "" {
		provider = o.provider
	}

	events <- ProgressEvent{Step: StepConnectStart}
	if err := o.client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	events <- ProgressEvent{Step: StepConnectFinish}

	tools, err := o.client.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	events <- ProgressEvent{Step: StepListTools}

	caller, err := o.newToolCaller(ctx, provider, o.model)
	if err != nil {
		return nil, fmt.Errorf("selection model: %w", err)
	}
	call, err := Select(ctx, caller, tools, req.Intent, req.Text)
	if err != nil {
		return nil, err
	}
	events <- ProgressEvent{Step: StepSelectTool}

	events <- ProgressEvent{Step: StepExecStart}
	out, err := o.client.CallTool(ctx, call.Name, call.Arguments, provider)
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", call.Name, err)
	}
	events <- ProgressEvent{Step: StepExecFinish}

	return &Result{
		SanitizedText: out,
		ToolUsed:      call.Name,
		ModelUsed:     modelLabel(provider, o.model),
	}, nil
}

func modelLabel(provider, model string) string {
	if strings.TrimSpace(model) == "" {
		return provider
	}
	return provider + "/" + model
}
