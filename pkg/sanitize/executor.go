package sanitize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scrublab/scrub/pkg/models"
)

// ProviderFactory resolves a provider name to a text-generation backend.
// It exists so tests can substitute a stub without network access.
type ProviderFactory func(ctx context.Context, provider, model string) (models.Agent, error)

// Executor runs a sanitization tool by resolving its fixed instruction and
// making exactly one generation call. No retries, no caching: a backend
// failure propagates to the caller.
type Executor struct {
	defaultProvider string
	model           string
	timeout         time.Duration
	newProvider     ProviderFactory
}

// ExecutorOptions configure a new Executor.
type ExecutorOptions struct {
	// DefaultProvider is used when a request does not name a provider.
	DefaultProvider string
	// Model is the backend model identifier handed to the provider factory.
	Model string
	// Timeout bounds a single generation call; zero means no bound beyond
	// the caller's context.
	Timeout time.Duration
	// NewProvider overrides the backend factory; nil means models.NewProvider.
	NewProvider ProviderFactory
}

// NewExecutor creates an Executor with the provided options.
func NewExecutor(opts ExecutorOptions) (*Executor, error) {
	if strings.TrimSpace(opts.DefaultProvider) == "" {
		return nil, errors.New("executor requires a default provider")
	}
	factory := opts.NewProvider
	if factory == nil {
		factory = func(ctx context.Context, provider, model string) (models.Agent, error) {
			return models.NewProvider(ctx, provider, model)
		}
	}
	return &Executor{
		defaultProvider: opts.DefaultProvider,
		model:           opts.Model,
		timeout:         opts.Timeout,
		newProvider:     factory,
	}, nil
}

// Execute sanitizes the text argument with the named tool's instruction.
// The provider string is passed through untouched beyond selecting the
// invocation path; empty means the executor's default.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any, provider string) (string, error) {
	text, _ := args["text"].(string)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("text argument is empty")
	}

	if strings.TrimSpace(provider) == "" {
		provider = e.defaultProvider
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	agent, err := e.newProvider(ctx, provider, e.model)
	if err != nil {
		return "", fmt.Errorf("resolve provider %s: %w", provider, err)
	}

	prompt := InstructionFor(name) + "\n\nText:\n" + text
	out, err := agent.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", name, err)
	}
	return out, nil
}
