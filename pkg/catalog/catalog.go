// Package catalog holds the registry of sanitization tools exposed over the
// dispatch RPC surface. The registry is populated once at process startup and
// treated as read-only afterwards.
package catalog

import (
	"fmt"
	"strings"
	"sync"
)

// ToolSpec describes a tool as it is shown to callers and to the selection
// model. Specs are immutable once registered; the registry owns them.
type ToolSpec struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	InputSchema  map[string]any `json:"inputSchema"`
	OutputSchema map[string]any `json:"outputSchema,omitempty"`
}

// Catalog is the ordered, in-memory tool registry. Registration order is
// significant: it is the order shown to humans and to the selection model,
// and Specs returns it verbatim on every call.
type Catalog struct {
	mu    sync.RWMutex
	specs map[string]ToolSpec
	order []string
}

// New constructs a catalog seeded with the provided specs. Seeding stops at
// the first invalid or duplicate spec so a wiring mistake surfaces instead of
// being hidden.
func New(specs ...ToolSpec) (*Catalog, error) {
	c := &Catalog{specs: make(map[string]ToolSpec)}
	for _, spec := range specs {
		if err := c.Register(spec); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a tool spec keyed by its name. Duplicate names return an
// error rather than overwriting: a duplicate registration is a programming
// error and silently replacing the earlier tool would hide it.
func (c *Catalog) Register(spec ToolSpec) error {
	key := strings.ToLower(strings.TrimSpace(spec.Name))
	if key == "" {
		return fmt.Errorf("tool name is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.specs[key]; exists {
		return fmt.Errorf("tool %s already registered", spec.Name)
	}
	c.specs[key] = spec
	c.order = append(c.order, key)
	return nil
}

// Lookup returns the spec for name. The boolean signals presence; a missing
// tool is an expected outcome callers must branch on, never a panic.
func (c *Catalog) Lookup(name string) (ToolSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	spec, ok := c.specs[strings.ToLower(strings.TrimSpace(name))]
	return spec, ok
}

// Specs returns a snapshot of the tool specifications in registration order.
func (c *Catalog) Specs() []ToolSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()

	specs := make([]ToolSpec, 0, len(c.order))
	for _, key := range c.order {
		specs = append(specs, c.specs[key])
	}
	return specs
}

// Len reports the number of registered tools.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// ValidateArguments checks args against the spec's input schema: every
// required property must be present, and properties declared as strings must
// carry string values. Selection output that fails this check is rejected
// instead of being coerced.
func ValidateArguments(spec ToolSpec, args map[string]any) error {
	if spec.InputSchema == nil {
		return nil
	}

	required, _ := spec.InputSchema["required"].([]string)
	if required == nil {
		if raw, ok := spec.InputSchema["required"].([]any); ok {
			for _, r := range raw {
				if s, ok := r.(string); ok {
					required = append(required, s)
				}
			}
		}
	}
	for _, field := range required {
		if _, ok := args[field]; !ok {
			return fmt.Errorf("tool %s: missing required argument %q", spec.Name, field)
		}
	}

	properties, _ := spec.InputSchema["properties"].(map[string]any)
	for field, value := range args {
		raw, ok := properties[field]
		if !ok {
			continue
		}
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if typ, _ := prop["type"].(string); typ == "string" {
			if _, ok := value.(string); !ok {
				return fmt.Errorf("tool %s: argument %q must be a string", spec.Name, field)
			}
		}
	}
	return nil
}
