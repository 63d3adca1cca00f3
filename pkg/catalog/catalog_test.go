package catalog

import "testing"

func spec(name string) ToolSpec {
	return ToolSpec{
		Name:        name,
		Description: "test tool " + name,
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []string{"text"},
		},
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	c, err := New(spec("Echo"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := c.Register(spec("echo")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	c, _ := New()
	if err := c.Register(ToolSpec{Name: "   "}); err == nil {
		t.Fatalf("expected empty name error")
	}
}

func TestSpecsPreserveRegistrationOrder(t *testing.T) {
	c, err := New(spec("gamma"), spec("alpha"), spec("beta"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	want := []string{"gamma", "alpha", "beta"}
	for call := 0; call < 3; call++ {
		specs := c.Specs()
		if len(specs) != len(want) {
			t.Fatalf("expected %d specs, got %d", len(want), len(specs))
		}
		for i, s := range specs {
			if s.Name != want[i] {
				t.Fatalf("call %d: expected %q at position %d, got %q", call, want[i], i, s.Name)
			}
		}
	}
}

func TestSpecsContainExactlyRegisteredNames(t *testing.T) {
	names := []string{"one", "two", "three"}
	var specs []ToolSpec
	for _, n := range names {
		specs = append(specs, spec(n))
	}
	c, err := New(specs...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	got := c.Specs()
	seen := map[string]int{}
	for _, s := range got {
		seen[s.Name]++
	}
	for _, n := range names {
		if seen[n] != 1 {
			t.Fatalf("expected exactly one descriptor for %q, got %d", n, seen[n])
		}
	}
	if len(got) != len(names) {
		t.Fatalf("expected %d descriptors, got %d", len(names), len(got))
	}
}

func TestLookupMissingToolSignalsNotFound(t *testing.T) {
	c, _ := New(spec("echo"))
	if _, ok := c.Lookup("nope"); ok {
		t.Fatalf("expected lookup miss for unregistered tool")
	}
	if s, ok := c.Lookup("ECHO"); !ok || s.Name != "echo" {
		t.Fatalf("expected case-insensitive lookup hit, got ok=%v spec=%+v", ok, s)
	}
}

func TestValidateArgumentsRequiresDeclaredFields(t *testing.T) {
	s := spec("echo")

	if err := ValidateArguments(s, map[string]any{"text": "hello"}); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if err := ValidateArguments(s, map[string]any{}); err == nil {
		t.Fatalf("expected missing required argument error")
	}
	if err := ValidateArguments(s, map[string]any{"text": 42}); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestValidateArgumentsHandlesDecodedSchema(t *testing.T) {
	// Schemas arriving over the wire decode "required" as []any.
	s := ToolSpec{
		Name: "wire",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []any{"text"},
		},
	}
	if err := ValidateArguments(s, map[string]any{}); err == nil {
		t.Fatalf("expected missing required argument error for decoded schema")
	}
	if err := ValidateArguments(s, map[string]any{"text": "ok"}); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
