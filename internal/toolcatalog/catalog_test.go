package toolcatalog

import (
	"errors"
	"strings"
	"testing"
)

func TestBuiltinSchemas(t *testing.T) {
	r := Builtin()
	for _, name := range []string{"read_file", "write_file", "delete_file", "execute_command"} {
		if !r.Has(name) {
			t.Errorf("builtin catalog missing %s", name)
		}
	}

	schema, ok := r.Get("write_file")
	if !ok {
		t.Fatal("write_file not found")
	}
	if len(schema.Required) != 2 {
		t.Errorf("write_file requires %v, want path and content", schema.Required)
	}
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	err := r.Register("fetch_url", Schema{
		Required:   []string{"url"},
		Properties: map[string]Property{"url": {Type: "string"}},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	schema, ok := r.Get("fetch_url")
	if !ok || schema.Properties["url"].Type != "string" {
		t.Errorf("Get(fetch_url) = %v, %v", schema, ok)
	}
}

func TestRegisterEmptyName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("", Schema{}); !errors.Is(err, ErrEmptyToolName) {
		t.Errorf("Register(\"\") = %v, want ErrEmptyToolName", err)
	}
}

func TestNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("zeta", Schema{})
	r.Register("alpha", Schema{})
	r.Register("mid", Schema{})

	names := r.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
run_tests:
  required: [package]
  properties:
    package:
      type: string
      description: Package to test
    verbose:
      type: boolean
`
	r := NewRegistry()
	if err := r.LoadYAML(strings.NewReader(doc)); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}

	schema, ok := r.Get("run_tests")
	if !ok {
		t.Fatal("run_tests not loaded")
	}
	if len(schema.Required) != 1 || schema.Required[0] != "package" {
		t.Errorf("required = %v", schema.Required)
	}
	if schema.Properties["verbose"].Type != "boolean" {
		t.Errorf("verbose type = %q", schema.Properties["verbose"].Type)
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadYAML(strings.NewReader("not: [valid: yaml")); err == nil {
		t.Error("malformed YAML should fail")
	}
}
