// Package toolcatalog holds tool argument schemas for semantic analysis.
// The compiler does not own the authoritative tool catalog: the host's tool
// registry injects real schemas at construction time, and Builtin provides
// an illustrative table so the analyzer still works standalone. Tools absent
// from the catalog are reported at Info severity only.
package toolcatalog

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Property describes one parameter of a tool schema.
type Property struct {
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Schema defines required parameters and their types for one tool.
type Schema struct {
	Required   []string            `yaml:"required" json:"required"`
	Properties map[string]Property `yaml:"properties" json:"properties"`
}

// Registry is a thread-safe name→Schema table.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]Schema)}
}

// Register adds or replaces the schema for a tool.
func (r *Registry) Register(name string, schema Schema) error {
	if name == "" {
		return ErrEmptyToolName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[name] = schema
	return nil
}

// Get returns the schema for a tool.
func (r *Registry) Get(name string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Has reports whether the catalog knows the tool.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.schemas[name]
	return ok
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadYAML merges schemas read from r into the registry. The document is a
// map from tool name to schema, the shape the host's tool registry exports.
func (r *Registry) LoadYAML(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read schema catalog: %w", err)
	}
	var parsed map[string]Schema
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse schema catalog: %w", err)
	}
	for name, schema := range parsed {
		if err := r.Register(name, schema); err != nil {
			return err
		}
	}
	return nil
}

// Builtin returns a registry seeded with the illustrative schemas the
// analyzer falls back to when the host injects nothing.
func Builtin() *Registry {
	r := NewRegistry()
	for name, schema := range builtinSchemas {
		r.schemas[name] = schema
	}
	return r
}

var builtinSchemas = map[string]Schema{
	"read_file": {
		Required: []string{"path"},
		Properties: map[string]Property{
			"path":  {Type: "string", Description: "File path to read"},
			"limit": {Type: "number", Description: "Maximum number of lines"},
		},
	},
	"write_file": {
		Required: []string{"path", "content"},
		Properties: map[string]Property{
			"path":    {Type: "string", Description: "File path to write"},
			"content": {Type: "string", Description: "Content to write"},
		},
	},
	"delete_file": {
		Required: []string{"path"},
		Properties: map[string]Property{
			"path": {Type: "string", Description: "File path to delete"},
		},
	},
	"list_directory": {
		Required: []string{"path"},
		Properties: map[string]Property{
			"path": {Type: "string", Description: "Directory to list"},
		},
	},
	"execute_command": {
		Required: []string{"command"},
		Properties: map[string]Property{
			"command": {Type: "string", Description: "Shell command to run"},
			"timeout": {Type: "number", Description: "Timeout in seconds"},
		},
	},
	"search_files": {
		Required: []string{"pattern"},
		Properties: map[string]Property{
			"pattern": {Type: "string", Description: "Search pattern"},
			"path":    {Type: "string", Description: "Directory to search"},
		},
	},
}
