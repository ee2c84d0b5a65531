package ast

import (
	"bytes"
	"encoding/json"
	"sort"
)

// OrderedArgs is an insertion-ordered map from argument name to a
// JSON-compatible value. Models care about argument order less than we do:
// invocation records hand arguments downstream in the order the model wrote
// them, while signatures serialize with sorted keys so duplicate detection
// is order-independent.
type OrderedArgs struct {
	keys   []string
	values map[string]any
}

func NewOrderedArgs() *OrderedArgs {
	return &OrderedArgs{values: make(map[string]any)}
}

// Set stores a value under name, preserving first-insertion order.
func (a *OrderedArgs) Set(name string, value any) {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, exists := a.values[name]; !exists {
		a.keys = append(a.keys, name)
	}
	a.values[name] = value
}

// Get returns the value stored under name.
func (a *OrderedArgs) Get(name string) (any, bool) {
	if a == nil || a.values == nil {
		return nil, false
	}
	v, ok := a.values[name]
	return v, ok
}

// Keys returns the argument names in insertion order.
func (a *OrderedArgs) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

func (a *OrderedArgs) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Canonical serializes the arguments with sorted keys. Two argument sets
// with the same contents always canonicalize identically regardless of the
// order the model emitted them in.
func (a *OrderedArgs) Canonical() string {
	if a == nil || len(a.keys) == 0 {
		return "{}"
	}
	sorted := make([]string, len(a.keys))
	copy(sorted, a.keys)
	sort.Strings(sorted)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range sorted {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(a.values[k])
		if err != nil {
			vb, _ = json.Marshal(stringify(a.values[k]))
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.String()
}

// MarshalJSON emits the arguments in insertion order, the order the model
// produced them. Used when building tool-invocation records.
func (a *OrderedArgs) MarshalJSON() ([]byte, error) {
	if a == nil || len(a.keys) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
