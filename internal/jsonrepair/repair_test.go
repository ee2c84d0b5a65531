package jsonrepair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeParseStrict(t *testing.T) {
	obj, ok := SafeParse(`{"name":"read_file","arguments":{"path":"a.go"}}`)
	require.True(t, ok)
	assert.Equal(t, "read_file", obj["name"])
}

func TestSafeParseRepairs(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"smart quotes", `{“name”: “read_file”}`},
		{"trailing comma", `{"name": "read_file",}`},
		{"unquoted keys", `{name: "read_file", path: "a.go"}`},
		{"single quotes", `{'name': 'read_file'}`},
		{"truncated object", `{"name": "read_file", "arguments": {"path": "a.go"`},
		{"truncated string", `{"name": "read_fi`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj, ok := SafeParse(tc.input)
			require.True(t, ok, "input %q should repair", tc.input)
			assert.Contains(t, obj, "name")
		})
	}
}

func TestSafeParseRejects(t *testing.T) {
	for _, input := range []string{"", "   ", "not json at all", `[1,2,3]`, `"just a string"`} {
		_, ok := SafeParse(input)
		assert.False(t, ok, "input %q should not parse as an object", input)
	}
}

func TestTryRepairBalancesNestingOrder(t *testing.T) {
	repaired, changed := TryRepair(`{"a":[1,2`)
	assert.True(t, changed)
	assert.Equal(t, `{"a":[1,2]}`, repaired)
}

func TestTryRepairClosesOpenString(t *testing.T) {
	repaired, _ := TryRepair(`{"path": "a.g`)
	assert.Equal(t, `{"path": "a.g"}`, repaired)
}

func TestTryRepairNoChange(t *testing.T) {
	input := `{"a": 1}`
	repaired, changed := TryRepair(input)
	assert.False(t, changed)
	assert.Equal(t, input, repaired)
}

func TestIsCompleteJSON(t *testing.T) {
	assert.True(t, IsCompleteJSON(`{"a": 1}`))
	assert.True(t, IsCompleteJSON(`  [1, 2]  `))
	assert.False(t, IsCompleteJSON(`{"a": 1`))
	assert.False(t, IsCompleteJSON(`{'a': 1}`))
	assert.False(t, IsCompleteJSON(""))
}

func TestDecodeOrderedPreservesKeyOrder(t *testing.T) {
	args, ok := DecodeOrdered(`{"zebra": 1, "apple": "two", "mango": [3]}`)
	require.True(t, ok)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, args.Keys())
}

func TestDecodeOrderedRepairs(t *testing.T) {
	args, ok := DecodeOrdered(`{path: "a.go", limit: 10`)
	require.True(t, ok)
	assert.Equal(t, []string{"path", "limit"}, args.Keys())

	v, ok := args.Get("path")
	require.True(t, ok)
	assert.Equal(t, "a.go", v)
}

func TestDecodeOrderedRejectsNonObject(t *testing.T) {
	for _, input := range []string{`[1,2]`, `42`, `"text"`, "plain words"} {
		_, ok := DecodeOrdered(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestRawFieldsNested(t *testing.T) {
	fields, ok := RawFields(`{"tool_call": {"name": "write_file", "arguments": {"path": "x"}}}`)
	require.True(t, ok)
	require.Contains(t, fields, "tool_call")

	inner, ok := RawFields(string(fields["tool_call"]))
	require.True(t, ok)
	assert.Contains(t, inner, "name")
	assert.Contains(t, inner, "arguments")
}

func TestStringField(t *testing.T) {
	s, ok := StringField([]byte(`"read_file"`))
	require.True(t, ok)
	assert.Equal(t, "read_file", s)

	s, ok = StringField([]byte(`read_file`))
	require.True(t, ok)
	assert.Equal(t, "read_file", s)

	_, ok = StringField([]byte(`{"nested": true}`))
	assert.False(t, ok)
}
