package jsonrepair

import (
	"encoding/json"
	"strings"

	"termchat/internal/ast"
)

// DecodeOrdered parses a JSON object into OrderedArgs, preserving the key
// order the model produced. Repairs the text first when strict decoding
// fails. Nested values stay as plain decoded Go values; only the top level
// needs ordering, since that is what invocation records hand downstream.
func DecodeOrdered(text string) (*ast.OrderedArgs, bool) {
	text = strings.TrimSpace(text)
	if args, ok := decodeOrderedStrict(text); ok {
		return args, true
	}
	repaired, changed := TryRepair(text)
	if !changed {
		return nil, false
	}
	return decodeOrderedStrict(repaired)
}

func decodeOrderedStrict(text string) (*ast.OrderedArgs, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false
	}

	args := ast.NewOrderedArgs()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, false
		}
		var value any
		vd := json.NewDecoder(strings.NewReader(string(raw)))
		vd.UseNumber()
		if err := vd.Decode(&value); err != nil {
			return nil, false
		}
		args.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	return args, true
}
