package jsonrepair

import (
	"encoding/json"
	"strings"
)

// RawFields returns the raw JSON text of every top-level field of an
// object, repairing the input first when strict decoding fails. Extraction
// rules use this to reach nested payloads (tool_call.arguments) without
// losing the original key order of the nested object.
func RawFields(text string) (map[string]json.RawMessage, bool) {
	text = strings.TrimSpace(text)
	if fields, ok := rawFieldsStrict(text); ok {
		return fields, true
	}
	repaired, changed := TryRepair(text)
	if !changed {
		return nil, false
	}
	return rawFieldsStrict(repaired)
}

func rawFieldsStrict(text string) (map[string]json.RawMessage, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false
	}

	fields := make(map[string]json.RawMessage)
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
		fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	return fields, true
}

// StringField decodes a raw field as a string, tolerating unquoted text.
func StringField(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed[0] == '{' || trimmed[0] == '[' {
		return "", false
	}
	return strings.Trim(trimmed, `"`), true
}
