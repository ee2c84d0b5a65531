// Package jsonrepair is the best-effort JSON correction layer the parser
// strategies lean on. Models emit JSON with smart quotes, trailing commas,
// unquoted keys, and mid-stream truncation; every function here is total
// and never panics. Unrepairable input simply reports failure.
package jsonrepair

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	unquotedKeyPattern  = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_\-]*)\s*:`)
	trailingCommaRegexp = regexp.MustCompile(`,\s*([}\]])`)
	singleQuotedRegexp  = regexp.MustCompile(`'([^'"\\]*)'`)
)

var smartQuoteReplacer = strings.NewReplacer(
	"“", `"`, // left double
	"”", `"`, // right double
	"„", `"`, // low double
	"‘", "'", // left single
	"’", "'", // right single
)

// SafeParse parses text into a JSON object, repairing it first when strict
// parsing fails. Returns (nil, false) on unrepairable input or when the
// top-level value is not an object.
func SafeParse(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, true
	}

	repaired, _ := TryRepair(text)
	if err := json.Unmarshal([]byte(repaired), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// TryRepair applies the known repair transforms in a fixed order and
// reports whether the text changed. The result is not guaranteed to parse;
// callers must still check.
func TryRepair(raw string) (string, bool) {
	s := smartQuoteReplacer.Replace(raw)
	s = stripControlChars(s)
	s = unquotedKeyPattern.ReplaceAllString(s, `$1"$2":`)
	s = singleQuotedRegexp.ReplaceAllString(s, `"$1"`)
	s = trailingCommaRegexp.ReplaceAllString(s, `$1`)
	s = completeBalance(s)
	return s, s != raw
}

// IsCompleteJSON reports whether text is a syntactically complete JSON
// value as-is, with no repair applied.
func IsCompleteJSON(text string) bool {
	return json.Valid([]byte(strings.TrimSpace(text)))
}

// stripControlChars removes C0 control characters except newline and tab.
// Models occasionally leak them into otherwise valid JSON.
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// completeBalance closes any string, object, or array left open at the end
// of the input. Tracks the real nesting order so truncated text like
// `{"a":[1,2` closes as `{"a":[1,2]}` and not `{"a":[1,2}]`.
func completeBalance(s string) string {
	var stack []byte
	var inString, escape bool

	for i := 0; i < len(s); i++ {
		b := s[i]
		if escape {
			escape = false
			continue
		}
		if inString {
			if b == '\\' {
				escape = true
			} else if b == '"' {
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, b)
		case '}':
			if len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
			}
		case ']':
			if len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var out strings.Builder
	out.WriteString(s)
	if inString {
		out.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			out.WriteByte('}')
		} else {
			out.WriteByte(']')
		}
	}
	return out.String()
}
