package lexer

// jsonSpan marks a candidate top-level JSON object in the input,
// [Start, End) byte offsets. Complete is false when the input ended while
// the object was still open.
type jsonSpan struct {
	Start    int
	End      int
	Complete bool
}

// scanJSONSpans finds top-level JSON object candidates using a byte-level
// state machine that tracks brace depth and string escaping. Byte iteration
// is safe for the ASCII delimiters involved: UTF-8 guarantees ASCII bytes
// never appear inside a multi-byte sequence.
func scanJSONSpans(s string) []jsonSpan {
	var spans []jsonSpan
	var depth int
	start := -1
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
		if depth > 0 && b == '"' {
			inString = true
			continue
		}

		switch b {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					spans = append(spans, jsonSpan{Start: start, End: i + 1, Complete: true})
					start = -1
				}
			}
		}
	}

	if depth > 0 && start != -1 {
		spans = append(spans, jsonSpan{Start: start, End: len(s), Complete: false})
	}
	return spans
}
