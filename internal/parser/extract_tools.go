package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"termchat/internal/ast"
	"termchat/internal/jsonrepair"
	"termchat/internal/lexer"
	"termchat/internal/logging"
)

// Extraction rule names. Each rule is an independent pattern; two rules
// matching the same literal span collapse to one node via signature dedup.
const (
	ruleNestedToolCall = "nested_tool_call" // {"tool_call":{"name":...,"arguments":{...}}}
	ruleBareTool       = "bare_tool"        // {"tool":...,"parameters":...} / {"name":...,"arguments":...}
	ruleTagWrapped     = "tag_wrapped"      // <tool_call>{...}</tool_call>
)

var tagWrappedPattern = regexp.MustCompile(`(?s)<tool_call>(.*?)</tool_call>`)

// span is a byte range scheduled for removal from the residual text.
type span struct {
	start, end int
}

// toolExtractor accumulates tool calls across rules, deduplicating by
// signature as it goes. First occurrence wins.
type toolExtractor struct {
	pctx  *Context
	calls []*ast.ToolCall
	seen  map[string]bool
}

func newToolExtractor(pctx *Context) *toolExtractor {
	return &toolExtractor{pctx: pctx, seen: make(map[string]bool)}
}

// extractToolCalls runs every extraction rule over text and returns the
// surviving calls plus the byte ranges consumed by successful (or
// explicitly tool-tagged) matches.
func extractToolCalls(text string, pctx *Context, tagDialect bool) ([]*ast.ToolCall, []span) {
	ex := newToolExtractor(pctx)
	var removals []span

	// Tag-wrapped regions are unambiguous tool-call markup: they are
	// consumed whether or not their payload survives repair.
	if tagDialect {
		for _, loc := range tagWrappedPattern.FindAllStringSubmatchIndex(text, -1) {
			inner := text[loc[2]:loc[3]]
			whole := span{start: loc[0], end: loc[1]}
			removals = append(removals, whole)
			if call := ex.fromCandidate(ruleTagWrapped, inner, ast.Span{Start: loc[0], End: loc[1]}); call != nil {
				ex.add(call)
			}
		}
	}

	tokens := pctx.Tokens
	if tokens == nil {
		tokens, _ = lexer.Tokenize(text)
	}
	for _, tok := range tokens {
		if tok.Kind != lexer.TokenJSONSpan {
			continue
		}
		call := ex.fromCandidate("", tok.Text, ast.Span{Start: tok.Start, End: tok.End})
		if call == nil {
			continue
		}
		if ex.add(call) {
			removals = append(removals, span{start: tok.Start, end: tok.End})
		} else {
			// Duplicate of an earlier rule's match on the same payload;
			// still consume the span so it does not leak into the text node.
			removals = append(removals, span{start: tok.Start, end: tok.End})
		}
	}

	for i, call := range ex.calls {
		call.CallID = fmt.Sprintf("call_%d", i+1)
	}
	return ex.calls, mergeSpans(removals)
}

// add records a call unless its signature was already seen.
func (ex *toolExtractor) add(call *ast.ToolCall) bool {
	sig := call.Signature()
	if ex.seen[sig] {
		logging.Debug(logging.CategoryParser, "dropping duplicate tool call %s", sig)
		return false
	}
	ex.seen[sig] = true
	ex.calls = append(ex.calls, call)
	return true
}

// fromCandidate classifies and parses one JSON candidate. rule may be
// empty, in which case the candidate's own shape decides which pattern rule
// it falls under. Returns nil when the candidate is not a tool call or
// failed repair; failures are logged at debug level only.
func (ex *toolExtractor) fromCandidate(rule, candidate string, loc ast.Span) *ast.ToolCall {
	fields, ok := jsonrepair.RawFields(candidate)
	if !ok {
		if rule != "" {
			logging.Debug(logging.CategoryParser, "rule %s: candidate failed JSON repair: %.80s", rule, candidate)
		}
		return nil
	}

	if inner, exists := fields["tool_call"]; exists {
		if rule == "" {
			rule = ruleNestedToolCall
		}
		innerFields, ok := jsonrepair.RawFields(string(inner))
		if !ok {
			logging.Debug(logging.CategoryParser, "rule %s: nested payload failed JSON repair", rule)
			return nil
		}
		fields = innerFields
	}

	nameRaw, hasName := fields["tool"]
	if !hasName {
		nameRaw, hasName = fields["name"]
	}
	argsRaw, hasArgs := fields["arguments"]
	if !hasArgs {
		argsRaw, hasArgs = fields["parameters"]
	}

	if !hasName {
		return nil
	}
	if rule == "" {
		rule = ruleBareTool
	}
	// A bare {"name": ...} object with no argument payload is ordinary
	// JSON in the narrative, not a tool call.
	if rule == ruleBareTool && !hasArgs {
		return nil
	}

	name, ok := jsonrepair.StringField(nameRaw)
	if !ok || strings.TrimSpace(name) == "" {
		logging.Debug(logging.CategoryParser, "rule %s: candidate has no usable tool name", rule)
		return nil
	}
	name = strings.TrimSpace(name)

	args := ex.decodeArgs(name, argsRaw)
	return &ast.ToolCall{Name: name, Args: args, Loc: loc}
}

// decodeArgs parses the argument payload, preserving the model's key
// order. A payload that is not an object (the model forgot the parameter
// name) maps onto the tool's sole required parameter when the catalog
// knows it.
func (ex *toolExtractor) decodeArgs(tool string, raw json.RawMessage) *ast.OrderedArgs {
	if len(raw) == 0 {
		return ast.NewOrderedArgs()
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		if args, ok := jsonrepair.DecodeOrdered(trimmed); ok {
			return args
		}
		return ast.NewOrderedArgs()
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		value = strings.Trim(trimmed, `"`)
	}
	args := ast.NewOrderedArgs()
	key := "value"
	if ex.pctx.Catalog != nil {
		if schema, ok := ex.pctx.Catalog.Get(tool); ok && len(schema.Required) == 1 {
			key = schema.Required[0]
		}
	}
	args.Set(key, value)
	return args
}

// mergeSpans sorts removal ranges and merges overlaps.
func mergeSpans(spans []span) []span {
	if len(spans) <= 1 {
		return spans
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// removeSpans deletes the given (sorted, merged) ranges from text.
func removeSpans(text string, spans []span) string {
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	pos := 0
	for _, s := range spans {
		if s.start > pos {
			b.WriteString(text[pos:s.start])
		}
		if s.end > pos {
			pos = s.end
		}
	}
	if pos < len(text) {
		b.WriteString(text[pos:])
	}
	return b.String()
}
