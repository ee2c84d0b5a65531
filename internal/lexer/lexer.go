// Package lexer tokenizes raw model output into lexical spans: fenced code
// blocks, candidate JSON objects, tag-style markers, markdown structure, and
// plain text runs. Tokenize is total; arbitrary input, including binary
// garbage rendered as text, yields a token stream plus diagnostics and never
// a panic.
package lexer

import (
	"regexp"
	"sort"
	"strings"

	"termchat/internal/diag"
)

// TokenKind classifies a lexical span.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenCodeFence
	TokenJSONSpan
	TokenTagOpen
	TokenTagClose
	TokenMarkdownMarker
)

func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenCodeFence:
		return "code_fence"
	case TokenJSONSpan:
		return "json_span"
	case TokenTagOpen:
		return "tag_open"
	case TokenTagClose:
		return "tag_close"
	case TokenMarkdownMarker:
		return "markdown_marker"
	default:
		return "unknown"
	}
}

// Token is one lexical span. Start/End are byte offsets [Start, End);
// Line and Column are 1-based and refer to the token start.
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int
	Column int
	Start  int
	End    int
}

// Tag markers the lexer recognizes. Thinking wrappers and tool wrappers
// from the tag-heavy model dialects.
var knownTags = []string{"tool_call", "tool_response", "think", "thinking", "scratchpad"}

var tagPattern = regexp.MustCompile(`</?(?:` + strings.Join(knownTags, "|") + `)>`)

var markdownLinePattern = regexp.MustCompile(`^(#{1,6}\s|[-*]\s|>\s?)`)

// Tokenize scans text into tokens. It never fails: the worst input still
// produces a (possibly single plain-text) token stream. Diagnostics carry
// Error severity only for ambiguities that block structural parsing, such
// as an unterminated code fence swallowing the rest of the input.
func Tokenize(text string) ([]Token, []diag.Diagnostic) {
	if text == "" {
		return nil, nil
	}

	lines := newLineIndex(text)
	var tokens []Token
	var diags []diag.Diagnostic

	// Code fences first: their interiors are opaque to every other rule.
	fences, fenceDiags := scanFences(text, lines)
	tokens = append(tokens, fences...)
	diags = append(diags, fenceDiags...)

	covered := func(start, end int) bool {
		for _, f := range fences {
			if start < f.End && end > f.Start {
				return true
			}
		}
		return false
	}

	// Tag markers outside fences.
	openTags := 0
	closeTags := 0
	for _, loc := range tagPattern.FindAllStringIndex(text, -1) {
		if covered(loc[0], loc[1]) {
			continue
		}
		kind := TokenTagOpen
		if strings.HasPrefix(text[loc[0]:], "</") {
			kind = TokenTagClose
			closeTags++
		} else {
			openTags++
		}
		tokens = append(tokens, makeToken(kind, text, loc[0], loc[1], lines))
	}
	if closeTags > openTags {
		diags = append(diags, diag.Infof(diag.PhaseLexical, "dangling close tag without a matching open tag"))
	} else if openTags > closeTags {
		diags = append(diags, diag.Warningf(diag.PhaseLexical, "unterminated tag marker"))
	}

	// Candidate JSON spans outside fences.
	for _, js := range scanJSONSpans(text) {
		if covered(js.Start, js.End) {
			continue
		}
		tok := makeToken(TokenJSONSpan, text, js.Start, js.End, lines)
		tokens = append(tokens, tok)
		if !js.Complete {
			d := diag.Warningf(diag.PhaseLexical, "unterminated JSON candidate at end of input")
			d.Line, d.Column = tok.Line, tok.Column
			diags = append(diags, d)
		}
	}

	// Markdown structural markers on lines outside every span found so far.
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Start < tokens[j].Start })
	inSpan := func(pos int) bool {
		for _, t := range tokens {
			if pos >= t.Start && pos < t.End {
				return true
			}
		}
		return false
	}
	for _, ls := range lines.starts {
		if inSpan(ls) {
			continue
		}
		lineEnd := lines.endOfLine(text, ls)
		if m := markdownLinePattern.FindStringIndex(text[ls:lineEnd]); m != nil {
			tokens = append(tokens, makeToken(TokenMarkdownMarker, text, ls+m[0], ls+m[1], lines))
		}
	}

	// Plain runs fill the gaps.
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Start < tokens[j].Start })
	var all []Token
	pos := 0
	for _, t := range tokens {
		if t.Start > pos {
			gap := text[pos:t.Start]
			if strings.TrimSpace(gap) != "" {
				all = append(all, makeToken(TokenText, text, pos, t.Start, lines))
			}
		}
		all = append(all, t)
		if t.End > pos {
			pos = t.End
		}
	}
	if pos < len(text) && strings.TrimSpace(text[pos:]) != "" {
		all = append(all, makeToken(TokenText, text, pos, len(text), lines))
	}
	if len(all) == 0 && strings.TrimSpace(text) != "" {
		all = append(all, makeToken(TokenText, text, 0, len(text), lines))
	}

	return all, diags
}

// scanFences finds triple-backtick code fences anchored at line starts.
func scanFences(text string, lines *lineIndex) ([]Token, []diag.Diagnostic) {
	var tokens []Token
	var diags []diag.Diagnostic

	pos := 0
	for {
		idx := indexAtLineStart(text, pos, "```")
		if idx < 0 {
			break
		}
		closeIdx := indexAtLineStart(text, idx+3, "```")
		if closeIdx < 0 {
			tok := makeToken(TokenCodeFence, text, idx, len(text), lines)
			tokens = append(tokens, tok)
			d := diag.Errorf(diag.PhaseLexical, "unterminated code fence spans rest of input")
			d.Line, d.Column = tok.Line, tok.Column
			diags = append(diags, d)
			break
		}
		end := closeIdx + 3
		tokens = append(tokens, makeToken(TokenCodeFence, text, idx, end, lines))
		pos = end
	}
	return tokens, diags
}

// indexAtLineStart finds the next occurrence of marker at or after from
// that sits at the beginning of a line.
func indexAtLineStart(text string, from int, marker string) int {
	for i := from; ; {
		j := strings.Index(text[i:], marker)
		if j < 0 {
			return -1
		}
		abs := i + j
		if abs == 0 || text[abs-1] == '\n' {
			return abs
		}
		i = abs + len(marker)
		if i >= len(text) {
			return -1
		}
	}
}

func makeToken(kind TokenKind, text string, start, end int, lines *lineIndex) Token {
	line, col := lines.position(start)
	return Token{
		Kind:   kind,
		Text:   text[start:end],
		Line:   line,
		Column: col,
		Start:  start,
		End:    end,
	}
}

// lineIndex maps byte offsets to 1-based line/column pairs.
type lineIndex struct {
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (li *lineIndex) position(offset int) (line, col int) {
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - li.starts[i] + 1
}

func (li *lineIndex) endOfLine(text string, lineStart int) int {
	if i := strings.IndexByte(text[lineStart:], '\n'); i >= 0 {
		return lineStart + i
	}
	return len(text)
}
