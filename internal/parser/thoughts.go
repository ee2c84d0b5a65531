package parser

import (
	"regexp"
	"strings"

	"termchat/internal/ast"
)

// Thinking wrappers the strategies strip or retain. The unterminated form
// catches a model that got cut off mid-thought: everything to EOF is the
// thought, which is exactly how the user would read it.
var (
	thoughtBlockPattern = regexp.MustCompile(`(?s)<(think|thinking|scratchpad)>(.*?)</(?:think|thinking|scratchpad)>`)
	thoughtOpenTagPattern = regexp.MustCompile(`<(?:think|thinking|scratchpad)>`)
	thoughtLinePattern  = regexp.MustCompile(`(?m)^(?:Thinking|Thought):\s*(.+)$`)
)

// extractThoughts pulls thought spans out of text. Returns the nodes (only
// when preserve is set) and the removal ranges; thought text always leaves
// the residual either way.
func extractThoughts(text string, preserve, linePrefixes bool) ([]*ast.Thought, []span) {
	var nodes []*ast.Thought
	var removals []span

	record := func(content string, start, end int) {
		removals = append(removals, span{start: start, end: end})
		if preserve {
			content = strings.TrimSpace(content)
			if content != "" {
				nodes = append(nodes, &ast.Thought{Content: content, Loc: ast.Span{Start: start, End: end}})
			}
		}
	}

	matched := make([]span, 0, 4)
	for _, loc := range thoughtBlockPattern.FindAllStringSubmatchIndex(text, -1) {
		record(text[loc[4]:loc[5]], loc[0], loc[1])
		matched = append(matched, span{start: loc[0], end: loc[1]})
	}

	// An opening tag with no close swallows the rest of the input. Only
	// tags outside every matched block qualify; the first one wins.
	for _, loc := range thoughtOpenTagPattern.FindAllStringIndex(text, -1) {
		covered := false
		for _, m := range matched {
			if loc[0] >= m.start && loc[0] < m.end {
				covered = true
				break
			}
		}
		if !covered {
			record(text[loc[1]:], loc[0], len(text))
			break
		}
	}

	if linePrefixes {
		for _, loc := range thoughtLinePattern.FindAllStringSubmatchIndex(text, -1) {
			record(text[loc[2]:loc[3]], loc[0], loc[1])
		}
	}

	return nodes, removals
}
