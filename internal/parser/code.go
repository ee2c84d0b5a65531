package parser

import (
	"regexp"
	"strings"

	"termchat/internal/ast"
)

var (
	codeFencePattern     = regexp.MustCompile("(?s)```([A-Za-z0-9_+-]*)[ \t]*\n(.*?)```")
	openFencePattern     = regexp.MustCompile("(?s)```([A-Za-z0-9_+-]*)[ \t]*\n(.*)$")
	shellLanguageAliases = map[string]bool{"bash": true, "sh": true, "shell": true, "zsh": true}
)

// extractCode pulls fenced code blocks from text. A fenced shell one-liner
// is a command suggestion, not code to display, and becomes a Command node
// instead. An unterminated fence degrades gracefully: everything to EOF is
// treated as the block body.
func extractCode(text string) ([]ast.Node, []span) {
	var nodes []ast.Node
	var removals []span

	record := func(lang, body string, start, end int) {
		removals = append(removals, span{start: start, end: end})
		loc := ast.Span{Start: start, End: end}
		trimmed := strings.TrimRight(body, "\n")
		if shellLanguageAliases[strings.ToLower(lang)] {
			lines := strings.Split(strings.TrimSpace(trimmed), "\n")
			if len(lines) == 1 && lines[0] != "" {
				nodes = append(nodes, &ast.Command{Line: strings.TrimPrefix(lines[0], "$ "), Loc: loc})
				return
			}
		}
		nodes = append(nodes, &ast.Code{Language: lang, Body: trimmed, Loc: loc})
	}

	consumed := 0
	for _, loc := range codeFencePattern.FindAllStringSubmatchIndex(text, -1) {
		record(text[loc[2]:loc[3]], text[loc[4]:loc[5]], loc[0], loc[1])
		consumed = loc[1]
	}

	if loc := openFencePattern.FindStringSubmatchIndex(text[consumed:]); loc != nil {
		start := consumed + loc[0]
		record(text[consumed+loc[2]:consumed+loc[3]], text[consumed+loc[4]:], start, len(text))
	}

	return nodes, removals
}
