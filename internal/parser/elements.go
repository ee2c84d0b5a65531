package parser

import (
	"regexp"
	"strconv"
	"strings"

	"termchat/internal/ast"
	"termchat/internal/jsonrepair"
)

// Path shapes a file reference can take: absolute, explicitly relative,
// slash-separated, or a bare name with an extension. An optional :N line
// reference may follow.
const pathPat = "`?((?:/|\\./)[A-Za-z0-9_./-]+|[A-Za-z0-9_-]+(?:/[A-Za-z0-9_.-]+)+|[A-Za-z0-9_-]+\\.[A-Za-z0-9]+)`?(?::(\\d+))?"

// fileRefRules map file-operation verbs to reference patterns. One rule
// per operation; adding a dialect's phrasing means adding here, with a test.
var fileRefRules = []struct {
	op      ast.FileOp
	pattern *regexp.Regexp
}{
	{ast.OpDelete, regexp.MustCompile(`(?i)\b(?:delet(?:e|ed|ing)|remov(?:e|ed|ing))\s+(?:the\s+)?(?:file\s+)?` + pathPat)},
	{ast.OpCreate, regexp.MustCompile(`(?i)\b(?:creat(?:e|ed|ing))\s+(?:a\s+)?(?:new\s+)?(?:file\s+)?` + pathPat)},
	{ast.OpWrite, regexp.MustCompile(`(?i)\b(?:writ(?:e|ing)|wrote|sav(?:e|ed|ing))\s+(?:to\s+)?(?:the\s+)?(?:file\s+)?` + pathPat)},
	{ast.OpModify, regexp.MustCompile(`(?i)\b(?:modif(?:y|ied|ying)|updat(?:e|ed|ing)|edit(?:ed|ing)?|chang(?:e|ed|ing))\s+(?:the\s+)?(?:file\s+)?` + pathPat)},
	{ast.OpRead, regexp.MustCompile(`(?i)\b(?:read(?:ing)?|open(?:ed|ing)?|view(?:ed|ing)?|look(?:ed|ing)?\s+at)\s+(?:the\s+)?(?:file\s+)?` + pathPat)},
}

// extractFileRefs finds file-operation intents in the residual text. File
// references annotate the narrative rather than replacing it, so nothing is
// consumed.
func extractFileRefs(text string) []*ast.FileRef {
	var refs []*ast.FileRef
	seen := make(map[string]bool)

	for _, rule := range fileRefRules {
		for _, loc := range rule.pattern.FindAllStringSubmatchIndex(text, -1) {
			path := text[loc[2]:loc[3]]
			line := 0
			if loc[4] >= 0 {
				line, _ = strconv.Atoi(text[loc[4]:loc[5]])
			}
			key := rule.op.String() + "|" + path + "|" + strconv.Itoa(line)
			if seen[key] {
				continue
			}
			seen[key] = true
			refs = append(refs, &ast.FileRef{
				Path: path,
				Op:   rule.op,
				Line: line,
				Loc:  ast.Span{Start: loc[0], End: loc[1]},
			})
		}
	}
	return refs
}

var questionPattern = regexp.MustCompile(`[^.!?\n]+\?`)

var yesNoStarters = map[string]bool{
	"do": true, "does": true, "did": true, "should": true, "shall": true,
	"would": true, "will": true, "can": true, "could": true, "is": true,
	"are": true, "was": true, "were": true, "may": true, "might": true,
	"am": true, "have": true, "has": true,
}

// extractQuestions pulls question sentences out of the residual text.
func extractQuestions(text string) ([]*ast.Question, []span) {
	var nodes []*ast.Question
	var removals []span

	for _, loc := range questionPattern.FindAllStringIndex(text, -1) {
		prompt := strings.TrimSpace(text[loc[0]:loc[1]])
		prompt = strings.TrimLeft(prompt, "-*> ")
		if prompt == "" || prompt == "?" {
			continue
		}
		first := strings.ToLower(strings.SplitN(prompt, " ", 2)[0])
		nodes = append(nodes, &ast.Question{
			Prompt: prompt,
			YesNo:  yesNoStarters[first],
			Loc:    ast.Span{Start: loc[0], End: loc[1]},
		})
		removals = append(removals, span{start: loc[0], end: loc[1]})
	}
	return nodes, removals
}

var commandLinePattern = regexp.MustCompile(`(?m)^\$ (.+)$`)

// extractCommands finds shell-style "$ "-prefixed lines.
func extractCommands(text string) ([]*ast.Command, []span) {
	var nodes []*ast.Command
	var removals []span
	for _, loc := range commandLinePattern.FindAllStringSubmatchIndex(text, -1) {
		nodes = append(nodes, &ast.Command{
			Line: strings.TrimSpace(text[loc[2]:loc[3]]),
			Loc:  ast.Span{Start: loc[0], End: loc[1]},
		})
		removals = append(removals, span{start: loc[0], end: loc[1]})
	}
	return nodes, removals
}

var markdownElementPattern = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$|^([-*])\s+(.+)$|^>\s?(.*)$`)

// extractMarkdown finds structural markdown lines: headings, list items,
// block quotes.
func extractMarkdown(text string) ([]*ast.Markdown, []span) {
	var nodes []*ast.Markdown
	var removals []span

	for _, loc := range markdownElementPattern.FindAllStringSubmatchIndex(text, -1) {
		node := &ast.Markdown{Loc: ast.Span{Start: loc[0], End: loc[1]}}
		switch {
		case loc[2] >= 0:
			node.Marker = ast.MarkdownHeading
			node.Content = text[loc[4]:loc[5]]
		case loc[6] >= 0:
			node.Marker = ast.MarkdownList
			node.Content = text[loc[8]:loc[9]]
		default:
			node.Marker = ast.MarkdownQuote
			node.Content = text[loc[10]:loc[11]]
		}
		nodes = append(nodes, node)
		removals = append(removals, span{start: loc[0], end: loc[1]})
	}
	return nodes, removals
}

// detectFormat classifies what is left of the residual text.
func detectFormat(text string) ast.TextFormat {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ast.FormatPlain
	}
	if (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) && jsonrepair.IsCompleteJSON(trimmed) {
		return ast.FormatJSON
	}
	if strings.Contains(trimmed, "**") || strings.Contains(trimmed, "`") ||
		strings.Contains(trimmed, "](") {
		return ast.FormatMarkdown
	}
	return ast.FormatPlain
}
