package parser

import (
	"fmt"
	"strings"

	"termchat/internal/ast"
	"termchat/internal/logging"
)

// dialectConfig tunes the shared pipeline per strategy.
type dialectConfig struct {
	tagWrapped          bool
	thoughtLinePrefixes bool
}

// parse is the pipeline both dialects share: tool calls, thoughts, code
// fences, scrubbing, residual element extraction, and finally one text
// node for whatever survived. It cannot fail; a panic anywhere collapses
// the response into a single text node holding the raw input.
func parse(text string, pctx Context, cfg dialectConfig) (root *ast.Response) {
	root = &ast.Response{Source: text, Loc: ast.Span{Start: 0, End: len(text)}}

	defer func() {
		if r := recover(); r != nil {
			logging.Debug(logging.CategoryParser, "parse recovered: %v", r)
			root.Children = nil
			if strings.TrimSpace(text) != "" {
				root.Append(&ast.Text{Content: strings.TrimSpace(text), Format: ast.FormatPlain, Loc: root.Loc})
			}
		}
	}()

	if strings.TrimSpace(text) == "" {
		return root
	}

	calls, callSpans := extractToolCalls(text, &pctx, cfg.tagWrapped)
	residual := removeSpans(text, callSpans)

	thoughts, thoughtSpans := extractThoughts(residual, pctx.PreserveThoughts, cfg.thoughtLinePrefixes)
	residual = removeSpans(residual, mergeSpans(thoughtSpans))

	codeNodes, codeSpans := extractCode(residual)
	residual = removeSpans(residual, mergeSpans(codeSpans))

	residual = scrub(residual)

	fileRefs := extractFileRefs(residual)

	commands, cmdSpans := extractCommands(residual)
	residual = removeSpans(residual, mergeSpans(cmdSpans))

	questions, qSpans := extractQuestions(residual)
	residual = removeSpans(residual, mergeSpans(qSpans))

	markdown, mdSpans := extractMarkdown(residual)
	residual = removeSpans(residual, mergeSpans(mdSpans))

	for _, c := range calls {
		root.Append(c)
	}
	for _, t := range thoughts {
		root.Append(t)
	}
	root.Append(codeNodes...)
	for _, f := range fileRefs {
		root.Append(f)
	}
	for _, c := range commands {
		root.Append(c)
	}
	for _, q := range questions {
		root.Append(q)
	}
	for _, m := range markdown {
		root.Append(m)
	}

	if trimmed := strings.TrimSpace(residual); trimmed != "" {
		root.Append(&ast.Text{
			Content: trimmed,
			Format:  detectFormat(trimmed),
			Loc:     ast.Span{Start: 0, End: len(text)},
		})
	}

	return root
}

// validate runs the strategy-level invariant checks shared by dialects.
func validate(tree *ast.Response) ValidationResult {
	if tree == nil {
		return ValidationResult{Valid: false, Issues: []string{"tree is nil"}}
	}

	var issues []string
	seenIDs := make(map[string]bool)

	ast.Walk(tree, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.ToolCall:
			if strings.TrimSpace(node.Name) == "" {
				issues = append(issues, "tool call with empty name")
			}
			if node.CallID == "" {
				issues = append(issues, fmt.Sprintf("tool call %q has no call id", node.Name))
			} else if seenIDs[node.CallID] {
				issues = append(issues, fmt.Sprintf("duplicate call id %q", node.CallID))
			} else {
				seenIDs[node.CallID] = true
			}
		case *ast.Question:
			if strings.TrimSpace(node.Prompt) == "" {
				issues = append(issues, "question with empty prompt")
			}
		case *ast.FileRef:
			if strings.TrimSpace(node.Path) == "" {
				issues = append(issues, "file reference with empty path")
			}
		}
		return true
	})

	return ValidationResult{Valid: len(issues) == 0, Issues: issues}
}
