package analyzer

import (
	"strings"

	"termchat/internal/ast"
	"termchat/internal/diag"
)

// checkIncompleteCode flags code blocks that look cut off: trailing
// ellipsis or TODO markers rate an Info, unbalanced brackets a Warning.
func checkIncompleteCode(tree *ast.Response, bag *diag.Bag) {
	ast.Walk(tree, func(n ast.Node) bool {
		code, ok := n.(*ast.Code)
		if !ok {
			return true
		}
		body := strings.TrimSpace(code.Body)
		if body == "" {
			return true
		}

		if strings.HasSuffix(body, "...") || strings.HasSuffix(body, "…") {
			d := diag.Infof(diag.PhaseSemantic, "code block appears truncated (trailing ellipsis)")
			d.Node = code
			bag.Add(d)
		}
		if strings.Contains(body, "TODO") || strings.Contains(body, "FIXME") {
			d := diag.Infof(diag.PhaseSemantic, "code block contains TODO/FIXME markers")
			d.Node = code
			bag.Add(d)
		}
		if !bracketsBalanced(body) {
			d := diag.Warningf(diag.PhaseSemantic, "code block has unbalanced brackets")
			d.Node = code
			bag.Add(d)
		}
		return true
	})
}

// bracketsBalanced checks (), [], {} nesting while ignoring everything
// inside string and character literals, including escape sequences. A
// closing bracket that does not match the innermost open one counts as
// unbalanced.
func bracketsBalanced(s string) bool {
	var stack []byte
	var quote byte // 0, '"', '\'' or '`'
	var escape bool

	for i := 0; i < len(s); i++ {
		b := s[i]
		if escape {
			escape = false
			continue
		}
		if quote != 0 {
			if b == '\\' && quote != '`' {
				escape = true
			} else if b == quote {
				quote = 0
			}
			continue
		}
		switch b {
		case '"', '\'', '`':
			quote = b
		case '(', '[', '{':
			stack = append(stack, b)
		case ')', ']', '}':
			if len(stack) == 0 {
				return false
			}
			open := stack[len(stack)-1]
			if (b == ')' && open != '(') || (b == ']' && open != '[') || (b == '}' && open != '{') {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	// An unterminated string literal means we cannot judge balance; do not
	// flag what we cannot prove.
	if quote != 0 {
		return true
	}
	return len(stack) == 0
}
