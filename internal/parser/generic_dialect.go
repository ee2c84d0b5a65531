package parser

import "termchat/internal/ast"

// GenericDialect is the fallback for model families that answer in plain
// prose or markdown. It still extracts bare-JSON tool calls and code
// fences, and treats "Thinking:" line prefixes as thought spans, but it
// does not recognize tag-wrapped markup.
type GenericDialect struct{}

func NewGenericDialect() *GenericDialect { return &GenericDialect{} }

func (d *GenericDialect) Name() string { return "generic" }

func (d *GenericDialect) Parse(text string, pctx Context) *ast.Response {
	return parse(text, pctx, dialectConfig{thoughtLinePrefixes: true})
}

func (d *GenericDialect) Validate(tree *ast.Response) ValidationResult {
	return validate(tree)
}

func (d *GenericDialect) Capabilities() Capabilities {
	return Capabilities{
		ToolCalls:  true,
		Thoughts:   true,
		CodeBlocks: true,
		FileRefs:   true,
		Questions:  true,
		Commands:   true,
	}
}
