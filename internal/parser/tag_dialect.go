package parser

import "termchat/internal/ast"

// TagDialect parses the tag/JSON-heavy model families (qwen, glm,
// deepseek): tool calls arrive wrapped in <tool_call> tags or as bare JSON
// objects, thinking lives inside <think> blocks, and both forms routinely
// show up malformed or duplicated in one response.
type TagDialect struct{}

func NewTagDialect() *TagDialect { return &TagDialect{} }

func (d *TagDialect) Name() string { return "tag_dialect" }

func (d *TagDialect) Parse(text string, pctx Context) *ast.Response {
	return parse(text, pctx, dialectConfig{tagWrapped: true})
}

func (d *TagDialect) Validate(tree *ast.Response) ValidationResult {
	return validate(tree)
}

func (d *TagDialect) Capabilities() Capabilities {
	return Capabilities{
		ToolCalls:  true,
		TagDialect: true,
		Thoughts:   true,
		CodeBlocks: true,
		FileRefs:   true,
		Questions:  true,
		Commands:   true,
	}
}
