// Package parser turns raw model output into a response tree. One strategy
// exists per model-family dialect; selection happens once, at compiler
// construction, from an explicit lookup table keyed on provider and model
// name. Strategies are total: they never fail, and in the worst case the
// whole input collapses into a single text node.
package parser

import (
	"strings"

	"termchat/internal/ast"
	"termchat/internal/lexer"
	"termchat/internal/toolcatalog"
)

// Context carries the per-compile inputs a strategy needs beyond the text.
type Context struct {
	Provider         string
	Model            string
	PreserveThoughts bool

	// Tokens is the lexer output for the same text. Strategies tokenize
	// themselves when the caller leaves it nil.
	Tokens []lexer.Token

	// Catalog lets extraction map a lone unnamed argument onto a tool's
	// sole required parameter. Optional.
	Catalog *toolcatalog.Registry
}

// Capabilities declares what a strategy knows how to extract.
type Capabilities struct {
	ToolCalls  bool
	TagDialect bool
	Thoughts   bool
	CodeBlocks bool
	FileRefs   bool
	Questions  bool
	Commands   bool
}

// ValidationResult reports strategy-level tree checks.
type ValidationResult struct {
	Valid  bool
	Issues []string
}

// Strategy is the per-dialect parser contract.
type Strategy interface {
	Name() string
	Parse(text string, pctx Context) *ast.Response
	Validate(tree *ast.Response) ValidationResult
	Capabilities() Capabilities
}

// selectionRule maps a provider/model predicate to a strategy.
type selectionRule struct {
	name  string
	match func(provider, model string) bool
	build func() Strategy
}

// The table is evaluated in order; first match wins. The generic dialect
// is the fallback for anything unrecognized.
var selectionRules = []selectionRule{
	{
		name: "tag_dialect_models",
		match: func(provider, model string) bool {
			m := strings.ToLower(model)
			return strings.Contains(m, "qwen") ||
				strings.Contains(m, "glm") ||
				strings.Contains(m, "deepseek")
		},
		build: func() Strategy { return NewTagDialect() },
	},
	{
		name: "tag_dialect_providers",
		match: func(provider, model string) bool {
			p := strings.ToLower(provider)
			return p == "zai" || p == "ollama-qwen"
		},
		build: func() Strategy { return NewTagDialect() },
	},
}

// RegisterRule prepends a selection rule so hosts can route new model
// families to a custom strategy without touching the table.
func RegisterRule(name string, match func(provider, model string) bool, build func() Strategy) {
	selectionRules = append([]selectionRule{{name: name, match: match, build: build}}, selectionRules...)
}

// ForModel picks the strategy for a provider/model pair.
func ForModel(provider, model string) Strategy {
	for _, r := range selectionRules {
		if r.match(provider, model) {
			return r.build()
		}
	}
	return NewGenericDialect()
}
