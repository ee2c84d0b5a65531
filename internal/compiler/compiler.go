// Package compiler orchestrates the response pipeline: lex, parse,
// analyze, optionally optimize, validate. Compile is total: any unexpected
// failure anywhere in the pipeline is caught at this boundary and
// downgraded to a single Error diagnostic.
//
// A Compiler instance is not safe for concurrent Compile or
// CompileIncremental calls: it caches the last result. Use one instance
// per conversation turn, or synchronize externally.
package compiler

import (
	"fmt"
	"time"

	"termchat/internal/analyzer"
	"termchat/internal/ast"
	"termchat/internal/diag"
	"termchat/internal/lexer"
	"termchat/internal/logging"
	"termchat/internal/optimizer"
	"termchat/internal/parser"
	"termchat/internal/renderer"
	"termchat/internal/toolcatalog"
)

// Options configures one compiler instance. The strategy is resolved from
// Provider and Model once, at construction.
type Options struct {
	Provider            string
	Model               string
	StrictMode          bool
	PreserveThoughts    bool
	EnableOptimizations bool
	NormalizePaths      bool
	StopOnLexicalErrors bool

	// Catalog is the injected tool schema table. Nil falls back to the
	// built-in illustrative schemas.
	Catalog *toolcatalog.Registry

	Render renderer.Config
}

// DefaultOptions returns the options a chat turn normally runs with.
func DefaultOptions() Options {
	return Options{
		EnableOptimizations: true,
		Render:              renderer.DefaultConfig(),
	}
}

// Result is the outcome of one compilation.
type Result struct {
	Success     bool
	Tokens      []lexer.Token
	Tree        *ast.Response
	Summary     analyzer.Summary
	Diagnostics []diag.Diagnostic
	Elapsed     time.Duration
}

// Compiler drives the pipeline with a fixed strategy and options.
type Compiler struct {
	opts     Options
	strategy parser.Strategy
	last     *Result
}

// New builds a compiler, selecting the parser strategy for the configured
// provider and model.
func New(opts Options) *Compiler {
	return &Compiler{
		opts:     opts,
		strategy: parser.ForModel(opts.Provider, opts.Model),
	}
}

// Strategy exposes the selected parser strategy.
func (c *Compiler) Strategy() parser.Strategy {
	return c.strategy
}

// LastResult returns the most recent compilation result, if any.
func (c *Compiler) LastResult() *Result {
	return c.last
}

// Compile runs the full pipeline over text. It never panics and never
// returns nil; identical input and options produce identical tokens, tree,
// and diagnostics (timing aside).
func (c *Compiler) Compile(text string) *Result {
	start := time.Now()
	res := &Result{}
	bag := diag.NewBag()

	defer func() {
		if r := recover(); r != nil {
			logging.Debug(logging.CategoryCompiler, "pipeline panic recovered: %v", r)
			bag.Add(diag.Errorf(diag.PhaseSemantic, "internal fault: %v", r))
			res.Diagnostics = bag.Items()
			res.Success = false
		}
		res.Elapsed = time.Since(start)
		c.last = res
	}()

	tokens, lexDiags := lexer.Tokenize(text)
	res.Tokens = tokens
	bag.AddAll(lexDiags)

	if c.opts.StopOnLexicalErrors && hasErrorSeverity(lexDiags) {
		res.Diagnostics = bag.Items()
		res.Success = false
		return res
	}

	pctx := parser.Context{
		Provider:         c.opts.Provider,
		Model:            c.opts.Model,
		PreserveThoughts: c.opts.PreserveThoughts,
		Tokens:           tokens,
		Catalog:          c.opts.Catalog,
	}
	tree := c.strategy.Parse(text, pctx)
	res.Tree = tree

	semDiags, summary := analyzer.Analyze(tree, analyzer.Options{
		Catalog:    c.opts.Catalog,
		StrictMode: c.opts.StrictMode,
	})
	bag.AddAll(semDiags)
	res.Summary = summary

	if c.opts.EnableOptimizations {
		optOpts := optimizer.DefaultOptions()
		optOpts.NormalizePaths = c.opts.NormalizePaths
		optimized, optDiags := optimizer.Optimize(tree, optOpts)
		res.Tree = optimized
		bag.AddAll(optDiags)
	}

	vr := c.strategy.Validate(res.Tree)
	for _, issue := range vr.Issues {
		if c.opts.StrictMode {
			bag.Add(diag.Errorf(diag.PhaseValidation, "%s", issue))
		} else {
			bag.Add(diag.Warningf(diag.PhaseValidation, "%s", issue))
		}
	}

	res.Diagnostics = bag.Items()
	res.Success = !bag.HasErrors()
	return res
}

// Render produces the display output and invocation records for a result
// using the compiler's render config.
func (c *Compiler) Render(res *Result) renderer.Output {
	if res == nil {
		return renderer.Output{}
	}
	return renderer.Render(res.Tree, c.opts.Render)
}

func hasErrorSeverity(ds []diag.Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

// String summarizes a result for debug logs.
func (r *Result) String() string {
	return fmt.Sprintf("success=%v nodes=%d diagnostics=%d elapsed=%s",
		r.Success, r.Summary.NodeCount, len(r.Diagnostics), r.Elapsed)
}
