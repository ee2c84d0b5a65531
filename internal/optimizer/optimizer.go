// Package optimizer rewrites a response tree before rendering. It is the
// single pass allowed to mutate a tree, it runs at most once per compile,
// and it is deterministic: identical trees optimize identically.
package optimizer

import (
	"strings"

	"termchat/internal/ast"
	"termchat/internal/diag"
	"termchat/internal/logging"
)

// Options selects which rewrites run.
type Options struct {
	DropDuplicateCalls bool
	MergeTextNodes     bool
	NormalizePaths     bool
}

// DefaultOptions enables everything except path normalization, which
// changes user-visible paths and stays opt-in.
func DefaultOptions() Options {
	return Options{DropDuplicateCalls: true, MergeTextNodes: true}
}

// Optimize rewrites the tree in place and returns it, with Info
// diagnostics summarizing what was removed.
func Optimize(tree *ast.Response, opts Options) (*ast.Response, []diag.Diagnostic) {
	if tree == nil {
		return nil, nil
	}
	bag := diag.NewBag()

	if opts.DropDuplicateCalls {
		if dropped := dropDuplicateCalls(tree); dropped > 0 {
			bag.Add(diag.Infof(diag.PhaseOptimization, "removed %d duplicate tool call(s)", dropped))
		}
	}
	if opts.MergeTextNodes {
		merged, dropped := mergeTextNodes(tree)
		if merged > 0 {
			bag.Add(diag.Infof(diag.PhaseOptimization, "merged %d adjacent text node(s)", merged))
		}
		if dropped > 0 {
			bag.Add(diag.Infof(diag.PhaseOptimization, "dropped %d whitespace-only text node(s)", dropped))
		}
	}
	if opts.NormalizePaths {
		if n := normalizePaths(tree); n > 0 {
			bag.Add(diag.Infof(diag.PhaseOptimization, "normalized %d file path(s)", n))
		}
	}

	return tree, bag.Items()
}

// dropDuplicateCalls removes later tool calls whose signature was already
// seen. First occurrence wins: repeated identical calls are almost always
// unintended model looping, and the first one is the one the narrative
// refers to.
func dropDuplicateCalls(tree *ast.Response) int {
	seen := make(map[string]bool)
	kept := tree.Children[:0]
	dropped := 0
	for _, child := range tree.Children {
		if call, ok := child.(*ast.ToolCall); ok {
			sig := call.Signature()
			if seen[sig] {
				dropped++
				logging.Debug(logging.CategoryOptimizer, "dropping duplicate call %s", sig)
				continue
			}
			seen[sig] = true
		}
		kept = append(kept, child)
	}
	tree.Children = kept
	return dropped
}

// mergeTextNodes joins adjacent text nodes with a space and drops
// whitespace-only ones. A merge widens the format to markdown when either
// side was markdown.
func mergeTextNodes(tree *ast.Response) (merged, dropped int) {
	var out []ast.Node
	for _, child := range tree.Children {
		text, ok := child.(*ast.Text)
		if !ok {
			out = append(out, child)
			continue
		}
		if strings.TrimSpace(text.Content) == "" {
			dropped++
			continue
		}
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*ast.Text); ok {
				prev.Content = prev.Content + " " + text.Content
				if text.Format == ast.FormatMarkdown {
					prev.Format = ast.FormatMarkdown
				}
				if text.Loc.End > prev.Loc.End {
					prev.Loc.End = text.Loc.End
				}
				merged++
				continue
			}
		}
		out = append(out, text)
	}
	tree.Children = out
	return merged, dropped
}

// normalizePaths rewrites backslashes to forward slashes and prefixes bare
// relative paths with "./", on file references and on path-named tool-call
// arguments.
func normalizePaths(tree *ast.Response) int {
	changed := 0
	ast.Walk(tree, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.FileRef:
			if p := normalizePath(node.Path); p != node.Path {
				node.Path = p
				changed++
			}
		case *ast.ToolCall:
			for _, key := range node.Args.Keys() {
				if key != "path" && key != "file_path" {
					continue
				}
				if v, ok := node.Args.Get(key); ok {
					if s, ok := v.(string); ok {
						if p := normalizePath(s); p != s {
							node.Args.Set(key, p)
							changed++
						}
					}
				}
			}
		}
		return true
	})
	return changed
}

func normalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if p == "" || strings.HasPrefix(p, "/") || strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") {
		return p
	}
	return "./" + p
}
