// Package renderer turns an optimized response tree into display text plus
// the separated tool-invocation records handed to the tool executor.
// Rendering is pure and idempotent: it never mutates the tree and the same
// tree renders identically every time.
package renderer

import (
	"fmt"
	"strings"

	"termchat/internal/ast"
)

// Visibility controls how much of a node kind reaches the display string.
type Visibility int

const (
	Hidden Visibility = iota
	SummaryOnly
	Full
)

// Config drives per-kind visibility. Tool calls and tool results default
// to hidden: they are consumed structurally, not read as prose.
type Config struct {
	Visibility map[ast.NodeKind]Visibility
}

// DefaultConfig hides the structural kinds and shows everything else.
func DefaultConfig() Config {
	return Config{
		Visibility: map[ast.NodeKind]Visibility{
			ast.KindToolCall:   Hidden,
			ast.KindToolResult: Hidden,
			ast.KindThought:    Hidden,
		},
	}
}

// Invocation is one tool-invocation record for the tool executor.
type Invocation struct {
	ToolName string
	Args     *ast.OrderedArgs
	CallID   string
}

// Output is the rendered result.
type Output struct {
	Display     string
	Invocations []Invocation
}

// Render visits the tree and produces display text and invocation records.
func Render(tree *ast.Response, cfg Config) Output {
	var out Output
	if tree == nil {
		return out
	}

	var parts []string
	for _, child := range tree.Children {
		if call, ok := child.(*ast.ToolCall); ok {
			out.Invocations = append(out.Invocations, Invocation{
				ToolName: call.Name,
				Args:     call.Args,
				CallID:   call.CallID,
			})
		}
		vis := cfg.visibility(child.Kind())
		if vis == Hidden {
			continue
		}
		if text := renderNode(child, vis); text != "" {
			parts = append(parts, text)
		}
	}
	out.Display = strings.Join(parts, "\n\n")
	return out
}

func (c Config) visibility(kind ast.NodeKind) Visibility {
	if v, ok := c.Visibility[kind]; ok {
		return v
	}
	return Full
}

// renderNode formats one node. The switch is exhaustive over node kinds;
// a kind added to the ast package without a formatting rule panics here,
// which the renderer tests catch immediately.
func renderNode(n ast.Node, vis Visibility) string {
	switch node := n.(type) {
	case *ast.Text:
		return node.Content
	case *ast.ToolCall:
		if vis == SummaryOnly {
			return fmt.Sprintf("[tool: %s]", node.Name)
		}
		args, _ := node.Args.MarshalJSON()
		return fmt.Sprintf("[tool: %s %s]", node.Name, args)
	case *ast.ToolResult:
		if vis == SummaryOnly || node.Content == "" {
			return fmt.Sprintf("[result: %s]", node.ToolName)
		}
		return fmt.Sprintf("[result: %s]\n%s", node.ToolName, node.Content)
	case *ast.Code:
		if vis == SummaryOnly {
			return fmt.Sprintf("[code: %s, %d lines]", orPlain(node.Language), strings.Count(node.Body, "\n")+1)
		}
		return fmt.Sprintf("```%s\n%s\n```", node.Language, node.Body)
	case *ast.FileRef:
		if node.Line > 0 {
			return fmt.Sprintf("[%s %s:%d]", node.Op, node.Path, node.Line)
		}
		return fmt.Sprintf("[%s %s]", node.Op, node.Path)
	case *ast.Question:
		if len(node.Options) > 0 {
			return fmt.Sprintf("%s\nOptions: %s", node.Prompt, strings.Join(node.Options, " / "))
		}
		return node.Prompt
	case *ast.Thought:
		if vis == SummaryOnly {
			return "[thinking]"
		}
		return fmt.Sprintf("[thinking]\n%s", node.Content)
	case *ast.ErrorNode:
		return fmt.Sprintf("error: %s", node.Message)
	case *ast.Command:
		return fmt.Sprintf("$ %s", node.Line)
	case *ast.Markdown:
		switch node.Marker {
		case ast.MarkdownHeading:
			return fmt.Sprintf("## %s", node.Content)
		case ast.MarkdownList:
			return fmt.Sprintf("- %s", node.Content)
		default:
			return fmt.Sprintf("> %s", node.Content)
		}
	case *ast.Response:
		// Nested responses do not occur; the root is handled by Render.
		return ""
	default:
		panic(fmt.Sprintf("renderer: no formatting rule for node kind %s", n.Kind()))
	}
}

func orPlain(lang string) string {
	if lang == "" {
		return "plain"
	}
	return lang
}
