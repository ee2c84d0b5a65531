// Package ast defines the response tree: the structured representation of
// one model response after compilation. Nodes form a strict tree; a child
// belongs to exactly one parent and only the optimizer ever mutates a tree,
// once, before rendering.
package ast

// NodeKind discriminates the node variants.
type NodeKind int

const (
	KindResponse NodeKind = iota
	KindText
	KindToolCall
	KindToolResult
	KindCode
	KindFileRef
	KindQuestion
	KindThought
	KindError
	KindCommand
	KindMarkdown
)

func (k NodeKind) String() string {
	switch k {
	case KindResponse:
		return "response"
	case KindText:
		return "text"
	case KindToolCall:
		return "tool_call"
	case KindToolResult:
		return "tool_result"
	case KindCode:
		return "code"
	case KindFileRef:
		return "file_ref"
	case KindQuestion:
		return "question"
	case KindThought:
		return "thought"
	case KindError:
		return "error"
	case KindCommand:
		return "command"
	case KindMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// Span is a half-open byte interval [Start, End) into the original
// response text. Used only for diagnostics.
type Span struct {
	Start int
	End   int
}

// Node is the interface every tree node implements.
type Node interface {
	Kind() NodeKind
	Span() Span
}

// Response is the root node owning an ordered sequence of children.
// Source optionally retains the original response text so spans removed
// during parsing (thoughts, code fences) can still be spliced back.
type Response struct {
	Children []Node
	Source   string
	Loc      Span
}

func (n *Response) Kind() NodeKind { return KindResponse }
func (n *Response) Span() Span     { return n.Loc }

// Append adds a child node, skipping nils.
func (n *Response) Append(children ...Node) {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
}

// TextFormat tags a Text node with its detected format.
type TextFormat int

const (
	FormatPlain TextFormat = iota
	FormatMarkdown
	FormatJSON
)

func (f TextFormat) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatJSON:
		return "json"
	default:
		return "plain"
	}
}

// Text is a run of narrative text.
type Text struct {
	Content string
	Format  TextFormat
	Loc     Span
}

func (n *Text) Kind() NodeKind { return KindText }
func (n *Text) Span() Span     { return n.Loc }

// ToolCall is a request, extracted from model text, to run a named
// external tool. Args preserves the argument order the model produced.
// CallID is unique within one compiled response.
type ToolCall struct {
	Name   string
	Args   *OrderedArgs
	CallID string
	Loc    Span
}

func (n *ToolCall) Kind() NodeKind { return KindToolCall }
func (n *ToolCall) Span() Span     { return n.Loc }

// Signature returns the duplicate-detection key: tool name plus
// canonically serialized arguments (sorted keys).
func (n *ToolCall) Signature() string {
	return n.Name + "(" + n.Args.Canonical() + ")"
}

// ToolResult carries the output of a previously issued tool call that the
// model echoed back into its response.
type ToolResult struct {
	CallID   string
	ToolName string
	Content  string
	IsError  bool
	Loc      Span
}

func (n *ToolResult) Kind() NodeKind { return KindToolResult }
func (n *ToolResult) Span() Span     { return n.Loc }

// Code is a fenced code block.
type Code struct {
	Language string
	Body     string
	Loc      Span
}

func (n *Code) Kind() NodeKind { return KindCode }
func (n *Code) Span() Span     { return n.Loc }

// FileOp classifies the intent of a file reference.
type FileOp int

const (
	OpRead FileOp = iota
	OpWrite
	OpCreate
	OpDelete
	OpModify
)

func (o FileOp) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	case OpModify:
		return "modify"
	default:
		return "unknown"
	}
}

// FileRef is a file-operation intent mentioned in narrative text.
// Line is 1-based; zero means no line reference.
type FileRef struct {
	Path string
	Op   FileOp
	Line int
	Loc  Span
}

func (n *FileRef) Kind() NodeKind { return KindFileRef }
func (n *FileRef) Span() Span     { return n.Loc }

// Question is a clarification the model asks the user. YesNo questions
// with no options get a default {Yes, No} option set during analysis.
type Question struct {
	Prompt  string
	YesNo   bool
	Options []string
	Loc     Span
}

func (n *Question) Kind() NodeKind { return KindQuestion }
func (n *Question) Span() Span     { return n.Loc }

// Thought is scratchpad content the model emitted inside thinking markers.
// Only present when compilation preserves thoughts.
type Thought struct {
	Content string
	Loc     Span
}

func (n *Thought) Kind() NodeKind { return KindThought }
func (n *Thought) Span() Span     { return n.Loc }

// ErrorNode is an error the model reported in its own output.
type ErrorNode struct {
	Message string
	Loc     Span
}

func (n *ErrorNode) Kind() NodeKind { return KindError }
func (n *ErrorNode) Span() Span     { return n.Loc }

// Command is a shell-style command the model suggested running.
type Command struct {
	Line string
	Loc  Span
}

func (n *Command) Kind() NodeKind { return KindCommand }
func (n *Command) Span() Span     { return n.Loc }

// MarkdownKind classifies a structural markdown marker.
type MarkdownKind int

const (
	MarkdownHeading MarkdownKind = iota
	MarkdownList
	MarkdownQuote
)

func (k MarkdownKind) String() string {
	switch k {
	case MarkdownHeading:
		return "heading"
	case MarkdownList:
		return "list"
	case MarkdownQuote:
		return "quote"
	default:
		return "unknown"
	}
}

// Markdown is a structural markdown element extracted from residual text.
type Markdown struct {
	Marker  MarkdownKind
	Content string
	Loc     Span
}

func (n *Markdown) Kind() NodeKind { return KindMarkdown }
func (n *Markdown) Span() Span     { return n.Loc }

// Walk visits root and every descendant in document order. The walk stops
// early if fn returns false.
func Walk(root Node, fn func(Node) bool) {
	if root == nil || !fn(root) {
		return
	}
	if r, ok := root.(*Response); ok {
		for _, c := range r.Children {
			Walk(c, fn)
		}
	}
}

// CountNodes returns the total node count including the root.
func CountNodes(root Node) int {
	n := 0
	Walk(root, func(Node) bool {
		n++
		return true
	})
	return n
}
