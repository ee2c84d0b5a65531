// Package analyzer validates a parsed response tree and derives its
// summary. Analysis is a read-only pass with one deliberate exception:
// yes/no questions with no suggested options get the default {Yes, No}
// option set written onto the node, so the renderer and the host UI never
// see an optionless yes/no question.
package analyzer

import (
	"encoding/json"

	"termchat/internal/ast"
	"termchat/internal/diag"
	"termchat/internal/toolcatalog"
)

// Options configures analysis. A nil Catalog falls back to the built-in
// illustrative schema table; the host's real tool registry should inject
// its own.
type Options struct {
	Catalog    *toolcatalog.Registry
	StrictMode bool
}

// Intent labels a response's primary purpose.
type Intent string

const (
	IntentToolExecution    Intent = "ToolExecution"
	IntentCodeGeneration   Intent = "CodeGeneration"
	IntentClarification    Intent = "Clarification"
	IntentErrorReporting   Intent = "ErrorReporting"
	IntentCommandExecution Intent = "CommandExecution"
	IntentExplanation      Intent = "Explanation"
)

// Summary is the derived overview of one compiled response.
type Summary struct {
	HasToolCalls    bool
	HasCode         bool
	HasQuestions    bool
	HasErrors       bool
	NodeCount       int
	FilesReferenced []string
	ToolsUsed       []string
	PrimaryIntent   Intent
}

// Analyze runs every semantic check over the tree and derives the summary.
func Analyze(tree *ast.Response, opts Options) ([]diag.Diagnostic, Summary) {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = toolcatalog.Builtin()
	}

	bag := diag.NewBag()
	if tree == nil {
		bag.Add(diag.Errorf(diag.PhaseSemantic, "no response tree to analyze"))
		return bag.Items(), Summary{PrimaryIntent: IntentExplanation}
	}

	checkDuplicateCalls(tree, bag)
	checkToolSchemas(tree, catalog, bag)
	checkFileConflicts(tree, bag)
	checkQuestionFlow(tree, bag)
	checkIncompleteCode(tree, bag)
	normalizeQuestions(tree)

	return bag.Items(), summarize(tree)
}

// checkDuplicateCalls flags tool calls that survived into the tree with an
// identical signature. The optimizer removes them; surviving duplicates
// are almost always model looping.
func checkDuplicateCalls(tree *ast.Response, bag *diag.Bag) {
	seen := make(map[string]bool)
	ast.Walk(tree, func(n ast.Node) bool {
		call, ok := n.(*ast.ToolCall)
		if !ok {
			return true
		}
		sig := call.Signature()
		if seen[sig] {
			d := diag.Warningf(diag.PhaseSemantic, "duplicate tool call: %s", call.Name)
			d.Node = call
			bag.Add(d)
		}
		seen[sig] = true
		return true
	})
}

// checkToolSchemas validates call arguments against the schema catalog.
// The catalog here is advisory: a tool it does not know rates only an Info,
// since the authoritative catalog lives with the tool executor.
func checkToolSchemas(tree *ast.Response, catalog *toolcatalog.Registry, bag *diag.Bag) {
	ast.Walk(tree, func(n ast.Node) bool {
		call, ok := n.(*ast.ToolCall)
		if !ok {
			return true
		}
		schema, known := catalog.Get(call.Name)
		if !known {
			d := diag.Infof(diag.PhaseSemantic, "unknown tool: %s", call.Name)
			d.Node = call
			bag.Add(d)
			return true
		}
		for _, required := range schema.Required {
			if _, present := call.Args.Get(required); !present {
				d := diag.Errorf(diag.PhaseSemantic, "tool %s missing required parameter %q", call.Name, required)
				d.Node = call
				bag.Add(d)
			}
		}
		for name, prop := range schema.Properties {
			value, present := call.Args.Get(name)
			if !present {
				continue
			}
			if !typeMatches(prop.Type, value) {
				d := diag.Warningf(diag.PhaseSemantic, "tool %s parameter %q: expected %s", call.Name, name, prop.Type)
				d.Node = call
				bag.Add(d)
			}
		}
		return true
	})
}

func typeMatches(declared string, value any) bool {
	switch declared {
	case "string":
		_, ok := value.(string)
		return ok
	case "number", "integer":
		switch value.(type) {
		case json.Number, float64, int, int64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		switch value.(type) {
		case map[string]any, *ast.OrderedArgs:
			return true
		}
		return false
	default:
		// Unknown declared type: nothing to check.
		return true
	}
}

// checkFileConflicts warns when file references contradict each other.
func checkFileConflicts(tree *ast.Response, bag *diag.Bag) {
	ops := make(map[string][]ast.FileOp)
	order := []string{}
	ast.Walk(tree, func(n ast.Node) bool {
		if ref, ok := n.(*ast.FileRef); ok {
			if _, seen := ops[ref.Path]; !seen {
				order = append(order, ref.Path)
			}
			ops[ref.Path] = append(ops[ref.Path], ref.Op)
		}
		return true
	})

	for _, path := range order {
		var deletes, writes, creates int
		for _, op := range ops[path] {
			switch op {
			case ast.OpDelete:
				deletes++
			case ast.OpWrite, ast.OpModify:
				writes++
			case ast.OpCreate:
				creates++
			}
		}
		if deletes > 0 && (writes > 0 || creates > 0) {
			bag.Add(diag.Warningf(diag.PhaseSemantic, "conflicting file operations on %s: delete and write", path))
		}
		if creates > 1 {
			bag.Add(diag.Warningf(diag.PhaseSemantic, "file %s created more than once", path))
		}
	}
}

// checkQuestionFlow flags a question asked right after the model requested
// an action: the answer may be delayed behind the tool run.
func checkQuestionFlow(tree *ast.Response, bag *diag.Bag) {
	for i := 1; i < len(tree.Children); i++ {
		q, ok := tree.Children[i].(*ast.Question)
		if !ok {
			continue
		}
		switch tree.Children[i-1].Kind() {
		case ast.KindToolCall, ast.KindCommand:
			d := diag.Infof(diag.PhaseSemantic, "question follows a pending action; answer may be delayed")
			d.Node = q
			bag.Add(d)
		}
	}
}

// normalizeQuestions gives optionless yes/no questions the default
// {Yes, No} option set.
func normalizeQuestions(tree *ast.Response) {
	ast.Walk(tree, func(n ast.Node) bool {
		if q, ok := n.(*ast.Question); ok && q.YesNo && len(q.Options) == 0 {
			q.Options = []string{"Yes", "No"}
		}
		return true
	})
}

// summarize derives the boolean flags, distinct files/tools, and the
// majority-vote primary intent. Ties break toward the intent seen first.
func summarize(tree *ast.Response) Summary {
	s := Summary{NodeCount: ast.CountNodes(tree)}

	votes := make(map[Intent]int)
	var voteOrder []Intent
	vote := func(in Intent) {
		if votes[in] == 0 {
			voteOrder = append(voteOrder, in)
		}
		votes[in]++
	}

	seenFiles := make(map[string]bool)
	seenTools := make(map[string]bool)

	ast.Walk(tree, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.ToolCall:
			s.HasToolCalls = true
			if !seenTools[node.Name] {
				seenTools[node.Name] = true
				s.ToolsUsed = append(s.ToolsUsed, node.Name)
			}
			vote(IntentToolExecution)
		case *ast.Code:
			s.HasCode = true
			vote(IntentCodeGeneration)
		case *ast.Question:
			s.HasQuestions = true
			vote(IntentClarification)
		case *ast.ErrorNode:
			s.HasErrors = true
			vote(IntentErrorReporting)
		case *ast.Command:
			vote(IntentCommandExecution)
		case *ast.Text:
			vote(IntentExplanation)
		case *ast.FileRef:
			if !seenFiles[node.Path] {
				seenFiles[node.Path] = true
				s.FilesReferenced = append(s.FilesReferenced, node.Path)
			}
		}
		return true
	})

	s.PrimaryIntent = IntentExplanation
	best := 0
	for _, in := range voteOrder {
		if votes[in] > best {
			best = votes[in]
			s.PrimaryIntent = in
		}
	}
	return s
}
