package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termchat/internal/ast"
	"termchat/internal/diag"
)

func args(pairs ...any) *ast.OrderedArgs {
	a := ast.NewOrderedArgs()
	for i := 0; i+1 < len(pairs); i += 2 {
		a.Set(pairs[i].(string), pairs[i+1])
	}
	return a
}

func call(name string, a *ast.OrderedArgs) *ast.ToolCall {
	return &ast.ToolCall{Name: name, Args: a, CallID: "call_1"}
}

func findDiag(diags []diag.Diagnostic, sev diag.Severity, substr string) *diag.Diagnostic {
	for i := range diags {
		if diags[i].Severity == sev && strings.Contains(diags[i].Message, substr) {
			return &diags[i]
		}
	}
	return nil
}

func TestMissingRequiredParameter(t *testing.T) {
	tree := &ast.Response{}
	tree.Append(call("write_file", args("path", "/tmp/out.txt")))

	diags, _ := Analyze(tree, Options{})
	d := findDiag(diags, diag.SevError, `missing required parameter "content"`)
	require.NotNil(t, d, "diags: %v", diags)
	assert.Contains(t, d.Message, "write_file")
}

func TestParameterTypeMismatch(t *testing.T) {
	tree := &ast.Response{}
	tree.Append(call("read_file", args("path", "a.go", "limit", "ten")))

	diags, _ := Analyze(tree, Options{})
	d := findDiag(diags, diag.SevWarning, `parameter "limit": expected number`)
	assert.NotNil(t, d, "diags: %v", diags)
}

func TestNumericParameterAccepted(t *testing.T) {
	tree := &ast.Response{}
	tree.Append(call("read_file", args("path", "a.go", "limit", float64(10))))

	diags, _ := Analyze(tree, Options{})
	assert.Nil(t, findDiag(diags, diag.SevWarning, "expected number"))
	assert.Nil(t, findDiag(diags, diag.SevError, "missing required"))
}

func TestUnknownToolIsInfoOnly(t *testing.T) {
	tree := &ast.Response{}
	tree.Append(call("launch_rocket", args("target", "moon")))

	diags, _ := Analyze(tree, Options{})
	d := findDiag(diags, diag.SevInfo, "unknown tool: launch_rocket")
	require.NotNil(t, d)
	for _, got := range diags {
		assert.NotEqual(t, diag.SevError, got.Severity,
			"an advisory catalog must never produce errors for unknown tools")
	}
}

func TestDuplicateCallWarning(t *testing.T) {
	tree := &ast.Response{}
	a := call("read_file", args("path", "a"))
	b := call("read_file", args("path", "a"))
	b.CallID = "call_2"
	tree.Append(a, b)

	diags, _ := Analyze(tree, Options{})
	assert.NotNil(t, findDiag(diags, diag.SevWarning, "duplicate tool call: read_file"))
}

func TestFileConflictDeleteAndWrite(t *testing.T) {
	tree := &ast.Response{}
	tree.Append(
		&ast.FileRef{Path: "/x", Op: ast.OpDelete},
		&ast.FileRef{Path: "/x", Op: ast.OpWrite},
	)

	diags, _ := Analyze(tree, Options{})
	assert.NotNil(t, findDiag(diags, diag.SevWarning, "conflicting file operations on /x"))
}

func TestFileCreatedTwice(t *testing.T) {
	tree := &ast.Response{}
	tree.Append(
		&ast.FileRef{Path: "a.go", Op: ast.OpCreate},
		&ast.FileRef{Path: "a.go", Op: ast.OpCreate},
	)

	diags, _ := Analyze(tree, Options{})
	assert.NotNil(t, findDiag(diags, diag.SevWarning, "created more than once"))
}

func TestQuestionAfterPendingAction(t *testing.T) {
	tree := &ast.Response{}
	tree.Append(
		call("read_file", args("path", "a")),
		&ast.Question{Prompt: "Should I continue?", YesNo: true},
	)

	diags, _ := Analyze(tree, Options{})
	assert.NotNil(t, findDiag(diags, diag.SevInfo, "question follows a pending action"))
}

func TestQuestionAfterTextNotFlagged(t *testing.T) {
	tree := &ast.Response{}
	tree.Append(
		&ast.Text{Content: "Here is what I found."},
		&ast.Question{Prompt: "Should I continue?", YesNo: true},
	)

	diags, _ := Analyze(tree, Options{})
	assert.Nil(t, findDiag(diags, diag.SevInfo, "question follows"))
}

func TestYesNoQuestionGetsDefaultOptions(t *testing.T) {
	q := &ast.Question{Prompt: "Should I proceed?", YesNo: true}
	open := &ast.Question{Prompt: "Which file did you mean?"}
	custom := &ast.Question{Prompt: "Keep going?", YesNo: true, Options: []string{"Continue", "Stop"}}

	tree := &ast.Response{}
	tree.Append(q, open, custom)
	Analyze(tree, Options{})

	assert.Equal(t, []string{"Yes", "No"}, q.Options)
	assert.Empty(t, open.Options)
	assert.Equal(t, []string{"Continue", "Stop"}, custom.Options)
}

func TestNilTree(t *testing.T) {
	diags, summary := Analyze(nil, Options{})
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.SevError, diags[0].Severity)
	assert.Equal(t, IntentExplanation, summary.PrimaryIntent)
}

func TestSummaryFlagsAndIntent(t *testing.T) {
	tree := &ast.Response{}
	tree.Append(
		call("read_file", args("path", "a")),
		&ast.ToolCall{Name: "write_file", Args: args("path", "b", "content", "x"), CallID: "call_2"},
		&ast.Text{Content: "done"},
	)

	_, summary := Analyze(tree, Options{})
	assert.True(t, summary.HasToolCalls)
	assert.False(t, summary.HasCode)
	assert.Equal(t, IntentToolExecution, summary.PrimaryIntent)
	assert.Equal(t, []string{"read_file", "write_file"}, summary.ToolsUsed)
	assert.Equal(t, 4, summary.NodeCount)
}

func TestIntentTieBreaksTowardFirstSeen(t *testing.T) {
	tree := &ast.Response{}
	tree.Append(
		&ast.Code{Language: "go", Body: "var x int"},
		call("read_file", args("path", "a")),
	)

	_, summary := Analyze(tree, Options{})
	assert.Equal(t, IntentCodeGeneration, summary.PrimaryIntent)
}

func TestFilesReferencedDistinct(t *testing.T) {
	tree := &ast.Response{}
	tree.Append(
		&ast.FileRef{Path: "a.go", Op: ast.OpRead},
		&ast.FileRef{Path: "a.go", Op: ast.OpModify},
		&ast.FileRef{Path: "b.go", Op: ast.OpRead},
	)

	_, summary := Analyze(tree, Options{})
	assert.Equal(t, []string{"a.go", "b.go"}, summary.FilesReferenced)
}

func TestErrorNodeSetsHasErrors(t *testing.T) {
	tree := &ast.Response{}
	tree.Append(&ast.ErrorNode{Message: "boom"})

	_, summary := Analyze(tree, Options{})
	assert.True(t, summary.HasErrors)
	assert.Equal(t, IntentErrorReporting, summary.PrimaryIntent)
}
