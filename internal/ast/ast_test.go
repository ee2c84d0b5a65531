package ast

import "testing"

func TestWalkVisitsAllChildren(t *testing.T) {
	root := &Response{}
	root.Append(
		&Text{Content: "hello"},
		&Code{Language: "go", Body: "package main"},
		&Question{Prompt: "ok?"},
	)

	var kinds []NodeKind
	Walk(root, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})

	want := []NodeKind{KindResponse, KindText, KindCode, KindQuestion}
	if len(kinds) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("visit[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestWalkEarlyStop(t *testing.T) {
	root := &Response{}
	root.Append(&Text{Content: "a"}, &Text{Content: "b"})

	visited := 0
	Walk(root, func(n Node) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("visited %d nodes after early stop, want 1", visited)
	}
}

func TestCountNodes(t *testing.T) {
	root := &Response{}
	if CountNodes(root) != 1 {
		t.Errorf("empty response should count 1, got %d", CountNodes(root))
	}
	root.Append(&Text{Content: "x"}, &Command{Line: "ls"})
	if CountNodes(root) != 3 {
		t.Errorf("CountNodes = %d, want 3", CountNodes(root))
	}
}

func TestAppendSkipsNil(t *testing.T) {
	root := &Response{}
	root.Append(nil, &Text{Content: "x"}, nil)
	if len(root.Children) != 1 {
		t.Errorf("Append kept %d children, want 1", len(root.Children))
	}
}

func TestNodeKindStrings(t *testing.T) {
	cases := map[NodeKind]string{
		KindResponse: "response",
		KindToolCall: "tool_call",
		KindFileRef:  "file_ref",
		KindMarkdown: "markdown",
	}
	for kind, want := range cases {
		if kind.String() != want {
			t.Errorf("%d.String() = %s, want %s", kind, kind.String(), want)
		}
	}
}
