package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendChunks(chunks ...string) <-chan string {
	ch := make(chan string, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch
}

func chunkText(text string, size int) []string {
	var chunks []string
	for len(text) > size {
		chunks = append(chunks, text[:size])
		text = text[size:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func TestIncrementalMatchesBatch(t *testing.T) {
	text := "<tool_call>\n{\"name\": \"read_file\", \"arguments\": {\"path\": \"main.go\"}}\n</tool_call>\n" +
		"Here is the file.\n```go\nfunc main() {}\n```\nShould I continue?"

	opts := DefaultOptions()
	opts.Model = "qwen2.5"
	batch := New(opts).Compile(text)

	// Chunk boundaries land mid-tag, mid-JSON, and mid-fence depending on
	// the size; the final result must not care.
	for _, size := range []int{1, 7, 23, len(text)} {
		final, err := New(opts).CompileIncremental(
			context.Background(), sendChunks(chunkText(text, size)...), nil)
		require.NoError(t, err)
		if diff := resultDiff(batch, final); diff != "" {
			t.Errorf("chunk size %d diverged from batch (-batch +incremental):\n%s", size, diff)
		}
	}
}

func TestIncrementalUpdates(t *testing.T) {
	c := New(DefaultOptions())
	var updates []Update
	final, err := c.CompileIncremental(
		context.Background(),
		sendChunks("Hello ", "world. ", `{"name": "read_file", "arguments": {"path": "a"}}`),
		func(u Update) { updates = append(updates, u) },
	)
	require.NoError(t, err)
	require.Len(t, updates, 3)

	for i, u := range updates {
		assert.Equal(t, i+1, u.ChunkIndex)
		assert.Equal(t, updates[0].SessionID, u.SessionID)
		assert.NotNil(t, u.Result)
	}
	assert.NotEmpty(t, updates[0].SessionID)
	assert.Same(t, updates[2].Result, final)
	assert.True(t, final.Summary.HasToolCalls)
}

func TestIncrementalSessionIDsDiffer(t *testing.T) {
	c := New(DefaultOptions())
	var first, second string
	c.CompileIncremental(context.Background(), sendChunks("a"),
		func(u Update) { first = u.SessionID })
	c.CompileIncremental(context.Background(), sendChunks("a"),
		func(u Update) { second = u.SessionID })
	assert.NotEqual(t, first, second)
}

func TestIncrementalNoChunks(t *testing.T) {
	c := New(DefaultOptions())
	final, err := c.CompileIncremental(context.Background(), sendChunks(), nil)
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.True(t, final.Success)
	assert.Empty(t, final.Tree.Children)
}

func TestIncrementalCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(DefaultOptions())
	chunks := make(chan string) // never written, never closed
	final, err := c.CompileIncremental(ctx, chunks, nil)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, final, "cancellation still returns the partial result")
	assert.True(t, final.Success)
}
