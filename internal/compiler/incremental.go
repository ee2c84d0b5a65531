package compiler

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"termchat/internal/diag"
	"termchat/internal/lexer"
	"termchat/internal/logging"
)

// Update is the per-chunk event emitted during incremental compilation.
// NewTokens and NewDiagnostics are the tail beyond the previous chunk's
// counts: a count-based diff, not a structural one, which is enough for a
// streaming UI appending as it goes.
type Update struct {
	SessionID      string
	ChunkIndex     int
	NewTokens      []lexer.Token
	NewDiagnostics []diag.Diagnostic
	Result         *Result
}

// CompileIncremental consumes chunks as the transport delivers them,
// recompiling the whole growing buffer per chunk and emitting an Update
// after each. Recompiling from scratch is an accepted O(n²) cost over the
// stream; typical responses keep n small.
//
// Cancellation is checked between chunks: chunks already appended stay
// compiled and their result is still returned, alongside ctx.Err(). The
// final result for the full buffer equals a single Compile call on the
// concatenated text.
func (c *Compiler) CompileIncremental(ctx context.Context, chunks <-chan string, onUpdate func(Update)) (*Result, error) {
	session := uuid.NewString()
	var buffer strings.Builder
	var lastTokens, lastDiags int
	var result *Result
	index := 0

	for {
		select {
		case <-ctx.Done():
			if result == nil {
				result = c.Compile(buffer.String())
			}
			logging.Debug(logging.CategoryCompiler, "incremental session %s cancelled after %d chunk(s)", session, index)
			return result, ctx.Err()
		case chunk, ok := <-chunks:
			if !ok {
				if result == nil {
					result = c.Compile(buffer.String())
				}
				return result, nil
			}
			buffer.WriteString(chunk)
			index++
			result = c.Compile(buffer.String())

			if onUpdate != nil {
				update := Update{
					SessionID:  session,
					ChunkIndex: index,
					Result:     result,
				}
				if len(result.Tokens) > lastTokens {
					update.NewTokens = result.Tokens[lastTokens:]
				}
				if len(result.Diagnostics) > lastDiags {
					update.NewDiagnostics = result.Diagnostics[lastDiags:]
				}
				onUpdate(update)
			}
			lastTokens = len(result.Tokens)
			lastDiags = len(result.Diagnostics)
		}
	}
}
