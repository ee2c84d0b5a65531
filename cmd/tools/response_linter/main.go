// Package main implements the response linter: it runs a model response
// through the full compiler pipeline and reports the diagnostics, without
// executing anything. Useful for triaging a misbehaving model dialect from
// a captured transcript.
//
// Usage:
//
//	response_linter [file|-] [--provider p] [--model m] [--strict] [--json]
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"termchat/internal/compiler"
	"termchat/internal/logging"
)

var (
	flagProvider         string
	flagModel            string
	flagStrict           bool
	flagPreserveThoughts bool
	flagNoOptimize       bool
	flagJSON             bool
	flagDebug            bool
)

var rootCmd = &cobra.Command{
	Use:   "response_linter [file|-]",
	Short: "Compile a model response and report diagnostics",
	Long: `Reads a raw model response from a file (or stdin with "-"), compiles it
with the same pipeline the chat client uses, and prints every diagnostic.
Exits 1 when compilation fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.Flags().StringVar(&flagProvider, "provider", "", "Model provider name")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "Model name (selects the parser dialect)")
	rootCmd.Flags().BoolVar(&flagStrict, "strict", false, "Treat validation issues as errors")
	rootCmd.Flags().BoolVar(&flagPreserveThoughts, "preserve-thoughts", false, "Keep thinking spans as tree nodes")
	rootCmd.Flags().BoolVar(&flagNoOptimize, "no-optimize", false, "Skip the optimizer pass")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "Emit machine-readable JSON")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable compiler debug logging")
}

func runLint(cmd *cobra.Command, args []string) error {
	if flagDebug {
		if err := logging.EnableDebug(); err != nil {
			return err
		}
	}

	text, err := readInput(args)
	if err != nil {
		return err
	}

	opts := compiler.DefaultOptions()
	opts.Provider = flagProvider
	opts.Model = flagModel
	opts.StrictMode = flagStrict
	opts.PreserveThoughts = flagPreserveThoughts
	opts.EnableOptimizations = !flagNoOptimize

	c := compiler.New(opts)
	result := c.Compile(text)

	if flagJSON {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printHuman(result)
	}

	if !result.Success {
		os.Exit(1)
	}
	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func printHuman(result *compiler.Result) {
	for _, d := range result.Diagnostics {
		fmt.Println(d.String())
	}
	status := "OK"
	if !result.Success {
		status = "FAILED"
	}
	fmt.Printf("%s: %d node(s), %d token(s), %d diagnostic(s), intent=%s, %s\n",
		status,
		result.Summary.NodeCount,
		len(result.Tokens),
		len(result.Diagnostics),
		result.Summary.PrimaryIntent,
		result.Elapsed.Round(time.Microsecond))
}

func printJSON(result *compiler.Result) error {
	type jsonDiag struct {
		Severity string `json:"severity"`
		Phase    string `json:"phase"`
		Message  string `json:"message"`
		Line     int    `json:"line,omitempty"`
		Column   int    `json:"column,omitempty"`
	}
	out := struct {
		Success     bool       `json:"success"`
		NodeCount   int        `json:"node_count"`
		Intent      string     `json:"primary_intent"`
		Tools       []string   `json:"tools_used,omitempty"`
		Files       []string   `json:"files_referenced,omitempty"`
		Diagnostics []jsonDiag `json:"diagnostics"`
	}{
		Success:     result.Success,
		NodeCount:   result.Summary.NodeCount,
		Intent:      string(result.Summary.PrimaryIntent),
		Tools:       result.Summary.ToolsUsed,
		Files:       result.Summary.FilesReferenced,
		Diagnostics: make([]jsonDiag, 0, len(result.Diagnostics)),
	}
	for _, d := range result.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, jsonDiag{
			Severity: d.Severity.String(),
			Phase:    d.Phase.String(),
			Message:  d.Message,
			Line:     d.Line,
			Column:   d.Column,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
