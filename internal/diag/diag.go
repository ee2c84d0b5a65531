// Package diag defines the diagnostics shared by every phase of the
// response compiler. Phases never return Go errors for malformed model
// output; they record diagnostics and keep going.
package diag

import (
	"fmt"

	"termchat/internal/ast"
)

// Severity orders diagnostics from least to most severe.
type Severity int

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	default:
		return "unknown"
	}
}

// Phase identifies the compilation phase that produced a diagnostic.
type Phase int

const (
	PhaseLexical Phase = iota
	PhaseParsing
	PhaseSemantic
	PhaseOptimization
	PhaseValidation
)

func (p Phase) String() string {
	switch p {
	case PhaseLexical:
		return "lexical"
	case PhaseParsing:
		return "parsing"
	case PhaseSemantic:
		return "semantic"
	case PhaseOptimization:
		return "optimization"
	case PhaseValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Diagnostic is a single structured finding. Line and Column are 1-based;
// zero means unset. Node optionally points at the offending tree node.
type Diagnostic struct {
	Severity Severity
	Phase    Phase
	Message  string
	Line     int
	Column   int
	Node     ast.Node
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s [%s] %s (%d:%d)", d.Severity, d.Phase, d.Message, d.Line, d.Column)
	}
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Phase, d.Message)
}

// Errorf builds an Error diagnostic for the given phase.
func Errorf(phase Phase, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SevError, Phase: phase, Message: fmt.Sprintf(format, args...)}
}

// Warningf builds a Warning diagnostic for the given phase.
func Warningf(phase Phase, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SevWarning, Phase: phase, Message: fmt.Sprintf(format, args...)}
}

// Infof builds an Info diagnostic for the given phase.
func Infof(phase Phase, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SevInfo, Phase: phase, Message: fmt.Sprintf(format, args...)}
}
