// Package diag provides an append-only diagnostics sink for the compiler
// pipeline (spec §6, §7). Every pass reports through the same Sink so that
// diagnostics from the parser, the analyzer, and (in principle) the IR
// builder interleave in source order.
package diag

import (
	"fmt"
	"strings"

	"github.com/tiro-lang/tiro/internal/token"
)

// Severity classifies a diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is a single reported message with a source span.
type Diagnostic struct {
	Severity Severity
	Span     token.Span
	Message  string
}

// Format renders d as "file:line:col: severity: message", matching the
// driver-rendered form spec §7 mandates.
func (d Diagnostic) Format(file string) string {
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%s: %s: %s", file, d.Span.Start, d.Severity, d.Message)
}

// Sink collects diagnostics in insertion order. It never reorders or
// removes entries except via Truncate, which speculative parsing paths
// use to discard diagnostics from an abandoned attempt.
type Sink struct {
	File    string
	entries []Diagnostic
}

// NewSink creates a sink for diagnostics about the named file (used only
// for rendering; may be empty for anonymous input).
func NewSink(file string) *Sink {
	return &Sink{File: file}
}

// Report appends a new diagnostic.
func (s *Sink) Report(severity Severity, span token.Span, format string, args ...any) {
	s.entries = append(s.entries, Diagnostic{
		Severity: severity,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Errorf reports an Error-severity diagnostic.
func (s *Sink) Errorf(span token.Span, format string, args ...any) {
	s.Report(Error, span, format, args...)
}

// Warnf reports a Warning-severity diagnostic.
func (s *Sink) Warnf(span token.Span, format string, args ...any) {
	s.Report(Warning, span, format, args...)
}

// Len returns the current number of recorded diagnostics.
func (s *Sink) Len() int { return len(s.entries) }

// Mark returns a checkpoint usable with Truncate.
func (s *Sink) Mark() int { return len(s.entries) }

// Truncate discards every diagnostic recorded after mark. Used when a
// speculative parse is abandoned and its errors must not surface.
func (s *Sink) Truncate(mark int) {
	s.entries = s.entries[:mark]
}

// All returns every recorded diagnostic, in insertion (source) order.
func (s *Sink) All() []Diagnostic { return s.entries }

// HasErrors reports whether any Error-severity diagnostic was recorded.
// Per spec §7, a compilation succeeds only if this is false.
func (s *Sink) HasErrors() bool {
	for _, d := range s.entries {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// String renders all diagnostics, one per line, for human consumption.
func (s *Sink) String() string {
	var sb strings.Builder
	for _, d := range s.entries {
		sb.WriteString(d.Format(s.File))
		sb.WriteString("\n")
	}
	return sb.String()
}
