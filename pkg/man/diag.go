// diag.go defines parser diagnostics. None of them stops the parse.
package man

import (
	"fmt"
	"strings"
)

// Severity ranks diagnostics.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity parses "warning" or "error".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "", "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityWarning, fmt.Errorf("invalid severity %q: must be warning or error", s)
	}
}

// DiagKind identifies a class of diagnostic.
type DiagKind int

const (
	ExcessArguments DiagKind = iota
	IgnoredExtraText
	ScopeBrokenByEOF
	ScopeBroken
	BlockNeverClosed
	NoMatchingOpenScope
	NoMatchingOpenScopeAtDepth
	UnknownMacro
	TrailingWhitespace
	UnterminatedQuote
	EmptyParagraph
	FillModeUnchanged

	diagKindCount
)

var diagKinds = [diagKindCount]struct {
	name     string
	severity Severity
	summary  string
}{
	ExcessArguments:            {"excess-arguments", SeverityError, "skipping excess arguments"},
	IgnoredExtraText:           {"ignored-extra-text", SeverityError, "skipping all arguments"},
	ScopeBrokenByEOF:           {"scope-broken-by-eof", SeverityWarning, "line scope broken"},
	ScopeBroken:                {"scope-broken", SeverityWarning, "line scope broken"},
	BlockNeverClosed:           {"block-never-closed", SeverityWarning, "missing end of block"},
	NoMatchingOpenScope:        {"no-matching-open-scope", SeverityError, "skipping end of block that is not open"},
	NoMatchingOpenScopeAtDepth: {"no-matching-open-scope-at-depth", SeverityError, "skipping request without an open block at that level"},
	UnknownMacro:               {"unknown-macro", SeverityError, "skipping unknown macro"},
	TrailingWhitespace:         {"trailing-whitespace", SeverityWarning, "whitespace at end of input line"},
	UnterminatedQuote:          {"unterminated-quote", SeverityWarning, "unterminated quoted argument"},
	EmptyParagraph:             {"empty-paragraph", SeverityWarning, "skipping paragraph macro"},
	FillModeUnchanged:          {"fill-mode-unchanged", SeverityWarning, "fill mode already set"},
}

func (k DiagKind) String() string {
	if k < 0 || k >= diagKindCount {
		return "unknown"
	}
	return diagKinds[k].name
}

// MarshalText implements encoding.TextMarshaler.
func (k DiagKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Severity returns the fixed severity of the kind.
func (k DiagKind) Severity() Severity {
	if k < 0 || k >= diagKindCount {
		return SeverityWarning
	}
	return diagKinds[k].severity
}

// Summary returns the generic message of the kind.
func (k DiagKind) Summary() string {
	if k < 0 || k >= diagKindCount {
		return ""
	}
	return diagKinds[k].summary
}

// Diagnostic is one problem found while parsing.
type Diagnostic struct {
	Kind     DiagKind `json:"kind" yaml:"kind"`
	Severity Severity `json:"severity" yaml:"severity"`
	Macro    Macro    `json:"macro" yaml:"macro"`
	Line     int      `json:"line" yaml:"line"`
	Col      int      `json:"col" yaml:"col"`
	Context  string   `json:"context,omitempty" yaml:"context,omitempty"`
}

// Message returns the kind summary followed by the context, if any.
func (d Diagnostic) Message() string {
	if d.Context == "" {
		return d.Kind.Summary()
	}
	return d.Kind.Summary() + ": " + d.Context
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Col, d.Severity, d.Message())
}

// DiagnosticSink receives diagnostics as they are reported.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to a DiagnosticSink.
type SinkFunc func(d Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// FilterSeverity returns the diagnostics at or above minSeverity.
func FilterSeverity(diags []Diagnostic, minSeverity Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity >= minSeverity {
			out = append(out, d)
		}
	}
	return out
}

// CountKinds returns the number of diagnostics per kind.
func CountKinds(diags []Diagnostic) map[DiagKind]int {
	counts := make(map[DiagKind]int)
	for _, d := range diags {
		counts[d.Kind]++
	}
	return counts
}
