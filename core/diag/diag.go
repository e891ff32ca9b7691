// Package diag is the single error representation shared by the lexer, the
// interpreter and the backends.
//
// Every failure is a *Diagnostic. It carries a Kind telling the caller whether
// the DBN program was at fault (Input) or the interpreter itself broke an
// invariant (Internal), a message, the source location of the offending token
// and, sometimes, a hint.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// Input means the program text is invalid.
	Input Kind = iota
	// Internal means an interpreter invariant was violated.
	Internal
)

// String returns the category name.
func (k Kind) String() string {
	switch k {
	case Input:
		return "InputError"
	case Internal:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// level is the word printed at the start of the rendered diagnostic.
func (k Kind) level() string {
	if k == Internal {
		return "Internal"
	}
	return "Error"
}

// Location points at a token in the source.
type Location struct {
	Line   int    // 1-based line number
	Column int    // 0-based column within the line
	Source string // full text of the line, for the caret rendering
}

// String returns "line:column".
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Diagnostic is a structured error with location information.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Location Location
	Hint     string // optional, e.g. a keyword suggestion
}

// labelWidth aligns the text after "Error:", "Location:" and "Hint:".
const labelWidth = 10

// String renders the diagnostic in its canonical multi-line form:
//
//	Error:    Use of undeclared identifier "a".
//	Location: 10:9
//	  Line 10 a 50 b
//	          ^
func (d *Diagnostic) String() string {
	var b strings.Builder
	writeLabel(&b, d.Kind.level()+":")
	b.WriteString(d.Message)
	b.WriteString("\n")
	writeLabel(&b, "Location:")
	b.WriteString(d.Location.String())
	b.WriteString("\n  ")
	b.WriteString(d.Location.Source)
	b.WriteString("\n  ")
	if d.Location.Column > 0 {
		b.WriteString(strings.Repeat(" ", d.Location.Column))
	}
	b.WriteString("^")
	if d.Hint != "" {
		b.WriteString("\n")
		writeLabel(&b, "Hint:")
		b.WriteString(d.Hint)
	}
	return b.String()
}

func writeLabel(b *strings.Builder, label string) {
	b.WriteString(label)
	pad := labelWidth - len(label)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(strings.Repeat(" ", pad))
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.String()
}

// WithHint sets the hint and returns the diagnostic for chaining.
func (d *Diagnostic) WithHint(format string, args ...interface{}) *Diagnostic {
	d.Hint = fmt.Sprintf(format, args...)
	return d
}

// NewInput creates an Input diagnostic.
func NewInput(loc Location, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:     Input,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}

// NewInternal creates an Internal diagnostic.
func NewInternal(loc Location, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:     Internal,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}

// As returns the *Diagnostic inside err, if any.
func As(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// IsInput reports whether err is, or wraps, an Input diagnostic.
func IsInput(err error) bool {
	d, ok := As(err)
	return ok && d.Kind == Input
}

// IsInternal reports whether err is, or wraps, an Internal diagnostic.
func IsInternal(err error) bool {
	d, ok := As(err)
	return ok && d.Kind == Internal
}
