// Package scope holds the identifier bindings visible while a DBN program is
// interpreted.
//
// Two operations change what a name means. BindInPlace writes into the scope
// it is called on and is what Set and the Repeat loop variable use; the
// binding stays visible to everything sharing that scope. DeriveChild copies
// the scope and adds bindings to the copy; command invocation runs the body
// against the child, so nothing the body does escapes to the caller.
package scope

import (
	"sort"

	"github.com/dbnlang/dbn/core/invariant"
	"github.com/dbnlang/dbn/runtime/lexer"
)

// Command is a user-defined command captured at definition time.
type Command struct {
	Name   string
	Params []string
	// Body is the unevaluated token sequence between the command's braces.
	// It is shared, never modified, and re-read on every invocation.
	Body []lexer.Token
}

// Binding is the value bound to a name: either a number or a command.
type Binding struct {
	value   string
	command *Command
}

// Value makes a numeric binding.
func Value(v string) Binding {
	return Binding{value: v}
}

// CommandBinding makes a command binding.
func CommandBinding(c *Command) Binding {
	invariant.NotNil(c, "command")
	return Binding{command: c}
}

// Number returns the numeric value and whether the binding is a number.
func (b Binding) Number() (string, bool) {
	return b.value, b.command == nil
}

// Command returns the command and whether the binding is a command.
func (b Binding) Command() (*Command, bool) {
	return b.command, b.command != nil
}

// Scope maps identifiers to bindings.
type Scope struct {
	bindings map[string]Binding
}

// New returns an empty scope.
func New() *Scope {
	return &Scope{bindings: make(map[string]Binding)}
}

// FromValues returns a scope holding the given numeric bindings.
func FromValues(values map[string]string) *Scope {
	s := New()
	for name, v := range values {
		s.bindings[name] = Value(v)
	}
	return s
}

// Lookup returns the binding for name.
func (s *Scope) Lookup(name string) (Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// Has reports whether name is bound.
func (s *Scope) Has(name string) bool {
	_, ok := s.bindings[name]
	return ok
}

// BindInPlace binds name in this scope, replacing any previous binding.
func (s *Scope) BindInPlace(name string, b Binding) {
	s.bindings[name] = b
}

// DeriveChild returns a shallow copy of s with bindings added on top. The
// receiver is left untouched.
func (s *Scope) DeriveChild(bindings map[string]Binding) *Scope {
	child := &Scope{bindings: make(map[string]Binding, len(s.bindings)+len(bindings))}
	for name, b := range s.bindings {
		child.bindings[name] = b
	}
	for name, b := range bindings {
		child.bindings[name] = b
	}
	return child
}

// Names returns the bound names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommandNames returns the names bound to commands, sorted.
func (s *Scope) CommandNames() []string {
	var names []string
	for _, name := range s.Names() {
		if _, ok := s.bindings[name].Command(); ok {
			names = append(names, name)
		}
	}
	return names
}

// Values returns a copy of the numeric bindings.
func (s *Scope) Values() map[string]string {
	out := make(map[string]string)
	for name, b := range s.bindings {
		if v, ok := b.Number(); ok {
			out[name] = v
		}
	}
	return out
}
