// Package compiler chains the lexer, the interpreter and a backend.
package compiler

import (
	"github.com/dbnlang/dbn/core/invariant"
	"github.com/dbnlang/dbn/runtime/backend"
	"github.com/dbnlang/dbn/runtime/lexer"
	"github.com/dbnlang/dbn/runtime/parser"
	"github.com/dbnlang/dbn/runtime/trace"
)

// Trace lexes and interprets src.
func Trace(src string, opts ...parser.Opt) (trace.Trace, error) {
	return parser.Parse(lexer.Lex(src), opts...)
}

// Render runs t through b.
func Render[T any](t trace.Trace, b backend.Backend[T]) (string, error) {
	invariant.NotNil(b, "backend")

	tree, err := b.Transform(t)
	if err != nil {
		return "", err
	}
	return b.Generate(tree)
}

// Compile turns src into b's output text.
func Compile[T any](src string, b backend.Backend[T], opts ...parser.Opt) (string, error) {
	t, err := Trace(src, opts...)
	if err != nil {
		return "", err
	}
	return Render(t, b)
}
