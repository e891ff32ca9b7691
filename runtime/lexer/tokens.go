package lexer

import (
	"fmt"

	"github.com/dbnlang/dbn/core/diag"
)

// Kind is the lexical class of a token.
type Kind int

const (
	Word   Kind = iota // keyword, variable or command name: Paper, x, draw_eye
	Symbol             // single punctuation character: [ { } ] + - * / ( ) ?
	Number             // decimal digits: 0, 05, 100
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Symbol:
		return "symbol"
	case Number:
		return "number"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText lets tokens be dumped as JSON with readable kinds.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is a typed, positioned piece of source text.
type Token struct {
	Kind   Kind   `json:"type"`
	Text   string `json:"value"`
	Line   int    `json:"line"`    // 1-based
	Column int    `json:"column"`  // 0-based, in runes
	Source string `json:"context"` // the whole source line
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// IsSymbol reports whether the token is the symbol s.
func (t Token) IsSymbol(s string) bool {
	return t.Is(Symbol, s)
}

// Location returns the token position for diagnostics.
func (t Token) Location() diag.Location {
	return diag.Location{Line: t.Line, Column: t.Column, Source: t.Source}
}

// String returns the token text.
func (t Token) String() string {
	return t.Text
}
