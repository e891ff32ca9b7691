package parser

import (
	"github.com/dbnlang/dbn/core/diag"
	"github.com/dbnlang/dbn/runtime/lexer"
)

// cursor is a read position in an immutable token slice. It is a value:
// advancing returns a new cursor and leaves the caller's copy where it was,
// so a helper only moves the stream for its caller by returning the result.
type cursor struct {
	tokens []lexer.Token
	pos    int
}

func newCursor(tokens []lexer.Token) cursor {
	return cursor{tokens: tokens}
}

// done reports whether every token has been read.
func (c cursor) done() bool {
	return c.pos >= len(c.tokens)
}

// remaining is the number of unread tokens.
func (c cursor) remaining() int {
	return len(c.tokens) - c.pos
}

// peek returns the next token without consuming it.
func (c cursor) peek() (lexer.Token, bool) {
	if c.done() {
		return lexer.Token{}, false
	}
	return c.tokens[c.pos], true
}

// next consumes one token. Running out is an input error reported at anchor,
// the token that asked for more input.
func (c cursor) next(anchor lexer.Token) (lexer.Token, cursor, error) {
	if c.done() {
		return lexer.Token{}, c, diag.NewInput(anchor.Location(), "Unexpected end of program after %q.", anchor.Text)
	}
	tok := c.tokens[c.pos]
	c.pos++
	return tok, c, nil
}

// require fails unless at least n tokens are left for the statement at kw.
func (c cursor) require(n int, kw lexer.Token, what string) error {
	if c.remaining() < n {
		return diag.NewInput(kw.Location(), "Unexpected program end. %s.", what)
	}
	return nil
}
