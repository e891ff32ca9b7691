package parser

import (
	"github.com/dbnlang/dbn/core/diag"
	"github.com/dbnlang/dbn/runtime/lexer"
)

// extractBlock reads a balanced "{ ... }" region from c without interpreting
// it and returns the tokens between the braces. The result shares the
// backing array of the program's tokens; nothing writes to it, so the same
// block can be parsed any number of times.
func extractBlock(c cursor, anchor lexer.Token) ([]lexer.Token, cursor, error) {
	open, c, err := c.next(anchor)
	if err != nil {
		return nil, c, err
	}
	if !open.IsSymbol("{") {
		return nil, c, diag.NewInput(open.Location(), "Block expects to start with \"{\", not %q.", open.Text)
	}

	start := c.pos
	depth := 1
	for i := start; i < len(c.tokens); i++ {
		switch {
		case c.tokens[i].IsSymbol("{"):
			depth++
		case c.tokens[i].IsSymbol("}"):
			depth--
		}
		if depth == 0 {
			c.pos = i + 1
			return c.tokens[start:i:i], c, nil
		}
	}

	last := open
	if len(c.tokens) > start {
		last = c.tokens[len(c.tokens)-1]
	}
	return nil, c, diag.NewInput(last.Location(), "Unexpected end of file, block did not terminate with a \"}\".")
}
