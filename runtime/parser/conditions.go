package parser

import (
	"github.com/dbnlang/dbn/core/diag"
	"github.com/dbnlang/dbn/runtime/lexer"
	"github.com/dbnlang/dbn/runtime/scope"
)

// predicate decides whether a comparison runs its block.
type predicate func(a, b lexer.Token) (bool, error)

// Same? and NotSame? compare value text, so "05" and "5" differ.
func sameText(a, b lexer.Token) (bool, error) {
	return a.Text == b.Text, nil
}

// Smaller? and NotSmaller? compare values as integers.
func smaller(a, b lexer.Token) (bool, error) {
	x, err := parseInt(a)
	if err != nil {
		return false, err
	}
	y, err := parseInt(b)
	if err != nil {
		return false, err
	}
	return x < y, nil
}

func not(pred predicate) predicate {
	return func(a, b lexer.Token) (bool, error) {
		ok, err := pred(a, b)
		return !ok, err
	}
}

func parseSame(p *Parser, kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	return p.parseCheck(kw, c, sc, sameText)
}

func parseNotSame(p *Parser, kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	return p.parseCheck(kw, c, sc, not(sameText))
}

func parseSmaller(p *Parser, kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	return p.parseCheck(kw, c, sc, smaller)
}

func parseNotSmaller(p *Parser, kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	return p.parseCheck(kw, c, sc, not(smaller))
}

// parseCheck handles "Keyword? a b { body }". The block is always consumed;
// it runs against sc only when pred holds.
func (p *Parser) parseCheck(kw lexer.Token, c cursor, sc *scope.Scope, pred predicate) (cursor, error) {
	if err := c.require(5, kw, "Comparison does not end"); err != nil {
		return c, err
	}
	question, c, err := c.next(kw)
	if err != nil {
		return c, err
	}
	if !question.IsSymbol("?") {
		return c, diag.NewInput(question.Location(), "Unexpected token %q, %s must be followed by \"?\".", question.Text, kw.Text)
	}

	operands := make([]lexer.Token, 2)
	for i := range operands {
		var tok lexer.Token
		if tok, c, err = c.next(kw); err != nil {
			return c, err
		}
		if operands[i], c, err = p.resolveNumber(tok, c, sc); err != nil {
			return c, err
		}
	}

	body, c, err := extractBlock(c, kw)
	if err != nil {
		return c, err
	}

	ok, err := pred(operands[0], operands[1])
	if err != nil {
		return c, err
	}
	if !ok {
		return c, nil
	}
	return c, p.parseBlock(body, sc)
}
