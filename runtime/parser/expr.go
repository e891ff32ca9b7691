package parser

import (
	"errors"

	"github.com/dbnlang/dbn/core/diag"
	"github.com/dbnlang/dbn/core/numeric"
	"github.com/dbnlang/dbn/runtime/lexer"
	"github.com/dbnlang/dbn/runtime/scope"
)

// resolveNumber turns tok, plus whatever tokens it needs from c, into a
// Number token holding a value. The result keeps tok's position.
func (p *Parser) resolveNumber(tok lexer.Token, c cursor, sc *scope.Scope) (lexer.Token, cursor, error) {
	switch tok.Kind {
	case lexer.Number:
		return tok, c, nil

	case lexer.Word:
		binding, ok := sc.Lookup(tok.Text)
		if !ok {
			return tok, c, diag.NewInput(tok.Location(), "Use of undeclared identifier %q.", tok.Text)
		}
		v, ok := binding.Number()
		if !ok {
			return tok, c, diag.NewInput(tok.Location(), "Use of undeclared identifier %q.", tok.Text).
				WithHint("%q is a command, not a number", tok.Text)
		}
		return numberAt(tok, v), c, nil

	case lexer.Symbol:
		switch tok.Text {
		case "-":
			return p.resolveNegative(tok, c, sc)
		case "(":
			return p.parseCalculation(tok, c, sc)
		}
	}
	return tok, c, diag.NewInternal(tok.Location(), "Token %q cannot be resolved to a number.", tok.Text)
}

// resolveNegative resolves the value after a "-" and flips its sign. Chains
// of "-" flip once per symbol.
func (p *Parser) resolveNegative(minus lexer.Token, c cursor, sc *scope.Scope) (lexer.Token, cursor, error) {
	tok, c, err := c.next(minus)
	if err != nil {
		return minus, c, err
	}
	n, c, err := p.resolveNumber(tok, c, sc)
	if err != nil {
		return minus, c, err
	}
	n.Text = numeric.Negate(n.Text)
	return n, c, nil
}

// parseCalculation evaluates "( operand op operand )"; open is the "(" that
// has already been read.
func (p *Parser) parseCalculation(open lexer.Token, c cursor, sc *scope.Scope) (lexer.Token, cursor, error) {
	if err := c.require(4, open, "Calculation does not end"); err != nil {
		return open, c, err
	}

	lhs, c, err := p.parseOperand(open, c, sc)
	if err != nil {
		return open, c, err
	}

	op, c, err := c.next(open)
	if err != nil {
		return open, c, err
	}

	rhs, c, err := p.parseOperand(open, c, sc)
	if err != nil {
		return open, c, err
	}

	closing, c, err := c.next(open)
	if err != nil {
		return open, c, err
	}
	if !closing.IsSymbol(")") {
		return open, c, diag.NewInput(closing.Location(), "Unexpected token %q, expected \")\".", closing.Text)
	}

	l, err := parseInt(lhs)
	if err != nil {
		return open, c, err
	}
	r, err := parseInt(rhs)
	if err != nil {
		return open, c, err
	}

	result, ok, err := numeric.Apply(op.Text, l, r)
	if !ok || op.Kind != lexer.Symbol {
		return open, c, diag.NewInput(op.Location(), "%q is not a valid operation.", op.Text)
	}
	switch {
	case errors.Is(err, numeric.ErrDivideByZero):
		return open, c, diag.NewInput(op.Location(), "Division by zero in calculation.")
	case err != nil:
		return open, c, diag.NewInput(op.Location(), "Result of %s %s %s is out of range.", lhs.Text, op.Text, rhs.Text)
	}
	return numberAt(open, numeric.Format(result)), c, nil
}

// parseOperand reads one side of a calculation: a number, a variable, a
// nested calculation or a "-" chain.
func (p *Parser) parseOperand(open lexer.Token, c cursor, sc *scope.Scope) (lexer.Token, cursor, error) {
	tok, c, err := c.next(open)
	if err != nil {
		return open, c, err
	}
	if tok.Kind == lexer.Symbol && tok.Text != "(" && tok.Text != "-" {
		return tok, c, diag.NewInput(tok.Location(), "Unexpected token %q.", tok.Text)
	}
	return p.resolveNumber(tok, c, sc)
}

// parseInt reads a resolved value as an integer.
func parseInt(tok lexer.Token) (int64, error) {
	n, err := numeric.Parse(tok.Text)
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, numeric.ErrRange):
		return 0, diag.NewInput(tok.Location(), "Number %q is out of range.", tok.Text)
	default:
		return 0, diag.NewInternal(tok.Location(), "Value %q is not a number.", tok.Text)
	}
}

// numberAt makes a Number token carrying value at tok's position.
func numberAt(tok lexer.Token, value string) lexer.Token {
	return lexer.Token{
		Kind:   lexer.Number,
		Text:   value,
		Line:   tok.Line,
		Column: tok.Column,
		Source: tok.Source,
	}
}
