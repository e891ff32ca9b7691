package parser

import (
	"github.com/dbnlang/dbn/core/diag"
	"github.com/dbnlang/dbn/core/numeric"
	"github.com/dbnlang/dbn/runtime/lexer"
	"github.com/dbnlang/dbn/runtime/scope"
	"github.com/dbnlang/dbn/runtime/trace"
)

// resolveNext reads the next token and resolves it to a value.
func (p *Parser) resolveNext(anchor lexer.Token, c cursor, sc *scope.Scope) (string, cursor, error) {
	tok, c, err := c.next(anchor)
	if err != nil {
		return "", c, err
	}
	n, c, err := p.resolveNumber(tok, c, sc)
	if err != nil {
		return "", c, err
	}
	return n.Text, c, nil
}

// resolveArgs resolves n consecutive values.
func (p *Parser) resolveArgs(n int, kw lexer.Token, c cursor, sc *scope.Scope) ([]string, cursor, error) {
	values := make([]string, n)
	for i := range values {
		var err error
		values[i], c, err = p.resolveNext(kw, c, sc)
		if err != nil {
			return nil, c, err
		}
	}
	return values, c, nil
}

// Paper colour
func parsePaper(p *Parser, kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	if err := c.require(1, kw, "Paper requires 1 argument"); err != nil {
		return c, err
	}
	colour, c, err := p.resolveNext(kw, c, sc)
	if err != nil {
		return c, err
	}
	p.emit(trace.Background{At: at(kw), Colour: colour})
	return c, nil
}

// Pen colour
func parsePen(p *Parser, kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	if err := c.require(1, kw, "Pen requires 1 argument"); err != nil {
		return c, err
	}
	colour, c, err := p.resolveNext(kw, c, sc)
	if err != nil {
		return c, err
	}
	p.emit(trace.Foreground{At: at(kw), Colour: colour})
	return c, nil
}

// Line x0 y0 x1 y1
func parseLine(p *Parser, kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	if err := c.require(4, kw, "Line requires 4 arguments"); err != nil {
		return c, err
	}
	v, c, err := p.resolveArgs(4, kw, c, sc)
	if err != nil {
		return c, err
	}
	p.emit(trace.Line{At: at(kw), X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]})
	return c, nil
}

// Set name value, or Set [x y] colour
func parseSet(p *Parser, kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	if err := c.require(2, kw, "Set requires 2 arguments"); err != nil {
		return c, err
	}
	target, c, err := c.next(kw)
	if err != nil {
		return c, err
	}
	if target.IsSymbol("[") {
		return p.parseDot(kw, target, c, sc)
	}
	return p.parseVariable(target, c, sc)
}

// parseVariable binds label to a value in the scope it was given.
func (p *Parser) parseVariable(label lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	if label.Kind != lexer.Word {
		return c, diag.NewInput(label.Location(), "%q is not a valid variable name.", label.Text)
	}
	value, c, err := p.resolveNext(label, c, sc)
	if err != nil {
		return c, err
	}
	sc.BindInPlace(label.Text, scope.Value(value))
	return c, nil
}

// parseDot handles "[x y] colour" after Set; open is the "[".
func (p *Parser) parseDot(kw, open lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	if err := c.require(4, open, "Dot requires 4 arguments"); err != nil {
		return c, err
	}
	xy, c, err := p.resolveArgs(2, open, c, sc)
	if err != nil {
		return c, err
	}
	closing, c, err := c.next(open)
	if err != nil {
		return c, err
	}
	if !closing.IsSymbol("]") {
		return c, diag.NewInput(closing.Location(), "Unexpected token %q, a dot should be closed with \"]\".", closing.Text)
	}
	colour, c, err := p.resolveNext(closing, c, sc)
	if err != nil {
		return c, err
	}
	p.emit(trace.Point{At: at(kw), X: xy[0], Y: xy[1], Colour: colour})
	return c, nil
}

// Repeat var start finish { body }
//
// The loop variable is written into sc on every iteration and keeps its last
// value afterwards. Bounds are inclusive; the direction follows the bounds.
func parseRepeat(p *Parser, kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	if err := c.require(5, kw, "Repeat does not end"); err != nil {
		return c, err
	}
	variable, c, err := c.next(kw)
	if err != nil {
		return c, err
	}
	if variable.Kind != lexer.Word {
		return c, diag.NewInput(variable.Location(), "Unexpected value %q. Expected a variable.", variable.Text)
	}

	bounds := make([]int64, 2)
	for i := range bounds {
		var tok lexer.Token
		if tok, c, err = c.next(kw); err != nil {
			return c, err
		}
		if tok, c, err = p.resolveNumber(tok, c, sc); err != nil {
			return c, err
		}
		if bounds[i], err = parseInt(tok); err != nil {
			return c, err
		}
	}
	start, finish := bounds[0], bounds[1]

	body, c, err := extractBlock(c, kw)
	if err != nil {
		return c, err
	}

	step := int64(1)
	if finish < start {
		step = -1
	}
	p.logger.Debug("repeat", "var", variable.Text, "from", start, "to", finish, "body_tokens", len(body))

	for i := start; ; i += step {
		sc.BindInPlace(variable.Text, scope.Value(numeric.Format(i)))
		if err := p.parseBlock(body, sc); err != nil {
			return c, err
		}
		if i == finish {
			break
		}
	}
	return c, nil
}
