package parser

import (
	"github.com/dbnlang/dbn/core/diag"
	"github.com/dbnlang/dbn/runtime/lexer"
	"github.com/dbnlang/dbn/runtime/scope"
)

// Command name param... { body }
//
// The body is captured unevaluated and bound to name in sc.
func parseCommand(p *Parser, kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	if err := c.require(3, kw, "Command does not end"); err != nil {
		return c, err
	}
	name, c, err := c.next(kw)
	if err != nil {
		return c, err
	}
	if name.Kind != lexer.Word {
		return c, diag.NewInput(name.Location(), "%q is not a valid command name.", name.Text)
	}
	if IsKeyword(name.Text) {
		return c, diag.NewInput(name.Location(), "Cannot redefine keyword %q.", name.Text)
	}
	if sc.Has(name.Text) {
		return c, diag.NewInput(name.Location(), "Cannot redefine %q.", name.Text)
	}

	var params []string
	seen := make(map[string]bool)
	for {
		tok, ok := c.peek()
		if !ok {
			return c, diag.NewInput(name.Location(), "Unexpected end of program in definition of command %q.", name.Text)
		}
		if tok.IsSymbol("{") {
			break
		}
		if tok.Kind != lexer.Word {
			return c, diag.NewInput(tok.Location(), "Unexpected token %q in parameters of command %q.", tok.Text, name.Text)
		}
		if IsKeyword(tok.Text) || sc.Has(tok.Text) {
			return c, diag.NewInput(tok.Location(), "Cannot redefine %q.", tok.Text)
		}
		if seen[tok.Text] {
			return c, diag.NewInput(tok.Location(), "Duplicate parameter %q.", tok.Text)
		}
		seen[tok.Text] = true
		params = append(params, tok.Text)
		_, c, _ = c.next(tok)
	}

	body, c, err := extractBlock(c, name)
	if err != nil {
		return c, err
	}

	sc.BindInPlace(name.Text, scope.CommandBinding(&scope.Command{
		Name:   name.Text,
		Params: params,
		Body:   body,
	}))
	p.logger.Debug("defined command", "name", name.Text, "params", params, "body_tokens", len(body))
	return c, nil
}

// invoke runs cmd with arguments read from c. Arguments are resolved in the
// caller's scope; the body runs in a child scope, so its Set statements and
// command definitions are discarded on return.
func (p *Parser) invoke(cmd *scope.Command, kw lexer.Token, c cursor, sc *scope.Scope) (cursor, error) {
	if n := len(cmd.Params); c.remaining() < n {
		return c, diag.NewInput(kw.Location(), "Unexpected program end. Command %q requires %d arguments.", cmd.Name, n)
	}

	args := make(map[string]scope.Binding, len(cmd.Params))
	for _, param := range cmd.Params {
		value, next, err := p.resolveNext(kw, c, sc)
		if err != nil {
			return c, err
		}
		c = next
		args[param] = scope.Value(value)
	}

	if p.maxDepth > 0 && p.depth >= p.maxDepth {
		return c, diag.NewInput(kw.Location(), "Command %q nested deeper than %d calls.", cmd.Name, p.maxDepth)
	}

	p.depth++
	defer func() { p.depth-- }()
	return c, p.parseBlock(cmd.Body, sc.DeriveChild(args))
}
